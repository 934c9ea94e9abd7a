// ABOUTME: Root bubbletea model for the interactive dashboard browser
// ABOUTME: Tabbed users/tokens view with live filtering and reload

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/samuelikz/tokenboard/client"
	"github.com/samuelikz/tokenboard/internal/tui/styles"
	"github.com/samuelikz/tokenboard/models"
	"github.com/samuelikz/tokenboard/reconcile"
)

// Tab identifies the active view
type Tab int

const (
	TabTokens Tab = iota
	TabUsers
)

// dashboardLoadedMsg is sent when the gateway responds with dashboard data
type dashboardLoadedMsg struct {
	dash *client.Dashboard
	err  error
}

// Browse is the root model for the interactive browser
type Browse struct {
	client    *client.Client
	tab       Tab
	cursor    int
	loading   bool
	filtering bool
	dash      *client.Dashboard
	err       error
	width     int
	height    int

	filter textinput.Model
	spin   spinner.Model
}

// New creates a new browser backed by the given gateway client
func New(c *client.Client) *Browse {
	ti := textinput.New()
	ti.Placeholder = "filter..."
	ti.CharLimit = 64
	ti.Width = 32

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Browse{
		client:  c,
		tab:     TabTokens,
		loading: true,
		filter:  ti,
		spin:    sp,
	}
}

// Init implements tea.Model
func (b *Browse) Init() tea.Cmd {
	return tea.Batch(b.spin.Tick, b.loadDashboard())
}

// Update implements tea.Model
func (b *Browse) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		return b, nil

	case spinner.TickMsg:
		if !b.loading {
			return b, nil
		}
		var cmd tea.Cmd
		b.spin, cmd = b.spin.Update(msg)
		return b, cmd

	case dashboardLoadedMsg:
		b.loading = false
		if msg.err != nil {
			b.err = msg.err
			return b, nil
		}
		b.err = nil
		b.dash = msg.dash
		b.clampCursor()
		return b, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return b, tea.Quit
		}
		if b.filtering {
			return b.updateFilter(msg)
		}
		return b.updateList(msg)
	}

	return b, nil
}

func (b *Browse) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		b.filtering = false
		b.filter.SetValue("")
		b.filter.Blur()
		b.cursor = 0
		return b, nil
	case "enter":
		b.filtering = false
		b.filter.Blur()
		b.cursor = 0
		return b, nil
	}

	var cmd tea.Cmd
	b.filter, cmd = b.filter.Update(msg)
	b.cursor = 0
	return b, cmd
}

func (b *Browse) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return b, tea.Quit
	case "tab", "left", "right", "h", "l":
		if b.tab == TabTokens {
			b.tab = TabUsers
		} else {
			b.tab = TabTokens
		}
		b.cursor = 0
		return b, nil
	case "/":
		b.filtering = true
		b.filter.Focus()
		return b, textinput.Blink
	case "esc":
		if b.filter.Value() != "" {
			b.filter.SetValue("")
			b.cursor = 0
		}
		return b, nil
	case "r":
		b.loading = true
		b.err = nil
		return b, tea.Batch(b.spin.Tick, b.loadDashboard())
	case "up", "k":
		if b.cursor > 0 {
			b.cursor--
		}
		return b, nil
	case "down", "j":
		if b.cursor < b.rowCount()-1 {
			b.cursor++
		}
		return b, nil
	}

	return b, nil
}

func (b *Browse) rowCount() int {
	if b.tab == TabUsers {
		return len(b.visibleUsers())
	}
	return len(b.visibleTokens())
}

func (b *Browse) clampCursor() {
	if n := b.rowCount(); b.cursor >= n {
		b.cursor = 0
	}
}

func (b *Browse) visibleUsers() []models.User {
	if b.dash == nil {
		return nil
	}
	return reconcile.Users(b.dash.Users, b.filter.Value())
}

func (b *Browse) visibleTokens() []models.APIToken {
	if b.dash == nil {
		return nil
	}
	return reconcile.Tokens(b.dash.Tokens, b.filter.Value())
}

// loadDashboard creates a command that fetches users and tokens from the gateway
func (b *Browse) loadDashboard() tea.Cmd {
	return func() tea.Msg {
		dash, err := b.client.LoadDashboard(context.Background())
		return dashboardLoadedMsg{dash: dash, err: err}
	}
}

// View implements tea.Model
func (b *Browse) View() string {
	var sb strings.Builder

	sb.WriteString(b.renderTabs())
	sb.WriteString("\n\n")

	if b.filtering || b.filter.Value() != "" {
		sb.WriteString(b.filter.View())
		sb.WriteString("\n\n")
	}

	switch {
	case b.loading:
		sb.WriteString(b.spin.View() + " Loading...")
	case b.err != nil:
		sb.WriteString(styles.ErrorBanner.Render("Error: " + b.err.Error()))
	case b.tab == TabUsers:
		sb.WriteString(b.renderUsers())
	default:
		sb.WriteString(b.renderTokens())
	}

	sb.WriteString("\n")
	sb.WriteString(b.renderHelp())
	return sb.String()
}

func (b *Browse) renderTabs() string {
	tokens := styles.InactiveTab.Render("Tokens")
	users := styles.InactiveTab.Render("Users")
	if b.tab == TabTokens {
		tokens = styles.ActiveTab.Render("Tokens")
	} else {
		users = styles.ActiveTab.Render("Users")
	}
	return tokens + " " + users
}

func (b *Browse) renderUsers() string {
	users := b.visibleUsers()
	if len(users) == 0 {
		return styles.Subtitle.Render("no users")
	}

	var sb strings.Builder
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("  %-24s %-30s %-7s %s", "NAME", "EMAIL", "ROLE", "STATUS")))
	sb.WriteString("\n")
	for i, u := range users {
		cursor := "  "
		if i == b.cursor {
			cursor = styles.KeyStyle.Render("> ")
		}
		status := styles.StatusOK.Render("active")
		if !u.IsActive {
			status = styles.StatusCritical.Render("inactive")
		}
		sb.WriteString(fmt.Sprintf("%s%-24s %-30s %-7s %s\n", cursor, u.Name, u.Email, u.Role, status))
	}
	return sb.String()
}

func (b *Browse) renderTokens() string {
	tokens := b.visibleTokens()
	if len(tokens) == 0 {
		return styles.Subtitle.Render("no tokens")
	}

	var sb strings.Builder
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("  %-8s %-24s %-22s %-10s %-10s %s", "ID", "DESCRIPTION", "OWNER", "SCOPE", "STATUS", "EXPIRES")))
	sb.WriteString("\n")
	for i, t := range tokens {
		cursor := "  "
		if i == b.cursor {
			cursor = styles.KeyStyle.Render("> ")
		}
		status := styles.StatusOK.Render("active")
		if !t.Active() {
			status = styles.StatusCritical.Render("inactive")
		}
		owner := t.OwnerName
		if owner == "" {
			owner = t.OwnerEmail
		}
		expires := t.ExpiresAt
		if expires == "" {
			expires = "-"
		}
		sb.WriteString(fmt.Sprintf("%s%-8s %-24s %-22s %-10s %-10s %s\n",
			cursor, t.ID, clip(t.Description, 24), clip(owner, 22), t.Scope, status, expires))
	}
	return sb.String()
}

func (b *Browse) renderHelp() string {
	if b.filtering {
		return styles.Help.Render("enter apply  esc clear  ctrl+c quit")
	}
	return styles.Help.Render("tab switch  / filter  r reload  ↑↓ move  q quit")
}

// clip shortens s to max characters. Counts runes, not bytes, so accented
// names are never cut mid-character.
func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// Run starts the interactive browser
func Run(c *client.Client) error {
	p := tea.NewProgram(
		New(c),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
