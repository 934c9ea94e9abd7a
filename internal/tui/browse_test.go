// ABOUTME: Tests for the interactive dashboard browser model
// ABOUTME: Covers state transitions, tab switching, and filtering

package tui

import (
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/samuelikz/tokenboard/client"
	"github.com/samuelikz/tokenboard/models"
)

func newTestBrowse(t *testing.T) *Browse {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c, err := client.New("http://localhost:8080")
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}
	return New(c)
}

func testDashboard() *client.Dashboard {
	return &client.Dashboard{
		Users: []models.User{
			{ID: "1", Name: "Ana", Email: "ana@example.com", Role: models.RoleAdmin, IsActive: true},
			{ID: "2", Name: "Bruno", Email: "bruno@example.com", Role: models.RoleUser, IsActive: false},
		},
		Tokens: []models.APIToken{
			{ID: "t1", Description: "deploy key", Scope: models.ScopeWrite, IsActive: true, CreatedAt: "2026-01-10T00:00:00Z"},
			{ID: "t2", Description: "readonly probe", Scope: models.ScopeRead, IsActive: false, CreatedAt: "2026-01-12T00:00:00Z"},
		},
	}
}

func TestBrowseInitialState(t *testing.T) {
	b := newTestBrowse(t)

	if b.tab != TabTokens {
		t.Errorf("expected initial tab to be TabTokens, got %d", b.tab)
	}
	if !b.loading {
		t.Error("expected browser to start in loading state")
	}
}

func TestBrowseDashboardLoadedMsg(t *testing.T) {
	b := newTestBrowse(t)

	model, _ := b.Update(dashboardLoadedMsg{dash: testDashboard()})
	result := model.(*Browse)

	if result.loading {
		t.Error("expected loading to clear after data arrives")
	}
	if result.dash == nil {
		t.Fatal("expected dashboard data to be set")
	}
	if len(result.visibleTokens()) != 2 {
		t.Errorf("expected 2 visible tokens, got %d", len(result.visibleTokens()))
	}
}

func TestBrowseDashboardLoadError(t *testing.T) {
	b := newTestBrowse(t)

	model, _ := b.Update(dashboardLoadedMsg{err: errFake("gateway unreachable")})
	result := model.(*Browse)

	if result.loading {
		t.Error("expected loading to clear on error")
	}
	view := result.View()
	if !strings.Contains(view, "gateway unreachable") {
		t.Error("expected error message in view")
	}
}

func TestBrowseTabSwitch(t *testing.T) {
	b := newTestBrowse(t)
	b.Update(dashboardLoadedMsg{dash: testDashboard()})

	model, _ := b.Update(tea.KeyMsg{Type: tea.KeyTab})
	result := model.(*Browse)
	if result.tab != TabUsers {
		t.Errorf("expected TabUsers after tab key, got %d", result.tab)
	}

	model, _ = result.Update(tea.KeyMsg{Type: tea.KeyTab})
	result = model.(*Browse)
	if result.tab != TabTokens {
		t.Errorf("expected TabTokens after second tab key, got %d", result.tab)
	}
}

func TestBrowseFilterNarrowsRows(t *testing.T) {
	b := newTestBrowse(t)
	b.Update(dashboardLoadedMsg{dash: testDashboard()})

	b.filter.SetValue("deploy")
	tokens := b.visibleTokens()
	if len(tokens) != 1 || tokens[0].ID != "t1" {
		t.Errorf("expected only the deploy token to remain, got %v", tokens)
	}

	b.tab = TabUsers
	b.filter.SetValue("admin")
	users := b.visibleUsers()
	if len(users) != 1 || users[0].Name != "Ana" {
		t.Errorf("expected only the admin user to remain, got %v", users)
	}
}

func TestBrowseFilterKeyEntersFilterMode(t *testing.T) {
	b := newTestBrowse(t)
	b.Update(dashboardLoadedMsg{dash: testDashboard()})

	model, _ := b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	result := model.(*Browse)
	if !result.filtering {
		t.Error("expected / to enter filter mode")
	}

	model, _ = result.Update(tea.KeyMsg{Type: tea.KeyEsc})
	result = model.(*Browse)
	if result.filtering {
		t.Error("expected esc to leave filter mode")
	}
	if result.filter.Value() != "" {
		t.Error("expected esc to clear the filter")
	}
}

func TestBrowseCursorStaysInRange(t *testing.T) {
	b := newTestBrowse(t)
	b.Update(dashboardLoadedMsg{dash: testDashboard()})

	b.Update(tea.KeyMsg{Type: tea.KeyDown})
	b.Update(tea.KeyMsg{Type: tea.KeyDown})
	b.Update(tea.KeyMsg{Type: tea.KeyDown})
	if b.cursor != 1 {
		t.Errorf("expected cursor clamped to last row, got %d", b.cursor)
	}

	b.Update(tea.KeyMsg{Type: tea.KeyUp})
	b.Update(tea.KeyMsg{Type: tea.KeyUp})
	b.Update(tea.KeyMsg{Type: tea.KeyUp})
	if b.cursor != 0 {
		t.Errorf("expected cursor clamped to first row, got %d", b.cursor)
	}
}

func TestBrowseViewShowsColumns(t *testing.T) {
	b := newTestBrowse(t)
	b.Update(dashboardLoadedMsg{dash: testDashboard()})

	view := b.View()
	if !strings.Contains(view, "DESCRIPTION") {
		t.Error("expected token view to contain the DESCRIPTION column")
	}
	if !strings.Contains(view, "deploy key") {
		t.Error("expected token view to list the deploy token")
	}

	b.tab = TabUsers
	view = b.View()
	if !strings.Contains(view, "ana@example.com") {
		t.Error("expected user view to list the admin user")
	}
}

func TestClip_KeepsMultibyteRunesIntact(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"Administração do sistema", 10, "Administr…"},
		{"Álvaro Gonçalves de Souza", 8, "Álvaro …"},
	}

	for _, tt := range tests {
		got := clip(tt.in, tt.max)
		if got != tt.want {
			t.Errorf("clip(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("clip(%q, %d) produced invalid UTF-8", tt.in, tt.max)
		}
	}
}

type errFake string

func (e errFake) Error() string { return string(e) }
