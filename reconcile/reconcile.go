// ABOUTME: Client-side list reconciliation: filtering and ordering
// ABOUTME: Applies the dashboard's display rules to user and token lists

package reconcile

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/samuelikz/tokenboard/models"
)

// collator orders user names the way the original deployment's locale does.
// Collators are not safe for concurrent use, so each call builds its own.
func newCollator() *collate.Collator {
	return collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
}

// timeMs parses an upstream timestamp to epoch milliseconds. Upstream mixes
// RFC3339 and date-only forms; anything unparseable sorts as zero.
func timeMs(s string) int64 {
	if s == "" {
		return 0
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UnixMilli()
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UnixMilli()
	}
	return 0
}

// matches reports whether any of the fields contains the query as a
// case-insensitive substring.
func matches(query string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// Tokens filters by the query and orders the result: usable tokens first,
// then newest created, then soonest expiry. The input slice is not modified.
func Tokens(tokens []models.APIToken, query string) []models.APIToken {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]models.APIToken, 0, len(tokens))
	for _, t := range tokens {
		if query == "" || matches(query,
			t.Description,
			t.OwnerName, t.OwnerEmail,
			t.CreatedByName, t.CreatedByEmail,
			t.Scope,
		) {
			out = append(out, t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Active() != b.Active() {
			return a.Active()
		}
		if ca, cb := timeMs(a.CreatedAt), timeMs(b.CreatedAt); ca != cb {
			return ca > cb
		}
		return timeMs(a.ExpiresAt) < timeMs(b.ExpiresAt)
	})
	return out
}

// Users filters by the query and orders the result: admins first, then by
// name in locale order. The input slice is not modified.
func Users(users []models.User, query string) []models.User {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if query == "" || matches(query, u.Name, u.Email, u.Role) {
			out = append(out, u)
		}
	}

	col := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.Role == models.RoleAdmin) != (b.Role == models.RoleAdmin) {
			return a.Role == models.RoleAdmin
		}
		return col.CompareString(a.Name, b.Name) < 0
	})
	return out
}
