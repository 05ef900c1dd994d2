package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/taskboard/internal/apiclient"
	"github.com/balkashynov/taskboard/internal/auth"
	"github.com/balkashynov/taskboard/internal/models"
	"github.com/balkashynov/taskboard/internal/session"
)

// testDeps wires the list screen to a stub HTTP server
func testDeps(t *testing.T, handler http.HandlerFunc) Deps {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.New(filepath.Join(t.TempDir(), "session.json"))
	store.Hydrate()
	require.NoError(t, store.SetUsername("alice"))

	return Deps{
		Client:  apiclient.New(srv.URL),
		Session: store,
		Gate:    auth.NewGate([]auth.Credential{auth.FallbackCredential()}),
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collectMsgs runs a command tree and flattens the produced messages
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collectMsgs(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findMsg[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if typed, ok := msg.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

func TestListCreateCategoryFlow(t *testing.T) {
	var createdName string
	deps := testDeps(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/categories":
			var in map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			createdName = in["name"]
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(models.Category{ID: 1, Name: in["name"]})
		case r.Method == http.MethodGet && r.URL.Path == "/categories":
			json.NewEncoder(w).Encode([]models.Category{{ID: 1, Name: "Work"}})
		default:
			json.NewEncoder(w).Encode([]models.Task{})
		}
	})

	m := NewListModel(deps)

	m, _ = m.Update(keyRunes("C"))
	require.True(t, m.addingCat)

	m, _ = m.Update(keyRunes("Work"))
	assert.Equal(t, "Work", m.catInput.Value())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.addingCat)
	require.NotNil(t, cmd)

	saved, ok := findMsg[categorySavedMsg](collectMsgs(cmd))
	require.True(t, ok)
	require.NoError(t, saved.err)
	assert.Equal(t, "Work", createdName)

	// The save triggers a category refetch so the new option shows up
	m, cmd = m.Update(saved)
	require.NotNil(t, cmd)
	loaded, ok := findMsg[categoriesLoadedMsg](collectMsgs(cmd))
	require.True(t, ok)

	m, _ = m.Update(loaded)
	require.Len(t, m.categories, 1)
	assert.Equal(t, "Work", m.categories[0].Name)
}

// An invalid name never reaches the server; the field error shows and
// the input stays open.
func TestListCreateCategoryRejectsInvalidName(t *testing.T) {
	deps := testDeps(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			t.Error("invalid category name must not be submitted")
		}
		json.NewEncoder(w).Encode([]models.Task{})
	})

	m := NewListModel(deps)
	m, _ = m.Update(keyRunes("C"))

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.True(t, m.addingCat)
	assert.Equal(t, "A category value is required.", m.errMsg)
}

func TestListCreateCategoryCancel(t *testing.T) {
	deps := testDeps(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Task{})
	})

	m := NewListModel(deps)
	m, _ = m.Update(keyRunes("C"))
	m, _ = m.Update(keyRunes("Wor"))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.addingCat)
	assert.Empty(t, m.catInput.Value())
}

func TestDueSoon(t *testing.T) {
	assert.True(t, dueSoon(time.Now().AddDate(0, 0, 1)))
	assert.True(t, dueSoon(time.Now().AddDate(0, 0, -1)), "overdue counts as due soon")
	assert.False(t, dueSoon(time.Now().AddDate(0, 0, 5)))
}

func TestPadKeepsColumnWidth(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
	}{
		{name: "short ascii", input: "abc", width: 10},
		{name: "long ascii", input: "a very long task name", width: 10},
		{name: "multibyte fits", input: "寿司", width: 10},
		{name: "multibyte truncated", input: "寿司を買いに行く", width: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pad(tt.input, tt.width)
			assert.True(t, utf8.ValidString(got), "truncation must not split a rune")
			assert.Equal(t, tt.width, runewidth.StringWidth(got))
		})
	}
}
