package client

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshdurbin/minilink/internal/domain"
)

func newTestCommands(t *testing.T, handler http.HandlerFunc) (*Commands, *bytes.Buffer) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	var out bytes.Buffer
	return NewCommands(NewClient(server.URL, ""), &out), &out
}

func TestNewCommands(t *testing.T) {
	client := NewClient("http://localhost:8080", "")
	var out bytes.Buffer
	commands := NewCommands(client, &out)

	assert.NotNil(t, commands)
	assert.Equal(t, client, commands.client)
}

func TestCommands_Create(t *testing.T) {
	label := "docs"
	commands, out := newTestCommands(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, domain.Link{
			ShortCode:   "abc1234",
			ShortURL:    "http://localhost:8080/r/abc1234",
			OriginalURL: "https://example.com",
			Label:       &label,
			CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		})
	})

	err := commands.Create(context.Background(), domain.CreateLinkRequest{OriginalURL: "https://example.com"})
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "Short link created:")
	assert.Contains(t, output, "Short Code: abc1234")
	assert.Contains(t, output, "Short URL: http://localhost:8080/r/abc1234")
	assert.Contains(t, output, "Label: docs")
	assert.Contains(t, output, "Created At: 2026-01-01T00:00:00Z")
	assert.Contains(t, output, "Expires At: Never")
	assert.Contains(t, output, "Clicks: 0")
}

func TestCommands_Create_Error(t *testing.T) {
	commands, _ := newTestCommands(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "invalid original_url: must start with http:// or https://"})
	})

	err := commands.Create(context.Background(), domain.CreateLinkRequest{OriginalURL: "ftp://x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must start with http")
}

func TestCommands_Get(t *testing.T) {
	accessed := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	commands, out := newTestCommands(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/links/abc" {
			writeJSON(w, http.StatusOK, domain.Link{ShortCode: "abc", OriginalURL: "https://example.com", ClickCount: 3, LastAccessed: &accessed})
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "short code not found"})
	})

	require.NoError(t, commands.Get(context.Background(), "abc"))
	assert.Contains(t, out.String(), "Link Information:")
	assert.Contains(t, out.String(), "Last Accessed: 2026-02-01T10:00:00Z")
	assert.Contains(t, out.String(), "Clicks: 3")

	out.Reset()
	require.NoError(t, commands.Get(context.Background(), "missing"))
	assert.Equal(t, "Short code 'missing' not found\n", out.String())
}

func TestCommands_Update(t *testing.T) {
	commands, out := newTestCommands(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.Link{ShortCode: "renamed", OriginalURL: "https://example.com"})
	})

	code := "renamed"
	require.NoError(t, commands.Update(context.Background(), "abc", domain.UpdateLinkRequest{CustomCode: &code}))
	assert.Contains(t, out.String(), "Link updated:")
	assert.Contains(t, out.String(), "Short Code: renamed")
}

func TestCommands_Delete(t *testing.T) {
	commands, out := newTestCommands(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/links/abc" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	require.NoError(t, commands.Delete(context.Background(), "abc"))
	assert.Equal(t, "Link 'abc' deleted successfully\n", out.String())

	out.Reset()
	require.NoError(t, commands.Delete(context.Background(), "missing"))
	assert.Equal(t, "Short code 'missing' not found\n", out.String())
}

func TestCommands_Stats(t *testing.T) {
	commands, out := newTestCommands(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.Stats{ClickCount: 8})
	})

	require.NoError(t, commands.Stats(context.Background(), "abc"))
	assert.Equal(t, "Clicks: 8\nLast Accessed: Never\n", out.String())
}

func TestCommands_List(t *testing.T) {
	t.Run("with links", func(t *testing.T) {
		long := "https://example.com/" + string(bytes.Repeat([]byte("a"), 60))
		commands, out := newTestCommands(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []domain.Link{
				{ShortCode: "abc", OriginalURL: "https://example.com", ClickCount: 2},
				{ShortCode: "long", OriginalURL: long},
			})
		})

		require.NoError(t, commands.List(context.Background(), ""))
		output := out.String()
		assert.Contains(t, output, "Short Code")
		assert.Contains(t, output, "abc")
		assert.Contains(t, output, "...")
		assert.NotContains(t, output, long)
		assert.Contains(t, output, "Never")
	})

	t.Run("empty", func(t *testing.T) {
		commands, out := newTestCommands(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []domain.Link{})
		})

		require.NoError(t, commands.List(context.Background(), "clicks"))
		assert.Equal(t, "No links found\n", out.String())
	})
}

func TestCommands_SignupAndLogin(t *testing.T) {
	commands, out := newTestCommands(t, func(w http.ResponseWriter, r *http.Request) {
		session := domain.SessionResponse{
			User:      &domain.User{ID: 1, Username: "alice"},
			Token:     "tok-123",
			ExpiresAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		}
		if r.URL.Path == "/auth/signup" {
			writeJSON(w, http.StatusCreated, session)
			return
		}
		writeJSON(w, http.StatusOK, session)
	})

	creds := domain.CredentialsRequest{Username: "alice", Password: "password123"}

	require.NoError(t, commands.Signup(context.Background(), creds))
	assert.Contains(t, out.String(), "Account 'alice' created")
	assert.Contains(t, out.String(), "Token: tok-123")

	out.Reset()
	require.NoError(t, commands.Login(context.Background(), creds))
	assert.Contains(t, out.String(), "Logged in as 'alice'")
	assert.Contains(t, out.String(), "Expires At: 2026-01-02T00:00:00Z")
}
