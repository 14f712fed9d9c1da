package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/routeguard"
	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend struct {
	mu     sync.Mutex
	role   sdk.Role
	revoke bool
	hits   map[string]int
}

func (b *backend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[key]
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.hits[r.Method+" "+r.URL.Path]++
	role, revoke := b.role, b.revoke
	b.mu.Unlock()

	reply := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	user := sdk.User{UserID: 1, Username: "a", Email: "a@b.com", Role: role}

	if r.URL.Path == "/api/auth/login" {
		var creds sdk.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email != "a@b.com" || creds.Password != "secret" {
			reply(http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
			return
		}
		reply(http.StatusOK, map[string]any{"token": "T", "user": user})
		return
	}

	if revoke || r.Header.Get("Authorization") != "Bearer T" {
		reply(http.StatusUnauthorized, map[string]string{"message": "invalid token"})
		return
	}

	switch r.Method + " " + r.URL.Path {
	case "GET /api/auth/verify":
		reply(http.StatusOK, map[string]any{"user": user})
	case "GET /api/items":
		reply(http.StatusOK, []sdk.Item{
			{ItemID: 1, Name: "Milk", Category: "dairy", Quantity: 2},
			{ItemID: 2, Name: "Rice", Category: "grains", Quantity: 1},
		})
	case "GET /api/stock", "GET /api/shopping-list", "GET /api/reminders":
		reply(http.StatusOK, []any{})
	case "GET /api/admin/users":
		if role != sdk.RoleAdmin {
			reply(http.StatusForbidden, map[string]string{"message": "admins only"})
			return
		}
		reply(http.StatusOK, []sdk.User{user})
	default:
		http.NotFound(w, r)
	}
}

func setup(t *testing.T, role sdk.Role) (*backend, string) {
	t.Helper()
	b := &backend{role: role, hits: map[string]int{}}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	sessionFile := filepath.Join(dir, "session.json")
	t.Setenv("HOME", dir)
	t.Setenv("HOMESTOCK_SERVER", srv.URL)
	t.Setenv("HOMESTOCK_SESSION_FILE", sessionFile)
	t.Setenv("HOMESTOCK_NON_INTERACTIVE", "true")
	return b, sessionFile
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_LoginThenListItems(t *testing.T) {
	b, sessionFile := setup(t, sdk.RoleUser)

	_, err := run(t, "auth", "login", "--email", "a@b.com", "--password", "secret")
	require.NoError(t, err)
	_, err = os.Stat(sessionFile)
	require.NoError(t, err, "session is persisted")

	out, err := run(t, "inventory", "list", "-o", "json", "--where", "category=dairy")
	require.NoError(t, err)

	var items []sdk.Item
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Name)
	assert.Equal(t, 1, b.count("GET /api/auth/verify"), "route mount confirms the session")
}

func TestCLI_WrongPassword(t *testing.T) {
	_, sessionFile := setup(t, sdk.RoleUser)

	_, err := run(t, "auth", "login", "--email", "a@b.com", "--password", "nope")
	var authErr *sdk.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, sdk.AuthInvalidCredentials, authErr.Reason)

	_, statErr := os.Stat(sessionFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCLI_ProtectedCommandWithoutSession(t *testing.T) {
	b, _ := setup(t, sdk.RoleUser)

	_, err := run(t, "stock", "list", "-o", "json")
	var redirect *routeguard.RedirectError
	require.ErrorAs(t, err, &redirect)
	assert.Equal(t, sdk.RedirectToLogin, redirect.Decision)
	assert.Contains(t, errorMessage(err), "auth login")
	assert.Zero(t, b.count("GET /api/auth/verify"), "no session means no remote check")
	assert.Zero(t, b.count("GET /api/stock"))
}

func TestCLI_UserBouncedFromAdminCommand(t *testing.T) {
	b, sessionFile := setup(t, sdk.RoleUser)
	_, err := run(t, "auth", "login", "--email", "a@b.com", "--password", "secret")
	require.NoError(t, err)

	_, err = run(t, "users", "list", "-o", "json")
	var redirect *routeguard.RedirectError
	require.ErrorAs(t, err, &redirect)
	assert.Equal(t, sdk.RedirectToDashboard, redirect.Decision)
	assert.Zero(t, b.count("GET /api/admin/users"))
	assert.Equal(t, 1, b.count("GET /api/items"), "dashboard shown instead")

	_, statErr := os.Stat(sessionFile)
	assert.NoError(t, statErr, "session survives a role bounce")
}

func TestCLI_AdminBouncedFromHouseholdCommand(t *testing.T) {
	b, _ := setup(t, sdk.RoleAdmin)
	_, err := run(t, "auth", "login", "--email", "a@b.com", "--password", "secret")
	require.NoError(t, err)

	_, err = run(t, "reminders", "list", "-o", "json")
	var redirect *routeguard.RedirectError
	require.ErrorAs(t, err, &redirect)
	assert.Equal(t, sdk.RedirectToDashboard, redirect.Decision)
	assert.Zero(t, b.count("GET /api/reminders"))

	out, err := run(t, "users", "list", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"username": "a"`)
}

func TestCLI_RevokedTokenEndsSession(t *testing.T) {
	b, sessionFile := setup(t, sdk.RoleUser)
	_, err := run(t, "auth", "login", "--email", "a@b.com", "--password", "secret")
	require.NoError(t, err)

	b.mu.Lock()
	b.revoke = true
	b.mu.Unlock()

	_, err = run(t, "inventory", "list", "-o", "json")
	var redirect *routeguard.RedirectError
	require.ErrorAs(t, err, &redirect)
	assert.Equal(t, sdk.RedirectToLogin, redirect.Decision)
	assert.ErrorIs(t, err, sdk.ErrAuthorizationLost)

	_, statErr := os.Stat(sessionFile)
	assert.True(t, os.IsNotExist(statErr), "stored session is wiped")
}

func TestCLI_Logout(t *testing.T) {
	_, sessionFile := setup(t, sdk.RoleUser)
	_, err := run(t, "auth", "login", "--email", "a@b.com", "--password", "secret")
	require.NoError(t, err)

	out, err := run(t, "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	_, statErr := os.Stat(sessionFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCLI_StatusIsPublic(t *testing.T) {
	setup(t, sdk.RoleUser)

	out, err := run(t, "auth", "status", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"logged_in": false`)
}
