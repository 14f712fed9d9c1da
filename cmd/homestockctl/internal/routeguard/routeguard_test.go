package routeguard

import (
	"context"
	"errors"
	"testing"

	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGuard struct {
	decision sdk.Decision
	err      error
	mounted  []string
}

func (f *fakeGuard) Mount(ctx context.Context, route sdk.Route) (sdk.Decision, error) {
	f.mounted = append(f.mounted, route.Path)
	return f.decision, f.err
}

func TestRouteOf(t *testing.T) {
	parent := &cobra.Command{Use: "stock", Annotations: For(sdk.RouteStock)}
	child := &cobra.Command{Use: "list"}
	parent.AddCommand(child)

	route, ok := RouteOf(child)
	require.True(t, ok)
	assert.Equal(t, sdk.RouteStock, route)

	override := &cobra.Command{Use: "users", Annotations: For(sdk.RouteAdminUsers)}
	parent.AddCommand(override)
	route, ok = RouteOf(override)
	require.True(t, ok)
	assert.True(t, route.RequiresAdmin)

	_, ok = RouteOf(&cobra.Command{Use: "version"})
	assert.False(t, ok)
}

func TestCheck(t *testing.T) {
	netErr := &sdk.NetworkError{Op: "GET /api/auth/verify", Err: errors.New("refused")}
	lost := &sdk.AuthorizationLostError{StatusCode: 401}

	tests := []struct {
		name         string
		guard        *fakeGuard
		wantErr      bool
		wantRedirect sdk.Decision
	}{
		{"allowed", &fakeGuard{decision: sdk.Allow}, false, sdk.Allow},
		{"to login", &fakeGuard{decision: sdk.RedirectToLogin}, true, sdk.RedirectToLogin},
		{"token rejected", &fakeGuard{decision: sdk.RedirectToLogin, err: lost}, true, sdk.RedirectToLogin},
		{"to dashboard", &fakeGuard{decision: sdk.RedirectToDashboard}, true, sdk.RedirectToDashboard},
		{"network", &fakeGuard{decision: sdk.Allow, err: netErr}, true, sdk.Allow},
		{"interrupted", &fakeGuard{decision: sdk.RedirectToLogin, err: sdk.ErrUnmounted}, true, sdk.Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Check(context.Background(), tt.guard, sdk.RouteInventory)
			assert.Equal(t, []string{"/inventory"}, tt.guard.mounted)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			var redirect *RedirectError
			if tt.wantRedirect == sdk.Allow {
				assert.False(t, errors.As(err, &redirect))
				return
			}
			require.ErrorAs(t, err, &redirect)
			assert.Equal(t, tt.wantRedirect, redirect.Decision)
		})
	}
}

func TestRedirectError_Messages(t *testing.T) {
	assert.Contains(t, (&RedirectError{Decision: sdk.RedirectToLogin}).Error(), "auth login")
	assert.Contains(t,
		(&RedirectError{Decision: sdk.RedirectToLogin, Cause: &sdk.AuthorizationLostError{StatusCode: 401}}).Error(),
		"expired")
	assert.Equal(t, "/admin/users is not available to your role",
		(&RedirectError{Decision: sdk.RedirectToDashboard, From: "/admin/users"}).Error())
}
