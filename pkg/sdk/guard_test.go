package sdk

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const verifyKey = "GET /api/auth/verify"

func verifyAs(user User) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"user": user})
	}
}

func TestGuard_LocalRedirectsSkipNetwork(t *testing.T) {
	tests := []struct {
		name  string
		role  Role
		route Route
		want  Decision
	}{
		{"anonymous on protected route", "", RouteInventory, RedirectToLogin},
		{"user on admin route", RoleUser, RouteAdminUsers, RedirectToDashboard},
		{"admin on user route", RoleAdmin, RouteReminders, RedirectToDashboard},
		{"user on public route", RoleUser, RouteLogin, Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t)
			api.handle(verifyKey, verifyAs(User{UserID: 1, Username: "a", Email: "a@b.com", Role: tt.role}))

			c, _ := newTestClient(t, api)
			if tt.role != "" {
				c, _ = loggedInClient(t, api, tt.role)
			}

			got, err := NewGuard(c).Mount(context.Background(), tt.route)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Zero(t, api.callCount(verifyKey))
		})
	}
}

func TestGuard_AllowsAfterRemoteConfirmation(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(verifyKey, verifyAs(User{UserID: 1, Username: "a", Email: "a@b.com", Role: RoleUser, Name: "Ann"}))
	c, _ := loggedInClient(t, api, RoleUser)

	got, err := NewGuard(c).Mount(context.Background(), RouteInventory)
	require.NoError(t, err)
	assert.Equal(t, Allow, got)
	assert.Equal(t, 1, api.callCount(verifyKey))
	assert.Equal(t, "Bearer T", api.lastAuth())
	assert.Equal(t, "Ann", c.Session().User.Name, "backend projection replaces the cached user")
}

func TestGuard_RefreshedRoleIsReevaluated(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(verifyKey, verifyAs(User{UserID: 1, Username: "a", Email: "a@b.com", Role: RoleAdmin}))
	c, _ := loggedInClient(t, api, RoleUser)

	got, err := NewGuard(c).Mount(context.Background(), RouteInventory)
	require.NoError(t, err)
	assert.Equal(t, RedirectToDashboard, got)
	assert.Equal(t, RoleAdmin, c.Session().Role())
	assert.Equal(t, "T", c.Session().Token)
}

func TestGuard_RejectedTokenEndsSession(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(verifyKey, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "jwt expired"})
	})
	c, rec := loggedInClient(t, api, RoleUser)

	got, err := NewGuard(c).Mount(context.Background(), RouteShoppingList)
	assert.ErrorIs(t, err, ErrAuthorizationLost)
	assert.Equal(t, RedirectToLogin, got)

	session := c.Session()
	assert.Empty(t, session.Token)
	assert.Nil(t, session.User)
	assert.Equal(t, int32(1), rec.count.Load())
}

func TestGuard_MalformedVerificationEndsSession(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(verifyKey, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	c, _ := loggedInClient(t, api, RoleUser)

	got, err := NewGuard(c).Mount(context.Background(), RouteStock)
	require.Error(t, err)
	assert.Equal(t, RedirectToLogin, got)
	assert.False(t, c.Session().Authenticated())
}

func TestGuard_ServerErrorEndsSession(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(verifyKey, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "db down"})
	})
	c, _ := loggedInClient(t, api, RoleAdmin)

	got, err := NewGuard(c).Mount(context.Background(), RouteAdminUsers)
	var remErr *RemoteError
	require.ErrorAs(t, err, &remErr)
	assert.Equal(t, RedirectToLogin, got)
	assert.False(t, c.Session().Authenticated())
}

func TestGuard_NetworkFailureKeepsSession(t *testing.T) {
	api := newFakeAPI(t)
	c, _ := loggedInClient(t, api, RoleUser)
	api.server.Close()

	got, err := NewGuard(c).Mount(context.Background(), RouteInventory)
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, Allow, got)
	assert.True(t, c.Session().Authenticated())
}

func TestGuard_ConcurrentMountsShareValidation(t *testing.T) {
	api := newFakeAPI(t)
	release := make(chan struct{})
	api.handle(verifyKey, func(w http.ResponseWriter, r *http.Request) {
		<-release
		verifyAs(User{UserID: 1, Username: "a", Email: "a@b.com", Role: RoleUser})(w, r)
	})
	c, _ := loggedInClient(t, api, RoleUser)
	guard := NewGuard(c)

	const mounts = 5
	var wg sync.WaitGroup
	decisions := make([]Decision, mounts)
	errs := make([]error, mounts)
	for i := 0; i < mounts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			decisions[i], errs[i] = guard.Mount(context.Background(), RouteInventory)
		}(i)
	}

	require.Eventually(t, func() bool { return api.callCount(verifyKey) == 1 }, timeout, tick)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, api.callCount(verifyKey))
	for i := range decisions {
		assert.NoError(t, errs[i])
		assert.Equal(t, Allow, decisions[i])
	}
}

func TestGuard_UnmountDiscardsResult(t *testing.T) {
	api := newFakeAPI(t)
	release := make(chan struct{})
	served := make(chan struct{})
	api.handle(verifyKey, func(w http.ResponseWriter, r *http.Request) {
		<-release
		verifyAs(User{UserID: 1, Username: "a", Email: "a@b.com", Role: RoleAdmin})(w, r)
		close(served)
	})
	c, _ := loggedInClient(t, api, RoleUser)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var (
		got Decision
		err error
	)
	go func() {
		defer close(done)
		got, err = NewGuard(c).Mount(ctx, RouteInventory)
	}()

	require.Eventually(t, func() bool { return api.callCount(verifyKey) == 1 }, timeout, tick)
	cancel()
	<-done
	assert.ErrorIs(t, err, ErrUnmounted)
	assert.Equal(t, RedirectToLogin, got)

	close(release)
	<-served
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, RoleUser, c.Session().Role(), "late result must not replace the user")
	assert.True(t, c.Session().Authenticated())
}
