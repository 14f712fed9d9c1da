package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	timeout = 2 * time.Second
	tick    = 10 * time.Millisecond
)

// fakeAPI is a minimal HomeStock backend. Handlers are keyed by "METHOD /path".
type fakeAPI struct {
	t        *testing.T
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	calls    map[string]int
	auth     []string
	server   *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{t: t, handlers: map[string]http.HandlerFunc{}, calls: map[string]int{}}
	api.server = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.server.Close)
	return api
}

func (a *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	a.mu.Lock()
	a.calls[key]++
	a.auth = append(a.auth, r.Header.Get("Authorization"))
	h, ok := a.handlers[key]
	a.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

func (a *fakeAPI) handle(key string, h http.HandlerFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handlers[key] = h
}

func (a *fakeAPI) callCount(key string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[key]
}

func (a *fakeAPI) lastAuth() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.auth) == 0 {
		return ""
	}
	return a.auth[len(a.auth)-1]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func loginOK(token string, user User) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": user})
	}
}

type noticeRecorder struct {
	count atomic.Int32
	last  atomic.Value
}

func (n *noticeRecorder) Notify(notice Notice) {
	n.count.Add(1)
	n.last.Store(notice)
}

func newTestClient(t *testing.T, api *fakeAPI) (*Client, *noticeRecorder) {
	t.Helper()
	rec := &noticeRecorder{}
	return NewClient(api.server.URL, WithNotifier(rec)), rec
}

func loggedInClient(t *testing.T, api *fakeAPI, role Role) (*Client, *noticeRecorder) {
	t.Helper()
	c, rec := newTestClient(t, api)
	require.NoError(t, c.Sessions().Establish(Session{
		Token: "T",
		User:  &User{UserID: 1, Username: "a", Email: "a@b.com", Role: role},
	}))
	return c, rec
}

func TestClient_LoginSuccess(t *testing.T) {
	api := newFakeAPI(t)
	var got Credentials
	api.handle("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		loginOK("T", User{UserID: 1, Username: "a", Email: "a@b.com", Role: RoleUser})(w, r)
	})

	c, _ := newTestClient(t, api)
	session, err := c.Login(context.Background(), Credentials{Email: "a@b.com", Password: "secret"})
	require.NoError(t, err)

	assert.Equal(t, Credentials{Email: "a@b.com", Password: "secret"}, got)
	assert.Empty(t, api.lastAuth(), "login is sent without credentials")
	assert.Equal(t, "T", session.Token)
	assert.Equal(t, int64(1), session.User.UserID)
	assert.Equal(t, RoleUser, c.Session().Role())

	assert.Equal(t, Allow, EvaluateAccess(c.Session(), RouteInventory))
	assert.Equal(t, RedirectToDashboard, EvaluateAccess(c.Session(), RouteAdminUsers))
}

func TestClient_LoginFailuresLeaveSessionUntouched(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantReason AuthReason
	}{
		{
			name: "invalid credentials",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
			},
			wantReason: AuthInvalidCredentials,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
			},
			wantReason: AuthRemote,
		},
		{
			name: "missing user",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]string{"token": "T"})
			},
			wantReason: AuthMalformedResponse,
		},
		{
			name:       "unknown role",
			handler:    loginOK("T", User{UserID: 1, Username: "a", Email: "a@b.com", Role: "owner"}),
			wantReason: AuthMalformedResponse,
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("<html>"))
			},
			wantReason: AuthMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t)
			api.handle("POST /api/auth/login", tt.handler)

			c, _ := loggedInClient(t, api, RoleAdmin)
			before := c.Session()

			_, err := c.Login(context.Background(), Credentials{Email: "a@b.com", Password: "wrong"})
			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.wantReason, authErr.Reason)
			assert.Equal(t, before, c.Session())
		})
	}
}

func TestClient_LoginNetworkError(t *testing.T) {
	api := newFakeAPI(t)
	url := api.server.URL
	api.server.Close()

	c := NewClient(url)
	_, err := c.Login(context.Background(), Credentials{Email: "a@b.com", Password: "secret"})
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, AuthNetwork, authErr.Reason)
	assert.False(t, c.Session().Authenticated())
}

func TestClient_LoginValidation(t *testing.T) {
	api := newFakeAPI(t)
	c, _ := newTestClient(t, api)

	_, err := c.Login(context.Background(), Credentials{Email: "a@b.com"})
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "password", valErr.Field)
	assert.Zero(t, api.callCount("POST /api/auth/login"))
}

func TestClient_AttachesBearerToAuthenticatedCalls(t *testing.T) {
	api := newFakeAPI(t)
	var requestID string
	api.handle("GET /api/items", func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get(RequestIDHeader)
		writeJSON(w, http.StatusOK, []Item{{ItemID: 1, Name: "Milk", Quantity: 2}})
	})

	c, _ := loggedInClient(t, api, RoleUser)
	items, err := c.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Name)
	assert.Equal(t, "Bearer T", api.lastAuth())
	assert.NotEmpty(t, requestID)
}

func TestClient_UnauthenticatedCallsNeverLeave(t *testing.T) {
	api := newFakeAPI(t)
	c, _ := newTestClient(t, api)

	_, err := c.ListItems(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, api.callCount("GET /api/items"))
}

func TestClient_AuthorizationFailureTerminatesOnce(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			api := newFakeAPI(t)
			api.handle("GET /api/stock", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, status, map[string]string{"message": "token expired"})
			})

			c, rec := loggedInClient(t, api, RoleUser)

			var wg sync.WaitGroup
			errs := make([]error, 5)
			for i := range errs {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, errs[i] = c.ListStock(context.Background())
				}(i)
			}
			wg.Wait()

			lost := 0
			for _, err := range errs {
				if errors.Is(err, ErrAuthorizationLost) {
					lost++
				} else {
					assert.ErrorIs(t, err, ErrNotAuthenticated)
				}
			}
			assert.GreaterOrEqual(t, lost, 1)

			session := c.Session()
			assert.Empty(t, session.Token)
			assert.Nil(t, session.User)
			assert.Equal(t, int32(1), rec.count.Load(), "one notice per burst")
			assert.Equal(t, SessionExpiredNotice, rec.last.Load())
		})
	}
}

func TestClient_NetworkFailureKeepsSession(t *testing.T) {
	api := newFakeAPI(t)
	c, rec := loggedInClient(t, api, RoleUser)
	api.server.Close()

	_, err := c.ListReminders(context.Background())
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, c.Session().Authenticated())
	assert.Zero(t, rec.count.Load())
}

func TestClient_RemoteErrorCarriesMessage(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("POST /api/items", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Item already exists"})
	})

	c, _ := loggedInClient(t, api, RoleUser)
	_, err := c.CreateItem(context.Background(), Item{Name: "Milk", Quantity: 1})

	var remErr *RemoteError
	require.ErrorAs(t, err, &remErr)
	assert.Equal(t, http.StatusConflict, remErr.StatusCode)
	assert.Equal(t, "Item already exists", UserMessage(err))
	assert.True(t, c.Session().Authenticated())
}

func TestClient_StaleUnauthorizedDoesNotEndNewSession(t *testing.T) {
	api := newFakeAPI(t)
	release := make(chan struct{})
	api.handle("GET /api/items", func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusUnauthorized)
	})

	c, rec := loggedInClient(t, api, RoleUser)
	done := make(chan error, 1)
	go func() {
		_, err := c.ListItems(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool { return api.callCount("GET /api/items") == 1 }, timeout, tick)
	require.NoError(t, c.Sessions().Establish(Session{Token: "T2", User: &User{UserID: 1, Role: RoleUser}}))
	close(release)

	assert.ErrorIs(t, <-done, ErrAuthorizationLost)
	assert.Equal(t, "T2", c.Session().Token)
	assert.Zero(t, rec.count.Load())
}

func TestClient_PasswordMismatchSendsNothing(t *testing.T) {
	api := newFakeAPI(t)
	c, _ := loggedInClient(t, api, RoleUser)

	_, err := c.UpdateProfile(context.Background(), ProfileUpdate{
		Field:           FieldPassword,
		CurrentPassword: "old",
		NewPassword:     "new-one",
		ConfirmPassword: "new-two",
	})
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "confirm_password", valErr.Field)
	assert.Zero(t, api.callCount("POST /api/users/update-password"))
}

func TestClient_PasswordChange(t *testing.T) {
	api := newFakeAPI(t)
	var body map[string]string
	api.handle("POST /api/users/update-password", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
	})
	c, _ := loggedInClient(t, api, RoleUser)

	_, err := c.UpdateProfile(context.Background(), ProfileUpdate{
		Field:           FieldPassword,
		CurrentPassword: "old",
		NewPassword:     "new",
		ConfirmPassword: "new",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"current_password": "old", "new_password": "new"}, body)
}

func TestClient_UsernameUpdatePatchesCache(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("POST /api/users/update-username", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Username updated"})
	})
	c, _ := loggedInClient(t, api, RoleUser)

	session, err := c.UpdateProfile(context.Background(), ProfileUpdate{Field: FieldUsername, Value: " newname "})
	require.NoError(t, err)
	assert.Equal(t, "newname", session.User.Username)
	assert.Equal(t, "newname", c.Session().User.Username)
	assert.Zero(t, api.callCount("GET /api/auth/verify"), "no re-fetch")
}

func TestClient_RegisterValidation(t *testing.T) {
	api := newFakeAPI(t)
	c, _ := newTestClient(t, api)

	_, err := c.Register(context.Background(), Registration{
		Username: "a", Email: "a@b.com", Password: "x", ConfirmPassword: "y",
	})
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Zero(t, api.callCount("POST /api/auth/register"))
}

func TestClient_Register(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{
			"user": User{UserID: 7, Username: "a", Email: "a@b.com", Role: RoleUser},
		})
	})
	c, _ := newTestClient(t, api)

	user, err := c.Register(context.Background(), Registration{
		Username: "a", Email: "a@b.com", Password: "x", ConfirmPassword: "x",
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(7), user.UserID)
	assert.Empty(t, api.lastAuth())
	assert.False(t, c.Session().Authenticated(), "registering does not log in")
}

func TestClient_DeleteSelfRefused(t *testing.T) {
	api := newFakeAPI(t)
	c, _ := loggedInClient(t, api, RoleAdmin)

	err := c.DeleteUser(context.Background(), 1)
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Zero(t, api.callCount("DELETE /api/admin/users/1"))
}

func TestClient_SetUserRole(t *testing.T) {
	api := newFakeAPI(t)
	var body map[string]string
	api.handle("PUT /api/admin/users/4", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusNoContent)
	})
	c, _ := loggedInClient(t, api, RoleAdmin)

	require.NoError(t, c.SetUserRole(context.Background(), 4, RoleAdmin))
	assert.Equal(t, "admin", body["role"])

	var valErr *ValidationError
	assert.ErrorAs(t, c.SetUserRole(context.Background(), 4, "root"), &valErr)
}

func TestClient_Logout(t *testing.T) {
	api := newFakeAPI(t)
	c, rec := loggedInClient(t, api, RoleUser)

	assert.True(t, c.Logout())
	assert.False(t, c.Logout())
	assert.False(t, c.Session().Authenticated())
	assert.Zero(t, rec.count.Load(), "explicit logout is not a lost session")
}
