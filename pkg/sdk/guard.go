package sdk

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"
)

// Guard validates the session with the backend each time a protected route
// is mounted. Mounts that overlap while a validation for the same token is
// in flight share it instead of issuing another check.
type Guard struct {
	client *Client
	group  singleflight.Group
}

// NewGuard returns a guard that validates through client.
func NewGuard(client *Client) *Guard {
	return &Guard{client: client}
}

// Mount decides whether route may be shown.
//
// Redirects that the local session already implies are returned without any
// I/O. Otherwise the token is confirmed remotely and the backend's user
// projection replaces the cached one before the final decision is made.
//
// A failed validation terminates the session and yields RedirectToLogin with
// the cause, except for network failures: those keep the session and return
// the *NetworkError so the view can offer a retry. If ctx ends before the
// validation completes the result is discarded and ErrUnmounted returned; the
// request itself is left to finish.
func (g *Guard) Mount(ctx context.Context, route Route) (Decision, error) {
	session := g.client.Session()
	if d := EvaluateAccess(session, route); d != Allow || !route.Protected() {
		return d, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := g.group.DoChan(session.Token, func() (any, error) {
		return g.client.VerifySession(detached)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return RedirectToLogin, ErrUnmounted
	case res = <-ch:
	}
	if ctx.Err() != nil {
		return RedirectToLogin, ErrUnmounted
	}

	if res.Err != nil {
		var netErr *NetworkError
		if errors.As(res.Err, &netErr) {
			return Allow, res.Err
		}
		if g.client.sessions.TerminateIfToken(session.Token) {
			g.client.logger.Info("session terminated after failed validation", "error", res.Err)
		}
		return RedirectToLogin, res.Err
	}

	if user, _ := res.Val.(*User); user != nil {
		refreshed := *user
		g.client.sessions.UpdateUser(session.Token, func(u *User) { *u = refreshed })
	}
	return EvaluateAccess(g.client.Session(), route), nil
}
