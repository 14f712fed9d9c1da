package sdk

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries the per-call request ID.
const RequestIDHeader = "X-Request-ID"

type publicRequestKey struct{}

// withoutCredentials marks ctx so the transport sends the request bare.
// Login and registration use it; a 401 on such a request is a credential
// problem, not a lost session.
func withoutCredentials(ctx context.Context) context.Context {
	return context.WithValue(ctx, publicRequestKey{}, true)
}

func isPublic(ctx context.Context) bool {
	public, _ := ctx.Value(publicRequestKey{}).(bool)
	return public
}

// RequestContext is derived fresh for every outbound call.
type RequestContext struct {
	RequestID string
	// Token is the bearer token attached to the call, "" for public calls.
	Token string
}

// sessionTransport is the single place credentials are attached and
// authorization failures are intercepted.
type sessionTransport struct {
	base       http.RoundTripper
	sessions   *SessionManager
	onAuthLost func(rc RequestContext, status int)
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rc := RequestContext{RequestID: uuid.NewString()}

	out := req.Clone(req.Context())
	out.Header.Set(RequestIDHeader, rc.RequestID)
	if !isPublic(req.Context()) {
		session := t.sessions.Current()
		rc.Token = session.Token
		AttachCredentials(out, session)
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}
	if rc.Token != "" && IsAuthorizationFailure(resp.StatusCode) && t.onAuthLost != nil {
		t.onAuthLost(rc, resp.StatusCode)
	}
	return resp, nil
}
