// pkg/sdk/auth.go
package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
)

// Credentials are what a user types into the login form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the form before any request is made.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return &ValidationError{Field: "email", Message: "is required"}
	}
	if c.Password == "" {
		return &ValidationError{Field: "password", Message: "is required"}
	}
	return nil
}

type loginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type userEnvelope struct {
	User    *User  `json:"user"`
	Message string `json:"message,omitempty"`
}

// Login exchanges credentials for a token and user projection, then stores
// both at once. On any failure it returns *AuthError (or *ValidationError for
// an incomplete form) and the current session is left as it was.
func (c *Client) Login(ctx context.Context, creds Credentials) (Session, error) {
	if err := creds.Validate(); err != nil {
		return Session{}, err
	}

	resp, err := c.send(withoutCredentials(ctx), http.MethodPost, "/api/auth/login", creds)
	if err != nil {
		var netErr *NetworkError
		if errors.As(err, &netErr) {
			return Session{}, &AuthError{Reason: AuthNetwork, Message: "could not reach server", Cause: err}
		}
		return Session{}, &AuthError{Reason: AuthRemote, Message: "request failed", Cause: err}
	}

	switch {
	case resp.status == http.StatusBadRequest, resp.status == http.StatusNotFound, IsAuthorizationFailure(resp.status):
		return Session{}, &AuthError{Reason: AuthInvalidCredentials, Message: remoteMessage(resp.body)}
	case resp.status >= 400:
		return Session{}, &AuthError{
			Reason:  AuthRemote,
			Message: remoteMessage(resp.body),
			Cause:   &RemoteError{StatusCode: resp.status, Message: remoteMessage(resp.body)},
		}
	}

	if err := validateResponse("loginResponse", resp.body); err != nil {
		return Session{}, &AuthError{Reason: AuthMalformedResponse, Message: "unexpected login response", Cause: err}
	}
	var payload loginResponse
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return Session{}, &AuthError{Reason: AuthMalformedResponse, Message: "unexpected login response", Cause: err}
	}

	if claims, err := DecodeClaims(payload.Token); err == nil && claims.Role != "" && claims.Role != payload.User.Role {
		c.logger.Warn("token role claim differs from user projection; using projection",
			"claim_role", claims.Role, "user_role", payload.User.Role)
	}

	session := Session{Token: payload.Token, User: &payload.User}
	if err := c.sessions.Establish(session); err != nil {
		return Session{}, &AuthError{Reason: AuthStorage, Message: "could not store session", Cause: err}
	}
	c.logger.Info("logged in", "user_id", payload.User.UserID, "role", payload.User.Role)
	return session.clone(), nil
}

// Registration is the sign-up form.
type Registration struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
}

// Validate checks the form before any request is made.
func (r Registration) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return &ValidationError{Field: "username", Message: "is required"}
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return &ValidationError{Field: "email", Message: "is not a valid address"}
	}
	if r.Password == "" {
		return &ValidationError{Field: "password", Message: "is required"}
	}
	if r.Password != r.ConfirmPassword {
		return &ValidationError{Field: "confirm_password", Message: "does not match password"}
	}
	return nil
}

// Register creates an account. It does not log in; the caller follows up
// with Login. The returned user is nil when the backend only sends a message.
func (c *Client) Register(ctx context.Context, reg Registration) (*User, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	resp, err := c.send(withoutCredentials(ctx), http.MethodPost, "/api/auth/register", reg)
	if err != nil {
		return nil, err
	}
	if resp.status >= 400 {
		return nil, &RemoteError{StatusCode: resp.status, Message: remoteMessage(resp.body)}
	}
	if len(strings.TrimSpace(string(resp.body))) == 0 {
		return nil, nil
	}
	if err := validateResponse("registerResponse", resp.body); err != nil {
		return nil, err
	}
	var payload userEnvelope
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return nil, err
	}
	return payload.User, nil
}

// VerifySession asks the backend whether the current token is still accepted
// and returns its view of the user. It does not modify the session itself;
// Guard.Mount decides what to do with the result. A 401/403 still terminates
// the session through the transport.
func (c *Client) VerifySession(ctx context.Context) (*User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/auth/verify", nil, &raw); err != nil {
		return nil, err
	}
	if err := validateResponse("verifyResponse", raw); err != nil {
		return nil, err
	}
	var payload userEnvelope
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return payload.User, nil
}

// Logout ends the session locally. It reports whether a session was active.
func (c *Client) Logout() bool {
	ended := c.sessions.Terminate()
	if ended {
		c.logger.Info("logged out")
	}
	return ended
}
