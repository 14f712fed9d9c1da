package sdk

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Role is the closed set of account roles the backend issues.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is the cached profile projection returned by the backend.
type User struct {
	UserID   int64  `json:"user_id" yaml:"user_id" bexpr:"user_id"`
	Username string `json:"username" yaml:"username" bexpr:"username"`
	Email    string `json:"email" yaml:"email" bexpr:"email"`
	Role     Role   `json:"role" yaml:"role" bexpr:"role"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty" bexpr:"name"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Session pairs the bearer token with the cached user projection.
// The zero value is an unauthenticated session.
type Session struct {
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
	User  *User  `json:"user,omitempty" yaml:"user,omitempty"`
}

// Authenticated reports whether the session holds a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Role returns the cached user's role, or "" when no user is cached.
func (s Session) Role() Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// clone returns a copy whose User pointer is not shared with s.
func (s Session) clone() Session {
	if s.User == nil {
		return Session{Token: s.Token}
	}
	u := *s.User
	return Session{Token: s.Token, User: &u}
}

// AttachCredentials sets the bearer Authorization header on req when the
// session carries a token. Without a token the request is left untouched.
func AttachCredentials(req *http.Request, s Session) *http.Request {
	if !s.Authenticated() {
		return req
	}
	token := &oauth2.Token{AccessToken: s.Token, TokenType: "Bearer"}
	token.SetAuthHeader(req)
	return req
}

// TokenClaims are the claims HomeStock tokens usually carry. Tokens are
// opaque to the client, so a failed decode is not an error condition for
// callers that only want a hint.
type TokenClaims struct {
	UserID    int64     `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Role      Role      `json:"role,omitempty" yaml:"role,omitempty"`
	ExpiresAt time.Time `json:"-" yaml:"-"`
}

// DecodeClaims reads the role and user_id claims from a JWT without verifying
// its signature. It is only used for display and fast pre-checks; the backend
// remains the authority on token validity.
func DecodeClaims(token string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("token is not a decodable JWT: %w", err)
	}

	out := &TokenClaims{}
	if role, ok := claims["role"].(string); ok {
		out.Role = Role(role)
	}
	switch id := claims["user_id"].(type) {
	case float64:
		out.UserID = int64(id)
	case string:
		if parsed, err := strconv.ParseInt(id, 10, 64); err == nil {
			out.UserID = parsed
		}
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
