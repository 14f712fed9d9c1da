package sdk

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// ProfileField names the profile attribute an update changes.
type ProfileField string

const (
	FieldName     ProfileField = "name"
	FieldUsername ProfileField = "username"
	FieldPassword ProfileField = "password"
)

// ProfileUpdate is one submission of the profile form. Value is used for name
// and username; the password fields only for password.
type ProfileUpdate struct {
	Field           ProfileField
	Value           string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// Validate runs the client-side checks. A password confirmation mismatch is
// caught here, before any request.
func (u ProfileUpdate) Validate() error {
	switch u.Field {
	case FieldName, FieldUsername:
		if strings.TrimSpace(u.Value) == "" {
			return &ValidationError{Field: string(u.Field), Message: "is required"}
		}
	case FieldPassword:
		if u.CurrentPassword == "" {
			return &ValidationError{Field: "current_password", Message: "is required"}
		}
		if u.NewPassword == "" {
			return &ValidationError{Field: "new_password", Message: "is required"}
		}
		if u.NewPassword != u.ConfirmPassword {
			return &ValidationError{Field: "confirm_password", Message: "does not match new password"}
		}
	default:
		return &ValidationError{Field: "field", Message: fmt.Sprintf("unknown profile field %q", u.Field)}
	}
	return nil
}

func (u ProfileUpdate) request() (string, any) {
	switch u.Field {
	case FieldName:
		return "/api/users/update-name", map[string]string{"name": strings.TrimSpace(u.Value)}
	case FieldUsername:
		return "/api/users/update-username", map[string]string{"username": strings.TrimSpace(u.Value)}
	default:
		return "/api/users/update-password", map[string]string{
			"current_password": u.CurrentPassword,
			"new_password":     u.NewPassword,
		}
	}
}

// UpdateProfile submits u. On success the cached user is patched in place for
// name and username, so the session matches what the user sees without a
// re-fetch.
func (c *Client) UpdateProfile(ctx context.Context, u ProfileUpdate) (Session, error) {
	if err := u.Validate(); err != nil {
		return Session{}, err
	}
	token := c.sessions.Current().Token

	path, body := u.request()
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return Session{}, err
	}

	value := strings.TrimSpace(u.Value)
	switch u.Field {
	case FieldUsername:
		c.sessions.UpdateUser(token, func(user *User) { user.Username = value })
	case FieldName:
		c.sessions.UpdateUser(token, func(user *User) { user.Name = value })
	}
	return c.sessions.Current(), nil
}
