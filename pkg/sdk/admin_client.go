package sdk

import (
	"context"
	"fmt"
	"net/http"
)

// ListUsers returns every account. Admin only; a regular user gets a 403,
// which ends the session like any other authorization failure.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SetUserRole changes an account's role.
func (c *Client) SetUserRole(ctx context.Context, userID int64, role Role) error {
	if err := requireID("user_id", userID); err != nil {
		return err
	}
	if !role.Valid() {
		return &ValidationError{Field: "role", Message: fmt.Sprintf("must be %q or %q", RoleAdmin, RoleUser)}
	}
	body := map[string]Role{"role": role}
	return c.do(ctx, http.MethodPut, resourcePath("/api/admin/users", userID), body, nil)
}

// DeleteUser removes an account. Deleting yourself is refused client-side.
func (c *Client) DeleteUser(ctx context.Context, userID int64) error {
	if err := requireID("user_id", userID); err != nil {
		return err
	}
	if me := c.Session().User; me != nil && me.UserID == userID {
		return &ValidationError{Field: "user_id", Message: "you cannot delete your own account"}
	}
	return c.do(ctx, http.MethodDelete, resourcePath("/api/admin/users", userID), nil, nil)
}
