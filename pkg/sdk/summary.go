package sdk

import (
	"context"
	"fmt"
	"time"
)

// ExpiryWindow is how far ahead a summary looks for expiring items.
const ExpiryWindow = 7 * 24 * time.Hour

// Summary is the dashboard content for one session. Household counts are
// filled for users, account counts for administrators.
type Summary struct {
	Username string `json:"username" yaml:"username"`
	Role     Role   `json:"role" yaml:"role"`

	Items            int `json:"items,omitempty" yaml:"items,omitempty"`
	ExpiringSoon     int `json:"expiring_soon,omitempty" yaml:"expiring_soon,omitempty"`
	LowStock         int `json:"low_stock,omitempty" yaml:"low_stock,omitempty"`
	ShoppingPending  int `json:"shopping_pending,omitempty" yaml:"shopping_pending,omitempty"`
	OverdueReminders int `json:"overdue_reminders,omitempty" yaml:"overdue_reminders,omitempty"`

	Users  int `json:"users,omitempty" yaml:"users,omitempty"`
	Admins int `json:"admins,omitempty" yaml:"admins,omitempty"`
}

// Summary collects the dashboard counts for the current session's role.
func (c *Client) Summary(ctx context.Context, now time.Time) (*Summary, error) {
	session := c.Session()
	if !session.Authenticated() || session.User == nil {
		return nil, ErrNotAuthenticated
	}
	s := &Summary{Username: session.User.Username, Role: session.User.Role}

	if session.User.IsAdmin() {
		users, err := c.ListUsers(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		s.Users = len(users)
		for _, u := range users {
			if u.IsAdmin() {
				s.Admins++
			}
		}
		return s, nil
	}

	items, err := c.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	s.Items = len(items)
	for _, item := range items {
		if item.ExpiresWithin(now, ExpiryWindow) {
			s.ExpiringSoon++
		}
	}

	stock, err := c.ListStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock: %w", err)
	}
	for _, item := range stock {
		if item.Low() {
			s.LowStock++
		}
	}

	shopping, err := c.ListShoppingItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping items: %w", err)
	}
	for _, item := range shopping {
		if !item.Purchased {
			s.ShoppingPending++
		}
	}

	reminders, err := c.ListReminders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	for _, r := range reminders {
		if r.Overdue(now) {
			s.OverdueReminders++
		}
	}
	return s, nil
}
