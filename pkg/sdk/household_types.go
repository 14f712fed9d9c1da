package sdk

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day.
type Date struct {
	time.Time
}

// ParseDate parses s in DateLayout.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

func (d Date) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*d = Date{}
		return nil
	}
	// Some endpoints send full timestamps.
	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		*d = Date{t}
		return nil
	}
	parsed, err := ParseDate(*s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Item is a household inventory item.
type Item struct {
	ItemID     int64   `json:"item_id,omitempty" bexpr:"item_id" yaml:"item_id,omitempty"`
	Name       string  `json:"name" bexpr:"name" yaml:"name"`
	Category   string  `json:"category,omitempty" bexpr:"category" yaml:"category,omitempty"`
	Quantity   float64 `json:"quantity" bexpr:"quantity" yaml:"quantity"`
	Location   string  `json:"location,omitempty" bexpr:"location" yaml:"location,omitempty"`
	ExpiryDate Date    `json:"expiry_date" yaml:"expiry_date"`
	Notes      string  `json:"notes,omitempty" bexpr:"notes" yaml:"notes,omitempty"`
}

// ExpiresWithin reports whether the item has an expiry date on or before now+d.
func (i Item) ExpiresWithin(now time.Time, d time.Duration) bool {
	return !i.ExpiryDate.IsZero() && !i.ExpiryDate.After(now.Add(d))
}

// ShoppingItem is an entry on the shopping list.
type ShoppingItem struct {
	ItemID    int64   `json:"item_id,omitempty" bexpr:"item_id" yaml:"item_id,omitempty"`
	Name      string  `json:"name" bexpr:"name" yaml:"name"`
	Quantity  float64 `json:"quantity" bexpr:"quantity" yaml:"quantity"`
	Purchased bool    `json:"purchased" bexpr:"purchased" yaml:"purchased"`
}

// StockItem is a consumable tracked against a restock threshold.
type StockItem struct {
	StockID   int64   `json:"stock_id,omitempty" bexpr:"stock_id" yaml:"stock_id,omitempty"`
	Name      string  `json:"name" bexpr:"name" yaml:"name"`
	Quantity  float64 `json:"quantity" bexpr:"quantity" yaml:"quantity"`
	Unit      string  `json:"unit,omitempty" bexpr:"unit" yaml:"unit,omitempty"`
	Threshold float64 `json:"threshold" bexpr:"threshold" yaml:"threshold"`
}

// Low reports whether the stock level is at or below its threshold.
func (s StockItem) Low() bool {
	return s.Quantity <= s.Threshold
}

// Reminder is a dated to-do.
type Reminder struct {
	ReminderID  int64  `json:"reminder_id,omitempty" bexpr:"reminder_id" yaml:"reminder_id,omitempty"`
	Title       string `json:"title" bexpr:"title" yaml:"title"`
	Description string `json:"description,omitempty" bexpr:"description" yaml:"description,omitempty"`
	DueDate     Date   `json:"due_date" yaml:"due_date"`
	Completed   bool   `json:"completed" bexpr:"completed" yaml:"completed"`
}

// Overdue reports whether an open reminder's due date is before now's day.
func (r Reminder) Overdue(now time.Time) bool {
	if r.Completed || r.DueDate.IsZero() {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, r.DueDate.Location())
	return r.DueDate.Before(today)
}

func requireName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

func requireNonNegative(field string, value float64) error {
	if value < 0 {
		return &ValidationError{Field: field, Message: "must not be negative"}
	}
	return nil
}

// Validate checks an item before it is sent.
func (i Item) Validate() error {
	if err := requireName("name", i.Name); err != nil {
		return err
	}
	return requireNonNegative("quantity", i.Quantity)
}

// Validate checks a shopping entry before it is sent.
func (s ShoppingItem) Validate() error {
	if err := requireName("name", s.Name); err != nil {
		return err
	}
	return requireNonNegative("quantity", s.Quantity)
}

// Validate checks a stock item before it is sent.
func (s StockItem) Validate() error {
	if err := requireName("name", s.Name); err != nil {
		return err
	}
	if err := requireNonNegative("quantity", s.Quantity); err != nil {
		return err
	}
	return requireNonNegative("threshold", s.Threshold)
}

// Validate checks a reminder before it is sent.
func (r Reminder) Validate() error {
	return requireName("title", r.Title)
}
