package sdk

import (
	"context"
	"fmt"
	"net/http"
)

func resourcePath(collection string, id int64) string {
	return fmt.Sprintf("%s/%d", collection, id)
}

func requireID(field string, id int64) error {
	if id <= 0 {
		return &ValidationError{Field: field, Message: "must be a positive ID"}
	}
	return nil
}

// ListItems returns the household inventory.
func (c *Client) ListItems(ctx context.Context) ([]Item, error) {
	var items []Item
	if err := c.do(ctx, http.MethodGet, "/api/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateItem adds an inventory item and returns it as stored.
func (c *Client) CreateItem(ctx context.Context, item Item) (*Item, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	var created Item
	if err := c.do(ctx, http.MethodPost, "/api/items", item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateItem replaces an inventory item.
func (c *Client) UpdateItem(ctx context.Context, item Item) (*Item, error) {
	if err := requireID("item_id", item.ItemID); err != nil {
		return nil, err
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	updated := item
	if err := c.do(ctx, http.MethodPut, resourcePath("/api/items", item.ItemID), item, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteItem removes an inventory item.
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	if err := requireID("item_id", id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, resourcePath("/api/items", id), nil, nil)
}

// ListShoppingItems returns the shopping list.
func (c *Client) ListShoppingItems(ctx context.Context) ([]ShoppingItem, error) {
	var items []ShoppingItem
	if err := c.do(ctx, http.MethodGet, "/api/shopping-list", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddShoppingItem puts an entry on the shopping list.
func (c *Client) AddShoppingItem(ctx context.Context, item ShoppingItem) (*ShoppingItem, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	var created ShoppingItem
	if err := c.do(ctx, http.MethodPost, "/api/shopping-list", item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// SetShoppingItemPurchased ticks an entry on or off.
func (c *Client) SetShoppingItemPurchased(ctx context.Context, id int64, purchased bool) error {
	if err := requireID("item_id", id); err != nil {
		return err
	}
	body := map[string]bool{"purchased": purchased}
	return c.do(ctx, http.MethodPut, resourcePath("/api/shopping-list", id), body, nil)
}

// RemoveShoppingItem deletes an entry from the shopping list.
func (c *Client) RemoveShoppingItem(ctx context.Context, id int64) error {
	if err := requireID("item_id", id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, resourcePath("/api/shopping-list", id), nil, nil)
}

// ListStock returns all tracked stock items.
func (c *Client) ListStock(ctx context.Context) ([]StockItem, error) {
	var items []StockItem
	if err := c.do(ctx, http.MethodGet, "/api/stock", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateStockItem starts tracking a stock item.
func (c *Client) CreateStockItem(ctx context.Context, item StockItem) (*StockItem, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	var created StockItem
	if err := c.do(ctx, http.MethodPost, "/api/stock", item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// AdjustStock sets the quantity on hand.
func (c *Client) AdjustStock(ctx context.Context, id int64, quantity float64) (*StockItem, error) {
	if err := requireID("stock_id", id); err != nil {
		return nil, err
	}
	if err := requireNonNegative("quantity", quantity); err != nil {
		return nil, err
	}
	var updated StockItem
	body := map[string]float64{"quantity": quantity}
	if err := c.do(ctx, http.MethodPut, resourcePath("/api/stock", id), body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteStockItem stops tracking a stock item.
func (c *Client) DeleteStockItem(ctx context.Context, id int64) error {
	if err := requireID("stock_id", id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, resourcePath("/api/stock", id), nil, nil)
}

// ListReminders returns all reminders.
func (c *Client) ListReminders(ctx context.Context) ([]Reminder, error) {
	var reminders []Reminder
	if err := c.do(ctx, http.MethodGet, "/api/reminders", nil, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}

// CreateReminder schedules a reminder.
func (c *Client) CreateReminder(ctx context.Context, r Reminder) (*Reminder, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	var created Reminder
	if err := c.do(ctx, http.MethodPost, "/api/reminders", r, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CompleteReminder marks a reminder done.
func (c *Client) CompleteReminder(ctx context.Context, id int64) error {
	if err := requireID("reminder_id", id); err != nil {
		return err
	}
	body := map[string]bool{"completed": true}
	return c.do(ctx, http.MethodPut, resourcePath("/api/reminders", id), body, nil)
}

// DeleteReminder removes a reminder.
func (c *Client) DeleteReminder(ctx context.Context, id int64) error {
	if err := requireID("reminder_id", id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, resourcePath("/api/reminders", id), nil, nil)
}
