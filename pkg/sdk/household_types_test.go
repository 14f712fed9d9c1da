package sdk

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	var item Item
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Milk","quantity":1,"expiry_date":"2026-03-04"}`), &item))
	assert.Equal(t, "2026-03-04", item.ExpiryDate.String())

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Milk","expiry_date":"2026-03-04T00:00:00Z"}`), &item))
	assert.Equal(t, "2026-03-04", item.ExpiryDate.String())

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Milk","expiry_date":null}`), &item))
	assert.True(t, item.ExpiryDate.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"expiry_date":"04/03/2026"}`), &item))

	out, err := json.Marshal(Reminder{Title: "Bins"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"due_date":null`)
}

func TestItem_ExpiresWithin(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	soon, _ := ParseDate("2026-03-03")
	later, _ := ParseDate("2026-04-01")

	assert.True(t, Item{ExpiryDate: soon}.ExpiresWithin(now, 7*24*time.Hour))
	assert.False(t, Item{ExpiryDate: later}.ExpiresWithin(now, 7*24*time.Hour))
	assert.False(t, Item{}.ExpiresWithin(now, 7*24*time.Hour))
}

func TestStockItem_Low(t *testing.T) {
	assert.True(t, StockItem{Quantity: 1, Threshold: 2}.Low())
	assert.True(t, StockItem{Quantity: 2, Threshold: 2}.Low())
	assert.False(t, StockItem{Quantity: 3, Threshold: 2}.Low())
}

func TestReminder_Overdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	yesterday, _ := ParseDate("2026-03-09")
	today, _ := ParseDate("2026-03-10")

	assert.True(t, Reminder{DueDate: yesterday}.Overdue(now))
	assert.False(t, Reminder{DueDate: today}.Overdue(now))
	assert.False(t, Reminder{DueDate: yesterday, Completed: true}.Overdue(now))
	assert.False(t, Reminder{}.Overdue(now))
}

func TestHouseholdValidation(t *testing.T) {
	var valErr *ValidationError
	assert.ErrorAs(t, Item{Quantity: 1}.Validate(), &valErr)
	assert.ErrorAs(t, Item{Name: "Milk", Quantity: -1}.Validate(), &valErr)
	assert.NoError(t, Item{Name: "Milk"}.Validate())
	assert.ErrorAs(t, StockItem{Name: "Soap", Threshold: -1}.Validate(), &valErr)
	assert.ErrorAs(t, Reminder{}.Validate(), &valErr)
	assert.ErrorAs(t, ShoppingItem{Name: " "}.Validate(), &valErr)
}
