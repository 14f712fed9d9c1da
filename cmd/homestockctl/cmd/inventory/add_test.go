package inventory

import (
	"testing"
	"time"

	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemFlags_ApplyOnlyChanged(t *testing.T) {
	var f itemFlags
	fs := pflag.NewFlagSet("update", pflag.ContinueOnError)
	f.register(fs)
	require.NoError(t, fs.Parse([]string{"--quantity", "3", "--expiry", "2026-05-01"}))

	item := sdk.Item{ItemID: 7, Name: "Milk", Category: "dairy", Quantity: 1}
	require.NoError(t, f.apply(fs, &item))

	assert.Equal(t, "Milk", item.Name, "unchanged fields are kept")
	assert.Equal(t, "dairy", item.Category)
	assert.Equal(t, float64(3), item.Quantity)
	assert.Equal(t, "2026-05-01", item.ExpiryDate.String())
}

func TestItemFlags_ClearAndInvalidExpiry(t *testing.T) {
	var f itemFlags
	fs := pflag.NewFlagSet("update", pflag.ContinueOnError)
	f.register(fs)
	require.NoError(t, fs.Parse([]string{"--expiry", ""}))

	date, _ := sdk.ParseDate("2026-01-01")
	item := sdk.Item{Name: "Milk", ExpiryDate: date}
	require.NoError(t, f.apply(fs, &item))
	assert.True(t, item.ExpiryDate.IsZero())

	var g itemFlags
	fs = pflag.NewFlagSet("update", pflag.ContinueOnError)
	g.register(fs)
	require.NoError(t, fs.Parse([]string{"--expiry", "tomorrow"}))
	var valErr *sdk.ValidationError
	assert.ErrorAs(t, g.apply(fs, &item), &valErr)
}

func TestExpiringWithin(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	soon, _ := sdk.ParseDate("2026-03-02")
	later, _ := sdk.ParseDate("2026-06-01")
	items := []sdk.Item{{ItemID: 1, ExpiryDate: soon}, {ItemID: 2, ExpiryDate: later}, {ItemID: 3}}

	got := expiringWithin(items, now, 48*time.Hour)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ItemID)
}
