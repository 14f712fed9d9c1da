package reminders

import (
	"testing"
	"time"

	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
	"github.com/stretchr/testify/assert"
)

func TestSelectReminders(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	past, _ := sdk.ParseDate("2026-03-01")
	future, _ := sdk.ParseDate("2026-04-01")
	all := []sdk.Reminder{
		{ReminderID: 1, DueDate: past},
		{ReminderID: 2, DueDate: future},
		{ReminderID: 3, DueDate: past, Completed: true},
	}

	ids := func(rs []sdk.Reminder) []int64 {
		out := []int64{}
		for _, r := range rs {
			out = append(out, r.ReminderID)
		}
		return out
	}

	assert.Equal(t, []int64{1, 2}, ids(selectReminders(all, now, false, false)))
	assert.Equal(t, []int64{1, 2, 3}, ids(selectReminders(all, now, true, false)))
	assert.Equal(t, []int64{1}, ids(selectReminders(all, now, false, true)))
}
