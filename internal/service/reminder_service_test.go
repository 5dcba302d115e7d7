package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assignment-tracker/internal/model"
)

func TestDigest(t *testing.T) {
	now := time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: "1", Title: "Late essay", Category: "English", DueDate: "2026-10-15", Priority: model.PriorityHigh},
		{ID: "2", Title: "Quiz <today>", DueDate: "2026-10-17", Priority: model.PriorityLow},
		{ID: "3", Title: "Lab", DueDate: "2026-10-19", Priority: model.PriorityMedium},
		{ID: "4", Title: "Far away", DueDate: "2026-12-01", Priority: model.PriorityHigh},
		{ID: "5", Title: "Undated", Priority: model.PriorityHigh},
		{ID: "6", Title: "Done late", DueDate: "2026-10-01", Completed: true},
	}

	out := Digest(tasks, now, 2)

	assert.Contains(t, out, "🗓 2026-10-17")
	assert.Contains(t, out, "• Late essay <i>(English)</i>\n   ⏰ 2026-10-15 · 2 d late · High")
	assert.Contains(t, out, "• Quiz &lt;today&gt;\n   ⏰ 2026-10-17 · today · Low")
	assert.Contains(t, out, "• Lab\n   ⏰ 2026-10-19 · in 2 d · Medium")
	assert.NotContains(t, out, "Far away")
	assert.NotContains(t, out, "Undated")
	assert.NotContains(t, out, "Done late")
	assert.True(t, strings.HasSuffix(out, "Pending: 5 · Completed: 1"))

	overdueAt := strings.Index(out, "Overdue")
	soonAt := strings.Index(out, "Due in the next 2 days")
	require.True(t, overdueAt >= 0 && soonAt > overdueAt)
	assert.Less(t, strings.Index(out, "Late essay"), soonAt)
	assert.Less(t, strings.Index(out, "Lab"), strings.Index(out, "Quiz"), "view order: priority first")
}

func TestDigestEmpty(t *testing.T) {
	out := Digest(nil, testNow, 2)
	assert.Contains(t, out, "— nothing overdue")
	assert.Contains(t, out, "— nothing due soon")
	assert.True(t, strings.HasSuffix(out, "Pending: 0 · Completed: 0"))
}

func TestReminderServiceSummary(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newMemBackend())
	_, err := svc.Add(ctx, model.Draft{Title: "Tomorrow", DueDate: "2026-10-18"})
	require.NoError(t, err)

	reminder := NewReminderService(svc, -3)
	out := reminder.Summary(testNow)
	assert.Contains(t, out, "Due in the next 0 days")
	assert.NotContains(t, out, "Tomorrow")

	reminder = NewReminderService(svc, 1)
	assert.Contains(t, reminder.Summary(testNow), "Tomorrow")
}
