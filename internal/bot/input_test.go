package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"assignment-tracker/internal/model"
)

func TestParseQuickDraft(t *testing.T) {
	tests := []struct {
		in   string
		want model.Draft
	}{
		{"Essay", model.Draft{Title: "Essay"}},
		{" Essay | English ", model.Draft{Title: "Essay", Category: "English"}},
		{"Quiz | Math | tomorrow | 🔴 High", model.Draft{Title: "Quiz", Category: "Math", DueDate: "2026-10-18", Priority: "high"}},
		{"Lab | | 2026-12-01 | low", model.Draft{Title: "Lab", DueDate: "2026-12-01", Priority: "low"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseQuickDraft(tt.in, testNow), tt.in)
	}
}

func TestResolvePosition(t *testing.T) {
	listed := []string{"a", "b"}

	id, problem := resolvePosition(listed, "2")
	assert.Equal(t, "b", id)
	assert.Empty(t, problem)

	for _, args := range []string{"", "x", "0", "3"} {
		_, problem := resolvePosition(listed, args)
		assert.NotEmpty(t, problem, args)
	}

	_, problem = resolvePosition(nil, "1")
	assert.Equal(t, "Show the list first with /tasks.", problem)
}

func TestInputMatchers(t *testing.T) {
	assert.True(t, isSkipInput("⏭️ Skip"))
	assert.True(t, isSkipInput(" - "))
	assert.True(t, isClearInput("None"))
	assert.True(t, isConfirmInput("✅ Confirm"))
	assert.True(t, isCancelInput("↩️ Cancel"))
	assert.True(t, isCancelDialogInput("⏪ Stop input"))
	assert.False(t, isSkipInput("Essay"))
}

func TestFormatTaskLine(t *testing.T) {
	task := model.Task{Title: "A & B", Category: "Math", DueDate: "2026-10-01", Priority: model.PriorityHigh}
	line := formatTaskLine(3, task, "2026-10-17", lightGlyphs)
	assert.Equal(t, "⬜ <b>3.</b> A &amp; B 🔴\n   🏷 Math · ⏰ 2026-10-01 ⚠️ overdue\n", line)

	task.Completed = true
	line = formatTaskLine(1, task, "2026-10-17", lightGlyphs)
	assert.Equal(t, "✅ <b>1.</b> <s>A &amp; B</s> 🔴\n   🏷 Math · ⏰ 2026-10-01\n", line)
}
