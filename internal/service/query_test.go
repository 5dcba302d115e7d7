package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"assignment-tracker/internal/model"
)

func essayAndQuiz() []model.Task {
	return []model.Task{
		{ID: "2", Title: "Quiz", Category: "Math", Priority: model.PriorityLow, DueDate: "2099-01-01"},
		{ID: "1", Title: "Essay", Category: "English", Priority: model.PriorityHigh},
	}
}

func TestViewFilterByCategory(t *testing.T) {
	f := DefaultFilter()
	f.Category = "Math"
	assert.Equal(t, []string{"Quiz"}, titles(View(essayAndQuiz(), f)))
}

func TestViewPriorityOutranksDueDate(t *testing.T) {
	assert.Equal(t, []string{"Essay", "Quiz"}, titles(View(essayAndQuiz(), DefaultFilter())))
}

func TestViewFilters(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Title: "Read Chapter 3", Category: "History", Priority: model.PriorityMedium},
		{ID: "b", Title: "chapter summary", Category: "history", Priority: model.PriorityHigh, Completed: true},
		{ID: "c", Title: "Lab report", Category: "Physics", Priority: model.PriorityLow},
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"search is case insensitive", Filter{Search: "CHAPTER"}, []string{"Read Chapter 3", "chapter summary"}},
		{"category is case sensitive", Filter{Category: "History"}, []string{"Read Chapter 3"}},
		{"pending", Filter{Status: StatusPending}, []string{"Read Chapter 3", "Lab report"}},
		{"completed", Filter{Status: StatusCompleted}, []string{"chapter summary"}},
		{"priority", Filter{Priority: "low"}, []string{"Lab report"}},
		{"combined", Filter{Search: "chapter", Status: StatusPending, Category: FilterAll}, []string{"Read Chapter 3"}},
		{"no match", Filter{Search: "zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(View(tasks, tt.filter)))
		})
	}
}

func TestViewSortOrder(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Title: "done high", Priority: model.PriorityHigh, Completed: true},
		{ID: "2", Title: "low undated", Priority: model.PriorityLow},
		{ID: "3", Title: "medium undated A", Priority: model.PriorityMedium},
		{ID: "4", Title: "medium late", Priority: model.PriorityMedium, DueDate: "2026-12-01"},
		{ID: "5", Title: "medium undated B", Priority: model.PriorityMedium},
		{ID: "6", Title: "medium early", Priority: model.PriorityMedium, DueDate: "2026-11-01"},
		{ID: "7", Title: "high", Priority: model.PriorityHigh},
		{ID: "8", Title: "legacy", Priority: "urgent"},
	}

	got := View(tasks, Filter{})
	assert.Equal(t, []string{
		"high",
		"medium early",
		"medium late",
		"medium undated A",
		"medium undated B",
		"low undated",
		"legacy",
		"done high",
	}, titles(got))

	assert.Equal(t, got, View(got, Filter{}), "sorting is idempotent")
	assert.Equal(t, "done high", tasks[0].Title, "input is not reordered")
}

func TestCategories(t *testing.T) {
	tasks := []model.Task{
		{Title: "a", Category: "Math"},
		{Title: "b", Category: ""},
		{Title: "c", Category: "English"},
		{Title: "d", Category: "Math"},
	}
	assert.Equal(t, []string{"all", "English", "Math"}, Categories(tasks))
	assert.Equal(t, []string{"all"}, Categories(nil))
}

func TestFilterNeutral(t *testing.T) {
	assert.True(t, Filter{}.Neutral())
	assert.True(t, DefaultFilter().Neutral())
	assert.False(t, Filter{Search: "x"}.Neutral())
	assert.False(t, Filter{Status: StatusPending}.Neutral())
}
