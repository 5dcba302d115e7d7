package service

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"assignment-tracker/internal/model"
)

// FilterAll is the neutral value of the category, status and priority filters.
const FilterAll = "all"

const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
)

// Filter selects the tasks shown in a view. Zero value shows everything.
type Filter struct {
	Search   string
	Category string
	Status   string
	Priority string
}

// DefaultFilter returns a filter with every criterion neutral.
func DefaultFilter() Filter {
	return Filter{Category: FilterAll, Status: FilterAll, Priority: FilterAll}
}

// Neutral reports whether the filter passes every task.
func (f Filter) Neutral() bool {
	return f.Search == "" && isAll(f.Category) && isAll(f.Status) && isAll(f.Priority)
}

func isAll(v string) bool {
	return v == "" || v == FilterAll
}

// View filters and sorts tasks without touching the input slice.
func View(tasks []model.Task, f Filter) []model.Task {
	fold := cases.Fold()
	needle := fold.String(f.Search)

	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if needle != "" && !strings.Contains(fold.String(task.Title), needle) {
			continue
		}
		if !isAll(f.Category) && task.Category != f.Category {
			continue
		}
		switch f.Status {
		case StatusCompleted:
			if !task.Completed {
				continue
			}
		case StatusPending:
			if task.Completed {
				continue
			}
		}
		if !isAll(f.Priority) && string(task.Priority) != f.Priority {
			continue
		}
		out = append(out, task)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return viewLess(out[i], out[j])
	})
	return out
}

// viewLess: pending first, then higher priority, then earlier due date with
// dated tasks ahead of undated ones.
func viewLess(a, b model.Task) bool {
	if a.Completed != b.Completed {
		return !a.Completed
	}
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra > rb
	}
	switch {
	case a.HasDueDate() && b.HasDueDate():
		return a.DueDate < b.DueDate
	case a.HasDueDate():
		return true
	default:
		return false
	}
}

// Categories lists FilterAll followed by the distinct non-empty categories of
// the whole collection in alphabetical order.
func Categories(tasks []model.Task) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, task := range tasks {
		if task.Category == "" {
			continue
		}
		if _, ok := seen[task.Category]; ok {
			continue
		}
		seen[task.Category] = struct{}{}
		names = append(names, task.Category)
	}
	sort.Strings(names)
	return append([]string{FilterAll}, names...)
}
