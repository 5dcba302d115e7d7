package service

import (
	"strings"
	"time"

	"assignment-tracker/internal/model"
)

const (
	msgTitleRequired   = "Title is required."
	msgDueDatePast     = "Due date cannot be in the past."
	msgDueDateInvalid  = "Due date must be a valid date (YYYY-MM-DD)."
	msgPriorityUnknown = "Priority must be high, medium or low."
)

// ValidationErrors holds one message per field. Empty means valid.
type ValidationErrors struct {
	Title    string
	DueDate  string
	Priority string
}

// Empty reports whether no field failed.
func (v ValidationErrors) Empty() bool {
	return v.Title == "" && v.DueDate == "" && v.Priority == ""
}

// Messages lists the non-empty messages in field order.
func (v ValidationErrors) Messages() []string {
	var out []string
	for _, msg := range []string{v.Title, v.DueDate, v.Priority} {
		if msg != "" {
			out = append(out, msg)
		}
	}
	return out
}

// Err returns nil for valid input and a *ValidationError otherwise.
func (v ValidationErrors) Err() error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Fields: v}
}

// ValidationError is returned by Add and Update when the draft is rejected.
type ValidationError struct {
	Fields ValidationErrors
}

func (e *ValidationError) Error() string {
	return "invalid task: " + strings.Join(e.Fields.Messages(), " ")
}

// Validate checks a draft against the local calendar date of now. All fields
// are checked; errors do not short-circuit.
func Validate(draft model.Draft, now time.Time) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(draft.Title) == "" {
		errs.Title = msgTitleRequired
	}

	if due := strings.TrimSpace(draft.DueDate); due != "" {
		parsed, err := time.ParseInLocation(model.DateLayout, due, now.Location())
		switch {
		case err != nil:
			errs.DueDate = msgDueDateInvalid
		case parsed.Before(startOfDay(now)):
			errs.DueDate = msgDueDatePast
		}
	}

	if _, ok := model.ParsePriority(draft.Priority); !ok {
		errs.Priority = msgPriorityUnknown
	}

	return errs
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
