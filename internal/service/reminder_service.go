package service

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"assignment-tracker/internal/model"
)

// ReminderService builds the due-date digest sent by the scheduler.
type ReminderService struct {
	tasks      *TaskService
	windowDays int
}

func NewReminderService(tasks *TaskService, windowDays int) *ReminderService {
	if windowDays < 0 {
		windowDays = 0
	}
	return &ReminderService{tasks: tasks, windowDays: windowDays}
}

// Summary renders the digest for the current task list.
func (s *ReminderService) Summary(now time.Time) string {
	return Digest(s.tasks.Tasks(), now, s.windowDays)
}

// Digest lists pending tasks that are overdue or due within windowDays of
// now, in view order, followed by pending and completed counts. The result is
// Telegram HTML.
func Digest(tasks []model.Task, now time.Time, windowDays int) string {
	today := startOfDay(now)
	horizon := today.AddDate(0, 0, windowDays)

	var overdue, soon []model.Task
	completed := 0
	for _, task := range View(tasks, DefaultFilter()) {
		if task.Completed {
			completed++
			continue
		}
		due, ok := parseDue(task.DueDate, now.Location())
		if !ok {
			continue
		}
		switch {
		case due.Before(today):
			overdue = append(overdue, task)
		case !due.After(horizon):
			soon = append(soon, task)
		}
	}
	pending := len(tasks) - completed

	var builder strings.Builder
	builder.WriteString("📋 <b>Assignment digest</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format(model.DateLayout)))

	builder.WriteString("⚠️ <b>Overdue</b>\n")
	if len(overdue) == 0 {
		builder.WriteString("— nothing overdue\n")
	} else {
		for _, task := range overdue {
			builder.WriteString(formatDigestTask(task, today))
		}
	}

	builder.WriteString(fmt.Sprintf("\n⏳ <b>Due in the next %d days</b>\n", windowDays))
	if len(soon) == 0 {
		builder.WriteString("— nothing due soon\n")
	} else {
		for _, task := range soon {
			builder.WriteString(formatDigestTask(task, today))
		}
	}

	builder.WriteString(fmt.Sprintf("\nPending: %d · Completed: %d", pending, completed))
	return strings.TrimSpace(builder.String())
}

func formatDigestTask(task model.Task, today time.Time) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("• %s", html.EscapeString(task.Title)))
	if task.Category != "" {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(task.Category)))
	}
	due, _ := parseDue(task.DueDate, today.Location())
	days := int(math.Round(due.Sub(today).Hours() / 24))
	switch {
	case days < 0:
		sb.WriteString(fmt.Sprintf("\n   ⏰ %s · %d d late", task.DueDate, -days))
	case days == 0:
		sb.WriteString(fmt.Sprintf("\n   ⏰ %s · today", task.DueDate))
	default:
		sb.WriteString(fmt.Sprintf("\n   ⏰ %s · in %d d", task.DueDate, days))
	}
	sb.WriteString(fmt.Sprintf(" · %s", task.Priority.Label()))
	sb.WriteByte('\n')
	return sb.String()
}

func parseDue(raw string, loc *time.Location) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	due, err := time.ParseInLocation(model.DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}
