package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"assignment-tracker/internal/model"
	"assignment-tracker/internal/service"
)

const (
	btnSkip         = "⏭️ Skip"
	btnClear        = "🧹 Clear"
	btnConfirm      = "✅ Confirm"
	btnCancel       = "↩️ Cancel"
	btnCancelDialog = "⏪ Stop input"
	btnHigh         = "🔴 High"
	btnMedium       = "🟡 Medium"
	btnLow          = "🟢 Low"
	menuLabelAdd    = "➕ New assignment"
	menuLabelTasks  = "📋 Assignments"
	menuLabelExport = "📤 Export"
	menuLabelHelp   = "ℹ️ Help"
)

// maxCategoryButtons bounds the category suggestions offered in the dialog.
const maxCategoryButtons = 6

func confirmKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnConfirm),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelAdd),
			tgbotapi.NewKeyboardButton(menuLabelTasks),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelExport),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
			tgbotapi.NewKeyboardButton(btnClear),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func priorityKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnHigh),
			tgbotapi.NewKeyboardButton(btnMedium),
			tgbotapi.NewKeyboardButton(btnLow),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// categoryKeyboard suggests the categories already in use.
func (b *Bot) categoryKeyboard() tgbotapi.ReplyKeyboardMarkup {
	names := service.Categories(b.tasks.Tasks())[1:]
	if len(names) > maxCategoryButtons {
		names = names[:maxCategoryButtons]
	}

	var rows [][]tgbotapi.KeyboardButton
	for i := 0; i < len(names); i += 2 {
		row := tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(names[i]))
		if i+1 < len(names) {
			row = append(row, tgbotapi.NewKeyboardButton(names[i+1]))
		}
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(btnSkip),
		tgbotapi.NewKeyboardButton(btnClear),
		tgbotapi.NewKeyboardButton(btnCancelDialog),
	))

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == strings.ToLower(btnSkip) || value == "skip"
}

func isClearInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnClear) || value == "clear" || value == "none"
}

func isConfirmInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnConfirm) || value == "confirm" || value == "yes"
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancel) || value == "cancel" || value == "no"
}

func isCancelDialogInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancelDialog) || value == "stop"
}

// normalizeDueInput maps "today" and "tomorrow" to dates. Anything else is
// passed through for validation.
func normalizeDueInput(text string, now time.Time) string {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "today":
		return now.Format(model.DateLayout)
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format(model.DateLayout)
	default:
		return strings.TrimSpace(text)
	}
}

// normalizePriorityInput accepts the priority buttons as well as raw keys.
func normalizePriorityInput(text string) string {
	switch strings.TrimSpace(text) {
	case btnHigh:
		return string(model.PriorityHigh)
	case btnMedium:
		return string(model.PriorityMedium)
	case btnLow:
		return string(model.PriorityLow)
	default:
		return strings.TrimSpace(text)
	}
}

// parseQuickDraft reads "Title | Category | due | priority"; trailing parts
// are optional.
func parseQuickDraft(args string, now time.Time) model.Draft {
	parts := strings.Split(args, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	var draft model.Draft
	draft.Title = parts[0]
	if len(parts) > 1 {
		draft.Category = parts[1]
	}
	if len(parts) > 2 {
		draft.DueDate = normalizeDueInput(parts[2], now)
	}
	if len(parts) > 3 {
		draft.Priority = normalizePriorityInput(parts[3])
	}
	return draft
}

// resolvePosition maps a 1-based list number to a task id. On failure the
// second result is the message for the user.
func resolvePosition(listed []string, args string) (string, string) {
	if args == "" {
		return "", "Give the item number from the last list, e.g. /done 2"
	}
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		return "", "Item number must be a number."
	}
	if len(listed) == 0 {
		return "", "Show the list first with /tasks."
	}
	if n < 1 || n > len(listed) {
		return "", fmt.Sprintf("No item %d in the last list.", n)
	}
	return listed[n-1], ""
}
