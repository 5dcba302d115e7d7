package bot

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"assignment-tracker/internal/model"
	"assignment-tracker/internal/service"
)

type glyphs struct {
	pending, done, overdue string
}

var (
	lightGlyphs = glyphs{pending: "⬜", done: "✅", overdue: "⚠️"}
	darkGlyphs  = glyphs{pending: "◻️", done: "☑️", overdue: "❗"}
)

func (b *Bot) glyphs() glyphs {
	if b.prefs != nil && b.prefs.DarkMode() {
		return darkGlyphs
	}
	return lightGlyphs
}

// sendTaskList shows the filtered and sorted view and remembers its order
// for numbered commands.
func (b *Bot) sendTaskList(chatID int64, st *chatState) error {
	all := b.tasks.Tasks()
	view := service.View(all, st.filter)

	var builder strings.Builder
	builder.WriteString("📋 <b>Assignments</b>")
	if summary := filterSummary(st.filter); summary != "" {
		builder.WriteString(" · " + escape(summary))
	}
	builder.WriteString("\n\n")

	if len(view) == 0 {
		st.listed = nil
		if len(all) == 0 {
			return b.sendText(chatID, "No assignments yet. Add one with /add.")
		}
		builder.WriteString("Nothing matches. Try /reset.")
		return b.sendText(chatID, builder.String())
	}

	st.listed = ids(view)
	shown := view
	if len(shown) > maxListed {
		shown = shown[:maxListed]
	}

	g := b.glyphs()
	today := b.now().Format(model.DateLayout)
	var buttons [][]tgbotapi.InlineKeyboardButton
	for i, task := range shown {
		builder.WriteString(formatTaskLine(i+1, task, today, g))
		toggle := fmt.Sprintf("%s %d", g.done, i+1)
		if task.Completed {
			toggle = fmt.Sprintf("↩️ %d", i+1)
		}
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(toggle, cbTogglePrefix+task.ID),
			tgbotapi.NewInlineKeyboardButtonData("⬆️", cbUpPrefix+task.ID),
			tgbotapi.NewInlineKeyboardButtonData("⬇️", cbDownPrefix+task.ID),
			tgbotapi.NewInlineKeyboardButtonData("🗑", cbDeletePrefix+task.ID),
		))
	}
	if rest := len(view) - len(shown); rest > 0 {
		builder.WriteString(fmt.Sprintf("…and %d more. Narrow with /search or /filter.\n", rest))
	}

	msg := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	_, err := b.out.Send(msg)
	return err
}

// sendManualOrder shows the unsorted collection, where /up and /down act.
func (b *Bot) sendManualOrder(chatID int64, st *chatState) error {
	all := b.tasks.Tasks()
	if len(all) == 0 {
		st.listed = nil
		return b.sendText(chatID, "No assignments yet. Add one with /add.")
	}
	st.listed = ids(all)

	g := b.glyphs()
	today := b.now().Format(model.DateLayout)
	var builder strings.Builder
	builder.WriteString("🔀 <b>Manual order</b>\n")
	builder.WriteString("/tasks sorts by status, priority and due date; this is the stored order.\n\n")
	for i, task := range all {
		if i == maxListed {
			builder.WriteString(fmt.Sprintf("…and %d more.\n", len(all)-maxListed))
			break
		}
		builder.WriteString(formatTaskLine(i+1, task, today, g))
	}
	return b.sendText(chatID, builder.String())
}

func formatTaskLine(n int, task model.Task, today string, g glyphs) string {
	var sb strings.Builder
	icon := g.pending
	if task.Completed {
		icon = g.done
	}
	title := escape(task.Title)
	if task.Completed {
		title = "<s>" + title + "</s>"
	}
	sb.WriteString(fmt.Sprintf("%s <b>%d.</b> %s %s\n", icon, n, title, priorityBadge(task.Priority)))

	var details []string
	if task.Category != "" {
		details = append(details, "🏷 "+escape(task.Category))
	}
	if task.DueDate != "" {
		due := "⏰ " + task.DueDate
		if !task.Completed && task.DueDate < today {
			due += " " + g.overdue + " overdue"
		}
		details = append(details, due)
	}
	if len(details) > 0 {
		sb.WriteString("   " + strings.Join(details, " · ") + "\n")
	}
	return sb.String()
}

func priorityBadge(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "🔴"
	case model.PriorityMedium:
		return "🟡"
	case model.PriorityLow:
		return "🟢"
	default:
		return ""
	}
}

func filterSummary(f service.Filter) string {
	if f.Neutral() {
		return ""
	}
	var parts []string
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", f.Search))
	}
	if f.Category != "" && f.Category != service.FilterAll {
		parts = append(parts, "category "+f.Category)
	}
	if f.Status != "" && f.Status != service.FilterAll {
		parts = append(parts, f.Status)
	}
	if f.Priority != "" && f.Priority != service.FilterAll {
		parts = append(parts, f.Priority+" priority")
	}
	return strings.Join(parts, ", ")
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.ID
	}
	return out
}

func escape(s string) string {
	return html.EscapeString(s)
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.out.Send(msg)
	return err
}

func (b *Bot) sendTextWithRemove(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if _, err := b.out.Send(msg); err != nil {
		return err
	}
	return b.sendMenuPlaceholder(chatID)
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.out.Send(msg)
	return err
}

func (b *Bot) sendMenuPlaceholder(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "🔹 Main menu")
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.out.Send(msg)
	return err
}
