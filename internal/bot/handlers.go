package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"assignment-tracker/internal/model"
	"assignment-tracker/internal/service"
)

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if !b.allowed(msg.From) {
		b.log.Debug().Int64("chat", msg.Chat.ID).Msg("ignore message from stranger")
		return nil
	}
	st := b.state(msg.Chat.ID)

	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		return b.cancelDialog(msg.Chat.ID, st)
	}

	if !msg.IsCommand() {
		if handled, err := b.handleMenuAlias(msg, st); handled {
			return err
		}
	}

	if msg.IsCommand() {
		b.log.Info().Int64("chat", msg.Chat.ID).Str("command", msg.Command()).Msg("command")
		return b.handleCommand(ctx, msg, st)
	}

	if st.confirm != nil {
		return b.handleConfirmationResponse(ctx, msg.Chat.ID, st, msg.Text)
	}

	if st.dialog != nil {
		return b.handleDialog(ctx, msg, st)
	}

	return b.sendText(msg.Chat.ID, "I did not get that. Send /add to create an assignment or /help for the command list.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, st *chatState) error {
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "help":
		return b.sendText(chatID, helpText)
	case "add":
		if args != "" {
			return b.quickAdd(ctx, chatID, st, args)
		}
		return b.startAddDialog(chatID, st)
	case "edit":
		return b.startEditDialog(chatID, st, args)
	case "tasks":
		return b.sendTaskList(chatID, st)
	case "order":
		return b.sendManualOrder(chatID, st)
	case "search":
		st.filter.Search = args
		return b.sendTaskList(chatID, st)
	case "filter":
		return b.handleFilter(chatID, st, args)
	case "reset":
		st.filter = service.DefaultFilter()
		return b.sendTaskList(chatID, st)
	case "categories":
		return b.handleCategories(chatID)
	case "done":
		return b.withPosition(chatID, st, args, func(id string) error {
			return b.toggleAndRefresh(ctx, chatID, st, id)
		})
	case "delete":
		return b.withPosition(chatID, st, args, func(id string) error {
			return b.askDeleteConfirmation(chatID, st, id)
		})
	case "up":
		return b.withPosition(chatID, st, args, func(id string) error {
			return b.moveAndRefresh(ctx, chatID, st, id, service.Up)
		})
	case "down":
		return b.withPosition(chatID, st, args, func(id string) error {
			return b.moveAndRefresh(ctx, chatID, st, id, service.Down)
		})
	case "clear":
		return b.askClearConfirmation(chatID, st)
	case "export":
		return b.handleExport(chatID)
	case "darkmode":
		return b.handleDarkMode(ctx, chatID)
	case "digest":
		return b.sendText(chatID, b.reminder.Summary(b.now()))
	case "cancel":
		return b.cancelDialog(chatID, st)
	default:
		return b.sendText(chatID, "Unknown command. See /help.")
	}
}

const helpText = "ℹ️ <b>Commands</b>\n" +
	"• /add — add an assignment step by step\n" +
	"• /add Title | Category | 2026-11-30 | high — add in one message\n" +
	"• /edit &lt;n&gt; — edit item n of the last list\n" +
	"• /tasks — filtered and sorted list\n" +
	"• /order — manual order\n" +
	"• /search &lt;text&gt; — search titles (empty clears)\n" +
	"• /filter category|status|priority &lt;value&gt; — narrow the list\n" +
	"• /reset — clear search and filters\n" +
	"• /categories — known categories\n" +
	"• /done &lt;n&gt; — toggle completion\n" +
	"• /delete &lt;n&gt; — delete an assignment\n" +
	"• /up &lt;n&gt;, /down &lt;n&gt; — move in the manual order\n" +
	"• /clear — delete all completed\n" +
	"• /export — download assignments.csv\n" +
	"• /darkmode — switch list style\n" +
	"• /digest — due-date digest now\n" +
	"• /cancel — abort the current input"

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}
	text := fmt.Sprintf("👋 Hi, %s!\n<b>I keep track of your assignments.</b>\n\n%s", escape(name), helpText)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleMenuAlias(msg *tgbotapi.Message, st *chatState) (bool, error) {
	text := strings.TrimSpace(strings.ToLower(msg.Text))
	switch text {
	case strings.ToLower(menuLabelAdd):
		return true, b.startAddDialog(msg.Chat.ID, st)
	case strings.ToLower(menuLabelTasks):
		return true, b.sendTaskList(msg.Chat.ID, st)
	case strings.ToLower(menuLabelExport):
		return true, b.handleExport(msg.Chat.ID)
	case strings.ToLower(menuLabelHelp):
		return true, b.sendText(msg.Chat.ID, helpText)
	default:
		return false, nil
	}
}

func (b *Bot) quickAdd(ctx context.Context, chatID int64, st *chatState, args string) error {
	draft := parseQuickDraft(args, b.now())
	task, err := b.tasks.Add(ctx, draft)
	if err != nil {
		return b.reportSaveError(chatID, err)
	}
	if err := b.sendText(chatID, fmt.Sprintf("✅ Added «%s».", escape(task.Title))); err != nil {
		return err
	}
	return b.sendTaskList(chatID, st)
}

func (b *Bot) startAddDialog(chatID int64, st *chatState) error {
	b.dropDialog(st)
	st.confirm = nil
	st.dialog = &dialogState{stage: stageTitle}
	return b.sendWithReplyMarkup(chatID, "🆕 New assignment.\n<b>Step 1:</b> what is the title?", cancelKeyboard())
}

func (b *Bot) startEditDialog(chatID int64, st *chatState, args string) error {
	return b.withPosition(chatID, st, args, func(id string) error {
		task, err := b.tasks.Get(id)
		if err != nil {
			return b.sendText(chatID, "Assignment not found.")
		}
		if err := b.tasks.BeginEdit(id); err != nil {
			return b.sendText(chatID, "Assignment not found.")
		}
		st.confirm = nil
		st.dialog = &dialogState{stage: stageTitle, draft: model.DraftFrom(task), edit: true}
		text := fmt.Sprintf("✏️ Editing «%s».\n<b>Step 1:</b> new title (or «Skip» to keep it).", escape(task.Title))
		return b.sendWithReplyMarkup(chatID, text, skipKeyboard())
	})
}

func (b *Bot) handleDialog(ctx context.Context, msg *tgbotapi.Message, st *chatState) error {
	d := st.dialog
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	editing := d.edit

	switch d.stage {
	case stageTitle:
		if !(editing && isSkipInput(text)) {
			d.draft.Title = text
		}
		d.stage = stageCategory
		return b.sendWithReplyMarkup(chatID, "🏷 Category? Pick one, type your own or «Skip».", b.categoryKeyboard())
	case stageCategory:
		switch {
		case isClearInput(text):
			d.draft.Category = ""
		case isSkipInput(text):
			if !editing {
				d.draft.Category = ""
			}
		default:
			d.draft.Category = text
		}
		d.stage = stageDueDate
		return b.sendWithReplyMarkup(chatID, "⏰ Due date as <code>2026-11-30</code>, «today», «tomorrow» or «Skip».", skipKeyboard())
	case stageDueDate:
		switch {
		case isClearInput(text):
			d.draft.DueDate = ""
		case isSkipInput(text):
			if !editing {
				d.draft.DueDate = ""
			}
		default:
			d.draft.DueDate = normalizeDueInput(text, b.now())
		}
		d.stage = stagePriority
		return b.sendWithReplyMarkup(chatID, "❗ Priority?", priorityKeyboard())
	case stagePriority:
		if !isSkipInput(text) {
			d.draft.Priority = normalizePriorityInput(text)
		} else if !editing {
			d.draft.Priority = ""
		}
		return b.finishDialog(ctx, chatID, st)
	default:
		b.dropDialog(st)
		return b.sendText(chatID, "Input reset. Start again with /add.")
	}
}

func (b *Bot) finishDialog(ctx context.Context, chatID int64, st *chatState) error {
	d := st.dialog

	var (
		task model.Task
		err  error
	)
	if d.edit {
		id, ok := b.tasks.EditingTarget()
		if !ok {
			st.dialog = nil
			return b.sendTextWithRemove(chatID, "Assignment was deleted meanwhile.")
		}
		task, err = b.tasks.Update(ctx, id, d.draft)
	} else {
		task, err = b.tasks.Add(ctx, d.draft)
	}

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		d.stage = restartStage(verr.Fields)
		text := "⚠️ " + escape(strings.Join(verr.Fields.Messages(), "\n⚠️ ")) + "\n\n" + stagePrompt(d.stage)
		return b.sendWithReplyMarkup(chatID, text, b.stageKeyboard(d.stage))
	case errors.Is(err, service.ErrNotFound):
		b.dropDialog(st)
		return b.sendTextWithRemove(chatID, "Assignment was deleted meanwhile.")
	case err != nil:
		b.dropDialog(st)
		return b.sendTextWithRemove(chatID, fmt.Sprintf("Could not save: %s", escape(err.Error())))
	}

	st.dialog = nil
	var summary strings.Builder
	if d.edit {
		summary.WriteString("✅ <b>Assignment updated</b>\n")
	} else {
		summary.WriteString("✅ <b>Assignment saved</b>\n")
	}
	summary.WriteString(fmt.Sprintf("• <b>Title:</b> %s\n", escape(task.Title)))
	if task.Category != "" {
		summary.WriteString(fmt.Sprintf("• <b>Category:</b> %s\n", escape(task.Category)))
	}
	if task.DueDate != "" {
		summary.WriteString(fmt.Sprintf("• <b>Due:</b> %s\n", task.DueDate))
	}
	summary.WriteString(fmt.Sprintf("• <b>Priority:</b> %s\n", task.Priority.Label()))

	if err := b.sendTextWithRemove(chatID, strings.TrimSpace(summary.String())); err != nil {
		return err
	}
	return b.sendTaskList(chatID, st)
}

// restartStage picks the first step whose answer was rejected.
func restartStage(errs service.ValidationErrors) dialogStage {
	switch {
	case errs.Title != "":
		return stageTitle
	case errs.DueDate != "":
		return stageDueDate
	default:
		return stagePriority
	}
}

func stagePrompt(stage dialogStage) string {
	switch stage {
	case stageTitle:
		return "Enter the title again."
	case stageDueDate:
		return "Enter the due date again."
	default:
		return "Pick the priority again."
	}
}

func (b *Bot) stageKeyboard(stage dialogStage) interface{} {
	switch stage {
	case stageTitle:
		return cancelKeyboard()
	case stageDueDate:
		return skipKeyboard()
	default:
		return priorityKeyboard()
	}
}

func (b *Bot) cancelDialog(chatID int64, st *chatState) error {
	b.dropDialog(st)
	st.confirm = nil
	return b.sendTextWithRemove(chatID, "⏪ Input cancelled.")
}

func (b *Bot) handleFilter(chatID int64, st *chatState, args string) error {
	field, value, _ := strings.Cut(args, " ")
	value = strings.TrimSpace(value)
	if value == "" {
		value = service.FilterAll
	}

	switch strings.ToLower(field) {
	case "category":
		st.filter.Category = value
	case "status":
		v := strings.ToLower(value)
		if v != service.FilterAll && v != service.StatusCompleted && v != service.StatusPending {
			return b.sendText(chatID, "Status must be all, pending or completed.")
		}
		st.filter.Status = v
	case "priority":
		v := strings.ToLower(value)
		if _, ok := model.ParsePriority(v); !ok && v != service.FilterAll {
			return b.sendText(chatID, "Priority must be all, high, medium or low.")
		}
		st.filter.Priority = v
	default:
		return b.sendText(chatID, "Usage: /filter category|status|priority &lt;value&gt;")
	}
	return b.sendTaskList(chatID, st)
}

func (b *Bot) handleCategories(chatID int64) error {
	categories := service.Categories(b.tasks.Tasks())
	if len(categories) == 1 {
		return b.sendText(chatID, "No categories yet. Add one while creating an assignment.")
	}
	var builder strings.Builder
	builder.WriteString("📂 <b>Categories</b>\n")
	for _, name := range categories {
		builder.WriteString(fmt.Sprintf("• %s\n", escape(name)))
	}
	builder.WriteString("\nUse /filter category &lt;name&gt;.")
	return b.sendText(chatID, builder.String())
}

func (b *Bot) handleExport(chatID int64) error {
	text, err := service.ExportCSV(b.tasks.Tasks())
	if errors.Is(err, service.ErrNothingToExport) {
		return b.sendText(chatID, "Nothing to export yet.")
	}
	if err != nil {
		return err
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  service.ExportFileName,
		Bytes: []byte(text),
	})
	doc.Caption = "📤 Your assignments"
	if _, err := b.out.Send(doc); err != nil {
		return fmt.Errorf("send export: %w", err)
	}
	b.log.Info().Int64("chat", chatID).Msg("export sent")
	return nil
}

func (b *Bot) handleDarkMode(ctx context.Context, chatID int64) error {
	if b.prefs.ToggleDarkMode(ctx) {
		return b.sendText(chatID, "🌙 Dark list style on.")
	}
	return b.sendText(chatID, "☀️ Dark list style off.")
}

func (b *Bot) toggleAndRefresh(ctx context.Context, chatID int64, st *chatState, id string) error {
	b.tasks.ToggleComplete(ctx, id)
	return b.sendTaskList(chatID, st)
}

func (b *Bot) moveAndRefresh(ctx context.Context, chatID int64, st *chatState, id string, dir service.Direction) error {
	b.tasks.Move(ctx, id, dir)
	return b.sendManualOrder(chatID, st)
}

func (b *Bot) askDeleteConfirmation(chatID int64, st *chatState, id string) error {
	task, err := b.tasks.Get(id)
	if err != nil {
		return b.sendText(chatID, "Assignment not found.")
	}
	b.dropDialog(st)
	st.confirm = &confirmationRequest{taskID: id, action: actionDelete}
	return b.sendWithReplyMarkup(chatID, fmt.Sprintf("Delete «%s»?", escape(task.Title)), confirmKeyboard())
}

func (b *Bot) askClearConfirmation(chatID int64, st *chatState) error {
	done := 0
	for _, task := range b.tasks.Tasks() {
		if task.Completed {
			done++
		}
	}
	if done == 0 {
		return b.sendText(chatID, "There are no completed assignments.")
	}
	b.dropDialog(st)
	st.confirm = &confirmationRequest{action: actionClearCompleted}
	return b.sendWithReplyMarkup(chatID, fmt.Sprintf("Delete %d completed assignment(s)?", done), confirmKeyboard())
}

func (b *Bot) handleConfirmationResponse(ctx context.Context, chatID int64, st *chatState, text string) error {
	req := *st.confirm
	switch {
	case isConfirmInput(text):
		st.confirm = nil
		if req.action == actionClearCompleted {
			removed := b.tasks.BulkDeleteCompleted(ctx)
			if err := b.sendTextWithRemove(chatID, fmt.Sprintf("🗑 Deleted %d completed assignment(s).", removed)); err != nil {
				return err
			}
			return b.sendTaskList(chatID, st)
		}
		task, err := b.tasks.Get(req.taskID)
		if err != nil {
			return b.sendTextWithRemove(chatID, "Assignment not found or already deleted.")
		}
		b.tasks.Remove(ctx, req.taskID)
		if err := b.sendTextWithRemove(chatID, fmt.Sprintf("🗑 «%s» deleted.", escape(task.Title))); err != nil {
			return err
		}
		return b.sendTaskList(chatID, st)
	case isCancelInput(text):
		st.confirm = nil
		return b.sendTextWithRemove(chatID, "Nothing changed.")
	default:
		return b.sendWithReplyMarkup(chatID, "Confirm or cancel.", confirmKeyboard())
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}
	if _, err := b.out.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Warn().Err(err).Msg("callback ack")
	}
	if !b.allowed(cb.From) {
		return nil
	}

	chatID := cb.Message.Chat.ID
	st := b.state(chatID)
	data := cb.Data
	b.log.Info().Int64("chat", chatID).Str("data", data).Msg("callback")

	switch {
	case strings.HasPrefix(data, cbTogglePrefix):
		return b.toggleAndRefresh(ctx, chatID, st, strings.TrimPrefix(data, cbTogglePrefix))
	case strings.HasPrefix(data, cbDeletePrefix):
		return b.askDeleteConfirmation(chatID, st, strings.TrimPrefix(data, cbDeletePrefix))
	case strings.HasPrefix(data, cbUpPrefix):
		return b.moveAndRefresh(ctx, chatID, st, strings.TrimPrefix(data, cbUpPrefix), service.Up)
	case strings.HasPrefix(data, cbDownPrefix):
		return b.moveAndRefresh(ctx, chatID, st, strings.TrimPrefix(data, cbDownPrefix), service.Down)
	default:
		return nil
	}
}

// dropDialog abandons the chat's input and the editing target with it.
func (b *Bot) dropDialog(st *chatState) {
	st.dialog = nil
	b.tasks.CancelEdit()
}

// withPosition resolves "n" against the last list shown in the chat.
func (b *Bot) withPosition(chatID int64, st *chatState, args string, fn func(id string) error) error {
	id, problem := resolvePosition(st.listed, args)
	if problem != "" {
		return b.sendText(chatID, problem)
	}
	return fn(id)
}

func (b *Bot) reportSaveError(chatID int64, err error) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return b.sendText(chatID, "⚠️ "+escape(strings.Join(verr.Fields.Messages(), "\n⚠️ ")))
	}
	return b.sendText(chatID, fmt.Sprintf("Could not save: %s", escape(err.Error())))
}
