package chat

import (
	"context"
	"fmt"
	"time"

	"fiesta-cli/internal/logger"
	"fiesta-cli/internal/planner"
)

// 清单条目批量转换时，单条议程的缺省时长。
const checklistAgendaMinutes = 30

// reconciler 把建议操作与清单勾选落到远端资源上：
// 先乐观地翻转本地标记，失败时只回滚标记本身。
// 多条目循环是尽力而为的——前面条目已生效的远端副作用不做补偿。
type reconciler struct {
	store    *Store
	event    planner.Event
	tasks    TaskRepo
	agenda   AgendaRepo
	expenses ExpenseRepo
	budget   BudgetRepo
	notify   NotificationRepo
	log      *logger.LogEntry
}

func newReconciler(store *Store, event planner.Event, tasks TaskRepo, agenda AgendaRepo, expenses ExpenseRepo, budget BudgetRepo, notify NotificationRepo) *reconciler {
	return &reconciler{
		store:    store,
		event:    event,
		tasks:    tasks,
		agenda:   agenda,
		expenses: expenses,
		budget:   budget,
		notify:   notify,
		log:      logger.Named("reconciler"),
	}
}

// applyAction 应用一条消息上的建议操作。
// 无效操作或已应用的操作是静默 no-op。远端失败时回滚 actionApplied
// 并把错误交给调用方展示；循环内已完成的单条远端写入不回滚。
func (r *reconciler) applyAction(ctx context.Context, messageID string) error {
	msg, ok := r.store.Find(messageID)
	if !ok {
		return nil
	}
	if !msg.Action.Valid() || msg.ActionApplied {
		return nil
	}
	action := *msg.Action

	msg.ActionApplied = true
	r.store.Replace(messageID, msg)

	if err := r.dispatch(ctx, action); err != nil {
		if cur, ok := r.store.Find(messageID); ok {
			cur.ActionApplied = false
			r.store.Replace(messageID, cur)
		}
		r.log.WithFields(logger.Fields{"type": action.Type, "err": err}).Warn("suggested action rolled back")
		return fmt.Errorf("apply %s: %w", action.Type, err)
	}

	r.store.Append(Message{
		ID:        newID(),
		Author:    AuthorAssistant,
		Content:   confirmationText(action),
		CreatedAt: time.Now(),
	})
	r.log.WithFields(logger.Fields{"type": action.Type, "items": len(action.Items)}).Info("suggested action applied")
	return nil
}

// declineAction 拒绝建议操作：只标记已处理，不发起远端调用。
func (r *reconciler) declineAction(messageID string) {
	msg, ok := r.store.Find(messageID)
	if !ok || !msg.Action.Valid() || msg.ActionApplied {
		return
	}
	msg.ActionApplied = true
	r.store.Replace(messageID, msg)
}

func (r *reconciler) dispatch(ctx context.Context, action SuggestedAction) error {
	switch action.Type.Verb() {
	case VerbAdd:
		return r.dispatchAdd(ctx, action)
	case VerbRemove:
		return r.dispatchRemove(ctx, action)
	case VerbUpdate:
		return r.dispatchUpdate(ctx, action)
	default:
		return nil
	}
}

func (r *reconciler) dispatchAdd(ctx context.Context, action SuggestedAction) error {
	switch action.Type.Target() {
	case TargetTasks:
		for _, item := range action.Items {
			t := planner.Task{
				Title:       item.Title,
				Description: item.Description,
				Category:    item.Category,
			}
			if _, err := r.tasks.Create(ctx, r.event.ID, t); err != nil {
				return err
			}
		}
		return nil
	case TargetAgenda:
		cursor := r.event.Start
		for _, item := range action.Items {
			start, end := r.agendaWindow(cursor, item.StartTime, item.DurationMinutes)
			cursor = end
			draft := planner.AgendaItem{
				Title:       item.Title,
				Description: item.Description,
				Start:       start,
				End:         end,
			}
			created, err := r.agenda.Create(ctx, r.event.ID, draft)
			if err != nil {
				return err
			}
			// 提醒推送尽力而为，失败不影响操作结果。
			if r.notify != nil {
				if err := r.notify.ScheduleReminder(ctx, r.event.ID, created); err != nil {
					r.log.WithField("err", err).Warn("reminder scheduling skipped")
				}
			}
		}
		return nil
	case TargetExpenses:
		for _, item := range action.Items {
			e := planner.Expense{
				Title:       item.Title,
				Category:    item.Category,
				AmountMinor: item.AmountMinor,
			}
			if _, err := r.expenses.Create(ctx, r.event.ID, e); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported add target %q", action.Type)
	}
}

func (r *reconciler) dispatchRemove(ctx context.Context, action SuggestedAction) error {
	switch action.Type.Target() {
	case TargetTasks:
		records, err := r.tasks.List(ctx, r.event.ID)
		if err != nil {
			return err
		}
		ids, titles := taskKeys(records)
		for _, item := range action.Items {
			idx := resolveTarget(item.ExistingItemID, item.Title, ids, titles)
			if idx < 0 {
				r.logMiss("task", item)
				continue
			}
			if err := r.tasks.Delete(ctx, r.event.ID, records[idx].ID); err != nil {
				return err
			}
		}
		return nil
	case TargetAgenda:
		records, err := r.agenda.List(ctx, r.event.ID)
		if err != nil {
			return err
		}
		ids, titles := agendaKeys(records)
		for _, item := range action.Items {
			idx := resolveTarget(item.ExistingItemID, item.Title, ids, titles)
			if idx < 0 {
				r.logMiss("agenda item", item)
				continue
			}
			if err := r.agenda.Delete(ctx, r.event.ID, records[idx].ID); err != nil {
				return err
			}
		}
		return nil
	case TargetExpenses:
		records, err := r.expenses.List(ctx, r.event.ID)
		if err != nil {
			return err
		}
		ids, titles := expenseKeys(records)
		for _, item := range action.Items {
			idx := resolveTarget(item.ExistingItemID, item.Title, ids, titles)
			if idx < 0 {
				r.logMiss("expense", item)
				continue
			}
			if err := r.expenses.Delete(ctx, r.event.ID, records[idx].ID); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported remove target %q", action.Type)
	}
}

func (r *reconciler) dispatchUpdate(ctx context.Context, action SuggestedAction) error {
	switch action.Type.Target() {
	case TargetBudget:
		// 预算是单值资源：单条条目整体覆盖计划预算。
		item := action.Items[0]
		return r.budget.SetPlanned(ctx, r.event.ID, item.AmountMinor)
	case TargetTasks:
		records, err := r.tasks.List(ctx, r.event.ID)
		if err != nil {
			return err
		}
		ids, titles := taskKeys(records)
		for _, item := range action.Items {
			idx := resolveTarget(item.ExistingItemID, item.Title, ids, titles)
			if idx < 0 {
				r.logMiss("task", item)
				continue
			}
			rec := records[idx]
			if item.NewTitle != "" {
				rec.Title = item.NewTitle
			}
			if item.NewDescription != "" {
				rec.Description = item.NewDescription
			}
			if err := r.tasks.Update(ctx, r.event.ID, rec); err != nil {
				return err
			}
		}
		return nil
	case TargetAgenda:
		records, err := r.agenda.List(ctx, r.event.ID)
		if err != nil {
			return err
		}
		ids, titles := agendaKeys(records)
		for _, item := range action.Items {
			idx := resolveTarget(item.ExistingItemID, item.Title, ids, titles)
			if idx < 0 {
				r.logMiss("agenda item", item)
				continue
			}
			rec := records[idx]
			if item.NewTitle != "" {
				rec.Title = item.NewTitle
			}
			if item.NewDescription != "" {
				rec.Description = item.NewDescription
			}
			if err := r.agenda.Update(ctx, r.event.ID, rec); err != nil {
				return err
			}
		}
		return nil
	case TargetExpenses:
		records, err := r.expenses.List(ctx, r.event.ID)
		if err != nil {
			return err
		}
		ids, titles := expenseKeys(records)
		for _, item := range action.Items {
			idx := resolveTarget(item.ExistingItemID, item.Title, ids, titles)
			if idx < 0 {
				r.logMiss("expense", item)
				continue
			}
			rec := records[idx]
			if item.NewTitle != "" {
				rec.Title = item.NewTitle
			}
			if item.AmountMinor > 0 {
				rec.AmountMinor = item.AmountMinor
			}
			if err := r.expenses.Update(ctx, r.event.ID, rec); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported update target %q", action.Type)
	}
}

// toggleChecklistItem 乐观翻转勾选状态并同步远端，失败时翻回。
func (r *reconciler) toggleChecklistItem(ctx context.Context, conv ConversationRepo, messageID, itemID string) {
	msg, ok := r.store.Find(messageID)
	if !ok || msg.Checklist == nil {
		return
	}
	var checked bool
	found := false
	for i := range msg.Checklist.Items {
		if msg.Checklist.Items[i].ID == itemID {
			msg.Checklist.Items[i].Checked = !msg.Checklist.Items[i].Checked
			checked = msg.Checklist.Items[i].Checked
			found = true
			break
		}
	}
	if !found {
		return
	}
	r.store.Replace(messageID, msg)

	if err := conv.ToggleChecklistItem(ctx, r.event.ID, msg.Checklist.ID, itemID, checked); err != nil {
		if cur, ok := r.store.Find(messageID); ok && cur.Checklist != nil {
			for i := range cur.Checklist.Items {
				if cur.Checklist.Items[i].ID == itemID {
					cur.Checklist.Items[i].Checked = !checked
					break
				}
			}
			r.store.Replace(messageID, cur)
		}
		r.log.WithFields(logger.Fields{"item": itemID, "err": err}).Warn("checklist toggle reverted")
	}
}

// addChecklistItems 把清单中未勾选的条目批量转成真实记录。
// 目标实体由清单主题决定：timeline→议程，budget→开销，其余→任务。
func (r *reconciler) addChecklistItems(ctx context.Context, messageID string) error {
	msg, ok := r.store.Find(messageID)
	if !ok || msg.Checklist == nil || msg.ChecklistItemsAdded {
		return nil
	}
	var pending []ChecklistItem
	for _, item := range msg.Checklist.Items {
		if !item.Checked {
			pending = append(pending, item)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	topic := msg.Checklist.Topic

	msg.ChecklistItemsAdded = true
	r.store.Replace(messageID, msg)

	err := func() error {
		switch topic {
		case "timeline":
			cursor := r.event.Start
			for _, item := range pending {
				start, end := r.agendaWindow(cursor, "", checklistAgendaMinutes)
				cursor = end
				draft := planner.AgendaItem{Title: item.Text, Start: start, End: end}
				if _, err := r.agenda.Create(ctx, r.event.ID, draft); err != nil {
					return err
				}
			}
		case "budget":
			for _, item := range pending {
				if _, err := r.expenses.Create(ctx, r.event.ID, planner.Expense{Title: item.Text}); err != nil {
					return err
				}
			}
		default:
			for _, item := range pending {
				if _, err := r.tasks.Create(ctx, r.event.ID, planner.Task{Title: item.Text}); err != nil {
					return err
				}
			}
		}
		return nil
	}()
	if err != nil {
		if cur, ok := r.store.Find(messageID); ok {
			cur.ChecklistItemsAdded = false
			r.store.Replace(messageID, cur)
		}
		return fmt.Errorf("add checklist items: %w", err)
	}
	return nil
}

// agendaWindow 计算一条议程的起止时间。显式 HH:MM 锚定在活动当天，
// 否则顺延上一条的结束时间；时长为 0 时回退到缺省 30 分钟。
func (r *reconciler) agendaWindow(cursor time.Time, startTime string, durationMin int) (time.Time, time.Time) {
	start := cursor
	if clock, err := time.Parse("15:04", startTime); err == nil && startTime != "" {
		day := r.event.Start
		start = time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location())
	}
	if durationMin <= 0 {
		durationMin = checklistAgendaMinutes
	}
	end := start.Add(time.Duration(durationMin) * time.Minute)
	return start, end
}

func (r *reconciler) logMiss(kind string, item SuggestedActionItem) {
	r.log.WithFields(logger.Fields{"kind": kind, "title": item.Title, "existing_id": item.ExistingItemID}).Info("no matching record, skipping")
}

func taskKeys(records []planner.Task) (ids, titles []string) {
	ids = make([]string, len(records))
	titles = make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
		titles[i] = rec.Title
	}
	return ids, titles
}

func agendaKeys(records []planner.AgendaItem) (ids, titles []string) {
	ids = make([]string, len(records))
	titles = make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
		titles[i] = rec.Title
	}
	return ids, titles
}

func expenseKeys(records []planner.Expense) (ids, titles []string) {
	ids = make([]string, len(records))
	titles = make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
		titles[i] = rec.Title
	}
	return ids, titles
}

func confirmationText(action SuggestedAction) string {
	n := len(action.Items)
	switch action.Type {
	case ActionAddTasks:
		return fmt.Sprintf("Done! I've added %d %s to your to-do list.", n, plural(n, "task", "tasks"))
	case ActionRemoveTasks:
		return fmt.Sprintf("Done! I've removed %d %s from your to-do list.", n, plural(n, "task", "tasks"))
	case ActionUpdateTasks:
		return fmt.Sprintf("Done! I've updated %d %s.", n, plural(n, "task", "tasks"))
	case ActionAddAgenda:
		return fmt.Sprintf("Done! I've added %d agenda %s to your timeline.", n, plural(n, "item", "items"))
	case ActionRemoveAgenda:
		return fmt.Sprintf("Done! I've removed %d agenda %s.", n, plural(n, "item", "items"))
	case ActionUpdateAgenda:
		return fmt.Sprintf("Done! I've updated %d agenda %s.", n, plural(n, "item", "items"))
	case ActionAddExpenses:
		return fmt.Sprintf("Done! I've recorded %d %s.", n, plural(n, "expense", "expenses"))
	case ActionRemoveExpenses:
		return fmt.Sprintf("Done! I've removed %d %s.", n, plural(n, "expense", "expenses"))
	case ActionUpdateExpenses:
		return fmt.Sprintf("Done! I've updated %d %s.", n, plural(n, "expense", "expenses"))
	case ActionUpdateBudget:
		return "Done! I've updated your planned budget."
	default:
		return "Done!"
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
