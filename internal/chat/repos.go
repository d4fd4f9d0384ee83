package chat

import (
	"context"

	"fiesta-cli/internal/planner"
)

// 资源协作者边界。每个接口对应一类远端资源，调用
// 要么整体成功要么返回错误；引擎不假设跨资源的事务性。
// planner 包的资源转发类型（Tasks/Agenda/Expenses/Budgets）实现
// 对应接口，ConversationRepo/NotificationRepo 由 planner.Client
// 直接满足；测试使用内存假实现。

// TaskRepo 管理任务资源。
type TaskRepo interface {
	List(ctx context.Context, eventID string) ([]planner.Task, error)
	Create(ctx context.Context, eventID string, t planner.Task) (planner.Task, error)
	Update(ctx context.Context, eventID string, t planner.Task) error
	Delete(ctx context.Context, eventID, taskID string) error
}

// AgendaRepo 管理议程资源。
type AgendaRepo interface {
	List(ctx context.Context, eventID string) ([]planner.AgendaItem, error)
	Create(ctx context.Context, eventID string, item planner.AgendaItem) (planner.AgendaItem, error)
	Update(ctx context.Context, eventID string, item planner.AgendaItem) error
	Delete(ctx context.Context, eventID, itemID string) error
}

// ExpenseRepo 管理开销资源。
type ExpenseRepo interface {
	List(ctx context.Context, eventID string) ([]planner.Expense, error)
	Create(ctx context.Context, eventID string, e planner.Expense) (planner.Expense, error)
	Update(ctx context.Context, eventID string, e planner.Expense) error
	Delete(ctx context.Context, eventID, expenseID string) error
}

// BudgetRepo 管理预算。
type BudgetRepo interface {
	Get(ctx context.Context, eventID string) (planner.Budget, error)
	SetPlanned(ctx context.Context, eventID string, plannedMinor int64) error
}

// NotificationRepo 安排提醒推送，尽力而为。
type NotificationRepo interface {
	ScheduleReminder(ctx context.Context, eventID string, item planner.AgendaItem) error
}

// ConversationRepo 管理对话保存与清单勾选同步。
type ConversationRepo interface {
	Saved(ctx context.Context, eventID string) ([]planner.SavedConversation, error)
	Save(ctx context.Context, eventID, conversationID string) error
	Unsave(ctx context.Context, eventID, conversationID string) error
	ToggleChecklistItem(ctx context.Context, eventID, checklistID, itemID string, checked bool) error
}
