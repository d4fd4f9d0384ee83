package planner

import "context"

// 各资源的薄转发层：把 chat 侧接口的通用方法名
// （List/Create/Update/Delete、Get/SetPlanned）映射到
// Client 上按实体命名的方法。不含任何附加逻辑。

// Tasks 以任务资源的身份暴露 Client。
type Tasks struct{ *Client }

func (t Tasks) List(ctx context.Context, eventID string) ([]Task, error) {
	return t.ListTasks(ctx, eventID)
}

func (t Tasks) Create(ctx context.Context, eventID string, task Task) (Task, error) {
	return t.CreateTask(ctx, eventID, task)
}

func (t Tasks) Update(ctx context.Context, eventID string, task Task) error {
	return t.UpdateTask(ctx, eventID, task)
}

func (t Tasks) Delete(ctx context.Context, eventID, taskID string) error {
	return t.DeleteTask(ctx, eventID, taskID)
}

// Agenda 以议程资源的身份暴露 Client。
type Agenda struct{ *Client }

func (a Agenda) List(ctx context.Context, eventID string) ([]AgendaItem, error) {
	return a.ListAgenda(ctx, eventID)
}

func (a Agenda) Create(ctx context.Context, eventID string, item AgendaItem) (AgendaItem, error) {
	return a.CreateAgendaItem(ctx, eventID, item)
}

func (a Agenda) Update(ctx context.Context, eventID string, item AgendaItem) error {
	return a.UpdateAgendaItem(ctx, eventID, item)
}

func (a Agenda) Delete(ctx context.Context, eventID, itemID string) error {
	return a.DeleteAgendaItem(ctx, eventID, itemID)
}

// Expenses 以开销资源的身份暴露 Client。
type Expenses struct{ *Client }

func (e Expenses) List(ctx context.Context, eventID string) ([]Expense, error) {
	return e.ListExpenses(ctx, eventID)
}

func (e Expenses) Create(ctx context.Context, eventID string, expense Expense) (Expense, error) {
	return e.CreateExpense(ctx, eventID, expense)
}

func (e Expenses) Update(ctx context.Context, eventID string, expense Expense) error {
	return e.UpdateExpense(ctx, eventID, expense)
}

func (e Expenses) Delete(ctx context.Context, eventID, expenseID string) error {
	return e.DeleteExpense(ctx, eventID, expenseID)
}

// Budget 以预算资源的身份暴露 Client。
type Budgets struct{ *Client }

func (b Budgets) Get(ctx context.Context, eventID string) (Budget, error) {
	return b.GetBudget(ctx, eventID)
}
