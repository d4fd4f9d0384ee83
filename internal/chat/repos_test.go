package chat

import (
	"context"
	"fmt"
	"sync"

	"fiesta-cli/internal/planner"
)

// 内存假实现，覆盖全部仓库接口。failNext 注入单次失败。

type fakeTasks struct {
	mu       sync.Mutex
	records  []planner.Task
	seq      int
	creates  int
	failNext error
	// failCreateAt 非零时第 N 次 Create 失败（从 1 起计）。
	failCreateAt int
}

func (f *fakeTasks) List(ctx context.Context, eventID string) ([]planner.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]planner.Task(nil), f.records...), nil
}

func (f *fakeTasks) Create(ctx context.Context, eventID string, t planner.Task) (planner.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.failCreateAt != 0 && f.creates == f.failCreateAt {
		return planner.Task{}, fmt.Errorf("create %d rejected", f.creates)
	}
	if err := f.takeErr(); err != nil {
		return planner.Task{}, err
	}
	f.seq++
	t.ID = fmt.Sprintf("task-%d", f.seq)
	f.records = append(f.records, t)
	return t, nil
}

func (f *fakeTasks) Update(ctx context.Context, eventID string, t planner.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeErr(); err != nil {
		return err
	}
	for i := range f.records {
		if f.records[i].ID == t.ID {
			f.records[i] = t
			return nil
		}
	}
	return planner.ErrNotFound
}

func (f *fakeTasks) Delete(ctx context.Context, eventID, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeErr(); err != nil {
		return err
	}
	for i := range f.records {
		if f.records[i].ID == taskID {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return planner.ErrNotFound
}

func (f *fakeTasks) takeErr() error {
	err := f.failNext
	f.failNext = nil
	return err
}

type fakeAgenda struct {
	mu       sync.Mutex
	records  []planner.AgendaItem
	seq      int
	failNext error
}

func (f *fakeAgenda) List(ctx context.Context, eventID string) ([]planner.AgendaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]planner.AgendaItem(nil), f.records...), nil
}

func (f *fakeAgenda) Create(ctx context.Context, eventID string, item planner.AgendaItem) (planner.AgendaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failNext; err != nil {
		f.failNext = nil
		return planner.AgendaItem{}, err
	}
	f.seq++
	item.ID = fmt.Sprintf("agenda-%d", f.seq)
	f.records = append(f.records, item)
	return item, nil
}

func (f *fakeAgenda) Update(ctx context.Context, eventID string, item planner.AgendaItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == item.ID {
			f.records[i] = item
			return nil
		}
	}
	return planner.ErrNotFound
}

func (f *fakeAgenda) Delete(ctx context.Context, eventID, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == itemID {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return planner.ErrNotFound
}

type fakeExpenses struct {
	mu      sync.Mutex
	records []planner.Expense
	seq     int
}

func (f *fakeExpenses) List(ctx context.Context, eventID string) ([]planner.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]planner.Expense(nil), f.records...), nil
}

func (f *fakeExpenses) Create(ctx context.Context, eventID string, e planner.Expense) (planner.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	e.ID = fmt.Sprintf("expense-%d", f.seq)
	f.records = append(f.records, e)
	return e, nil
}

func (f *fakeExpenses) Update(ctx context.Context, eventID string, e planner.Expense) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == e.ID {
			f.records[i] = e
			return nil
		}
	}
	return planner.ErrNotFound
}

func (f *fakeExpenses) Delete(ctx context.Context, eventID, expenseID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == expenseID {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return planner.ErrNotFound
}

type fakeBudget struct {
	mu      sync.Mutex
	planned int64
	spent   int64
}

func (f *fakeBudget) Get(ctx context.Context, eventID string) (planner.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return planner.Budget{PlannedMinor: f.planned, SpentMinor: f.spent}, nil
}

func (f *fakeBudget) SetPlanned(ctx context.Context, eventID string, plannedMinor int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.planned = plannedMinor
	return nil
}

type fakeNotify struct {
	mu        sync.Mutex
	scheduled []string
	failAll   error
}

func (f *fakeNotify) ScheduleReminder(ctx context.Context, eventID string, item planner.AgendaItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return f.failAll
	}
	f.scheduled = append(f.scheduled, item.ID)
	return nil
}

type fakeConversations struct {
	mu       sync.Mutex
	saved    map[string]bool
	toggles  []string
	failNext error
}

func newFakeConversations() *fakeConversations {
	return &fakeConversations{saved: map[string]bool{}}
}

func (f *fakeConversations) Saved(ctx context.Context, eventID string) ([]planner.SavedConversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []planner.SavedConversation
	for id, ok := range f.saved {
		if ok {
			out = append(out, planner.SavedConversation{ConversationID: id, EventID: eventID})
		}
	}
	return out, nil
}

func (f *fakeConversations) Save(ctx context.Context, eventID, conversationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failNext; err != nil {
		f.failNext = nil
		return err
	}
	f.saved[conversationID] = true
	return nil
}

func (f *fakeConversations) Unsave(ctx context.Context, eventID, conversationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failNext; err != nil {
		f.failNext = nil
		return err
	}
	delete(f.saved, conversationID)
	return nil
}

func (f *fakeConversations) ToggleChecklistItem(ctx context.Context, eventID, checklistID, itemID string, checked bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failNext; err != nil {
		f.failNext = nil
		return err
	}
	f.toggles = append(f.toggles, itemID)
	return nil
}
