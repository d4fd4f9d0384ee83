package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fiesta-cli/internal/logger"
	"fiesta-cli/internal/planner"
)

// 操作失败时展示给用户的固定文案。
const (
	applyFailedText = "Couldn't apply those changes. Please try again."
	turnFailedText  = "The assistant is unavailable right now."
	loadFailedText  = "Couldn't load that conversation."
)

// Options 组装引擎依赖。Streamer 与各资源仓库都是外部协作者。
type Options struct {
	Event         planner.Event
	Streamer      Streamer
	Tasks         TaskRepo
	Agenda        AgendaRepo
	Expenses      ExpenseRepo
	Budget        BudgetRepo
	Notifications NotificationRepo
	Conversations ConversationRepo

	// HintInterval 覆盖提示语轮换周期，零值用缺省。
	HintInterval time.Duration
}

// Status 是暴露给界面层的可观察状态快照。
type Status struct {
	Typing         bool
	StreamComplete bool
	Hint           string
	Err            string
	Saved          bool
}

// Engine 是一屏对话的唯一所有者：串行化全部消息存储变更，
// 管理单飞 turn、提示语轮换与建议操作的应用。
type Engine struct {
	mu   sync.Mutex
	opts Options

	store *Store
	rec   *reconciler
	hints *hintScheduler
	log   *logger.LogEntry

	conversationID string
	lastTopic      string

	turnGen    int
	turnCancel context.CancelFunc
	turnMsgID  string
	turnDone   chan struct{}

	typing         bool
	streamComplete bool
	errMsg         string
	saved          bool
	savedList      []planner.SavedConversation
	closed         bool
}

// New 构造对话引擎。
func New(opts Options) *Engine {
	store := NewStore()
	e := &Engine{
		opts:  opts,
		store: store,
		rec:   newReconciler(store, opts.Event, opts.Tasks, opts.Agenda, opts.Expenses, opts.Budget, opts.Notifications),
		log:   logger.Named("chat"),
	}
	e.hints = newHintScheduler(opts.HintInterval, func(string) { store.notify() })
	return e
}

// Store 返回可观察的消息存储。
func (e *Engine) Store() *Store {
	return e.store
}

// Status 返回状态快照。
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{
		Typing:         e.typing,
		StreamComplete: e.streamComplete,
		Hint:           e.hints.Current(),
		Err:            e.errMsg,
		Saved:          e.saved,
	}
}

// ConversationID 返回当前对话 id，尚未建立时为空。
func (e *Engine) ConversationID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conversationID
}

// Start 初始化提示语：先展示离线兜底提示，再异步请求服务端提示。
func (e *Engine) Start(ctx context.Context) {
	e.hints.SetFallback(fallbackHint(e.opts.Event.Category))
	go func() {
		e.mu.Lock()
		convID, topic := e.conversationID, e.lastTopic
		e.mu.Unlock()
		hints, err := e.opts.Streamer.GetHints(ctx, e.opts.Event.ID, convID, topic)
		if err != nil {
			e.log.WithField("err", err).Warn("hint fetch failed, keeping fallback")
			return
		}
		e.hints.SetHints(hints)
	}()
}

// SendMessage 发起一个新 turn。存在进行中的 turn 时先静默取消——
// 只有最新一条消息有意义。用户消息总是先落本地。
func (e *Engine) SendMessage(text, topic string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	if e.turnCancel != nil {
		e.turnCancel()
		e.turnCancel = nil
	}
	e.turnGen++
	gen := e.turnGen
	if topic != "" {
		e.lastTopic = topic
	}

	now := time.Now()
	user := Message{ID: newID(), Content: text, Author: AuthorUser, CreatedAt: now}
	placeholder := Message{ID: newID(), Author: AuthorAssistant, Typing: true, CreatedAt: now}
	e.store.Append(user)
	e.store.Append(placeholder)

	e.typing = true
	e.streamComplete = false
	e.errMsg = ""
	e.turnMsgID = placeholder.ID

	ctx, cancel := context.WithCancel(context.Background())
	e.turnCancel = cancel
	done := make(chan struct{})
	e.turnDone = done
	e.mu.Unlock()

	go e.runTurn(ctx, gen, placeholder.ID, text, topic, done)
}

// CancelTurn 取消进行中的 turn：停止事件转发并清除打字指示。
// 已写入的部分内容保持可见，不做回滚。
func (e *Engine) CancelTurn() {
	e.mu.Lock()
	if e.turnCancel != nil {
		e.turnCancel()
		e.turnCancel = nil
	}
	e.typing = false
	msgID := e.turnMsgID
	e.mu.Unlock()

	if msgID != "" {
		if msg, ok := e.store.Find(msgID); ok && msg.Typing {
			msg.Typing = false
			e.store.Replace(msgID, msg)
		}
	}
}

// Close 销毁引擎：取消 turn、停掉提示轮换、关闭订阅。
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	if e.turnCancel != nil {
		e.turnCancel()
		e.turnCancel = nil
	}
	e.mu.Unlock()

	e.hints.Stop()
	e.store.Close()
}

func (e *Engine) runTurn(ctx context.Context, gen int, msgID, text, topic string, done chan struct{}) {
	defer close(done)

	asm := newAssembler(e.store, msgID)
	ch, err := e.opts.Streamer.SendTurn(ctx, e.opts.Event.ID, text, topic)
	if err != nil {
		// 传输层失败统一走 ErrorEvent 路径，不向上抛出。
		e.applyEvent(gen, asm, TurnEvent{Kind: TurnEventError, ErrMessage: err.Error()})
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				// 取消引起的提前关闭不是错误
				if ctx.Err() == nil {
					e.applyEvent(gen, asm, TurnEvent{Kind: TurnEventError, ErrMessage: "stream closed before terminal event"})
				}
				return
			}
			if e.applyEvent(gen, asm, ev) {
				return
			}
		}
	}
}

// applyEvent 在引擎锁内应用单个事件，保证与其他变更入口串行。
// gen 不匹配说明本 turn 已被新 turn 取代，停止一切后续变更。
// 返回 true 表示 turn 结束。
func (e *Engine) applyEvent(gen int, asm *assembler, ev TurnEvent) bool {
	e.mu.Lock()
	if e.closed || gen != e.turnGen {
		e.mu.Unlock()
		return true
	}

	outcome, done := asm.apply(ev)
	if ev.Kind == TurnEventDelta {
		e.typing = false
	}
	var hint string
	if done {
		e.typing = false
		e.turnCancel = nil
		e.turnMsgID = ""
		if outcome.err != nil {
			e.errMsg = turnFailedText
			e.log.WithField("err", outcome.err).Warn("turn failed")
		} else {
			e.streamComplete = true
			if outcome.conversationID != "" {
				e.conversationID = outcome.conversationID
			}
			hint = outcome.hint
		}
	}
	e.mu.Unlock()

	if hint != "" {
		e.hints.Override(hint)
	}
	return done
}

// ApplySuggestedAction 应用指定消息上的建议操作。
func (e *Engine) ApplySuggestedAction(ctx context.Context, messageID string) error {
	if err := e.rec.applyAction(ctx, messageID); err != nil {
		e.setError(applyFailedText)
		return err
	}
	return nil
}

// DeclineSuggestedAction 拒绝建议操作，不发起任何远端调用。
func (e *Engine) DeclineSuggestedAction(messageID string) {
	e.rec.declineAction(messageID)
}

// ToggleChecklistItem 翻转清单条目的勾选状态并同步远端。
func (e *Engine) ToggleChecklistItem(ctx context.Context, messageID, itemID string) {
	e.rec.toggleChecklistItem(ctx, e.opts.Conversations, messageID, itemID)
}

// AddChecklistItems 把清单中未勾选的条目转成真实记录。
func (e *Engine) AddChecklistItems(ctx context.Context, messageID string) error {
	if err := e.rec.addChecklistItems(ctx, messageID); err != nil {
		e.setError(applyFailedText)
		return err
	}
	return nil
}

// SelectTopic 切换话题并请求一份该话题的清单，以新消息追加。
func (e *Engine) SelectTopic(ctx context.Context, topic string) error {
	e.mu.Lock()
	e.lastTopic = topic
	convID := e.conversationID
	e.mu.Unlock()

	checklist, err := e.opts.Streamer.GenerateChecklist(ctx, e.opts.Event.ID, topic)
	if err != nil {
		e.setError(turnFailedText)
		return err
	}
	if checklist == nil {
		return nil
	}
	checklist.Topic = topic
	checklist.ConversationID = convID
	e.store.Append(Message{
		ID:        newID(),
		Author:    AuthorAssistant,
		Content:   checklist.Title,
		CreatedAt: time.Now(),
		Checklist: checklist,
	})
	return nil
}

// ToggleSaveConversation 乐观翻转保存状态并同步远端。
// 成功后从后端刷新保存列表；失败则翻回标记且不刷新。
func (e *Engine) ToggleSaveConversation(ctx context.Context) error {
	e.mu.Lock()
	convID := e.conversationID
	if e.closed || convID == "" {
		e.mu.Unlock()
		return nil
	}
	wasSaved := e.saved
	e.saved = !wasSaved
	e.mu.Unlock()

	var err error
	if wasSaved {
		err = e.opts.Conversations.Unsave(ctx, e.opts.Event.ID, convID)
	} else {
		err = e.opts.Conversations.Save(ctx, e.opts.Event.ID, convID)
	}
	if err != nil {
		e.mu.Lock()
		e.saved = wasSaved
		e.mu.Unlock()
		e.setError(applyFailedText)
		return err
	}

	// 乐观标记不可信，列表以后端为准。
	if list, listErr := e.opts.Conversations.Saved(ctx, e.opts.Event.ID); listErr == nil {
		e.mu.Lock()
		e.savedList = list
		e.mu.Unlock()
	} else {
		e.log.WithField("err", listErr).Warn("saved list refresh failed")
	}
	return nil
}

// SavedConversations 返回缓存的保存列表快照。
func (e *Engine) SavedConversations() []planner.SavedConversation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]planner.SavedConversation(nil), e.savedList...)
}

// RefreshSavedConversations 从后端刷新保存列表。
func (e *Engine) RefreshSavedConversations(ctx context.Context) error {
	list, err := e.opts.Conversations.Saved(ctx, e.opts.Event.ID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.savedList = list
	e.mu.Unlock()
	return nil
}

// LoadConversation 加载一段已保存对话，整体替换当前消息序列。
func (e *Engine) LoadConversation(ctx context.Context, conversationID string) error {
	history, err := e.opts.Streamer.GetHistory(ctx, e.opts.Event.ID, conversationID)
	if err != nil {
		e.setError(loadFailedText)
		return err
	}
	e.CancelTurn()
	e.store.Reset(history)
	e.mu.Lock()
	e.conversationID = conversationID
	e.saved = true
	e.streamComplete = true
	e.errMsg = ""
	e.mu.Unlock()
	return nil
}

// ClearError 清除当前错误展示。
func (e *Engine) ClearError() {
	e.mu.Lock()
	e.errMsg = ""
	e.mu.Unlock()
}

func (e *Engine) setError(text string) {
	e.mu.Lock()
	e.errMsg = text
	e.mu.Unlock()
	e.store.notify()
}

func newID() string {
	return uuid.NewString()
}
