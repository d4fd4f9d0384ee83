package chat

import "context"

// TurnEventKind 标识一次 turn 内事件流中的事件类型。
type TurnEventKind string

const (
	// TurnEventTool 表示一次工具执行状态变化，终态事件前可出现任意多次。
	TurnEventTool TurnEventKind = "tool_execution"
	// TurnEventDelta 携带一段增量文本，按到达顺序拼接。
	TurnEventDelta TurnEventKind = "delta"
	// TurnEventComplete 是成功终态事件，每个 turn 恰好一次。
	TurnEventComplete TurnEventKind = "complete"
	// TurnEventError 是失败终态事件。
	TurnEventError TurnEventKind = "error"
)

// TurnEvent 是流式 RPC 按序投递的单个事件。
// 具体字段按 Kind 取用：Tool 对应 tool_execution，Delta 对应 delta，
// FullMessage/Hint/Action/Checklist/ToolExecutions 对应 complete，
// ErrMessage 对应 error。
type TurnEvent struct {
	Kind TurnEventKind

	Tool  *ToolExecution
	Delta string

	ConversationID string

	// FullMessage 非空时为权威内容，覆盖此前所有增量。
	FullMessage    *Message
	Hint           string
	Action         *SuggestedAction
	Checklist      *Checklist
	ToolExecutions []ToolExecution

	ErrMessage string
}

// Streamer 是流式助手 RPC 的抽象边界。
// SendTurn 返回的通道按序投递事件，终态事件后通道关闭。
type Streamer interface {
	SendTurn(ctx context.Context, eventID, message, topic string) (<-chan TurnEvent, error)
	GetHints(ctx context.Context, eventID, conversationID, lastTopic string) (Hints, error)
	GetHistory(ctx context.Context, eventID, conversationID string) ([]Message, error)
	GenerateChecklist(ctx context.Context, eventID, topic string) (*Checklist, error)
}
