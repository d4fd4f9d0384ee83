// Package planner 封装活动策划后端的资源模型与 HTTP 客户端。
// 任务/议程/开销/预算四类资源都以 event id 为作用域，所有调用
// 要么整体成功要么返回错误，不存在部分成功的约定。
package planner

import "time"

// Event 描述一次活动的基础信息，作为所有资源调用的上下文。
type Event struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Start    time.Time `json:"start"`
}

// Task 是待办任务记录。
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Done        bool   `json:"done"`
}

// AgendaItem 是议程条目，Start/End 为绝对时间。
type AgendaItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// Expense 是开销记录，金额使用最小货币单位。
type Expense struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category,omitempty"`
	AmountMinor int64  `json:"amount_minor"`
}

// Budget 是活动预算，计划值与已花费值均为最小货币单位。
type Budget struct {
	PlannedMinor int64 `json:"planned_minor"`
	SpentMinor   int64 `json:"spent_minor"`
}

// SavedConversation 是一条已保存对话的只读摘要。
type SavedConversation struct {
	ID             string    `json:"id"`
	EventID        string    `json:"event_id"`
	ConversationID string    `json:"conversation_id"`
	Title          string    `json:"title"`
	Preview        string    `json:"preview"`
	MessageCount   int       `json:"message_count"`
	CreatedAt      time.Time `json:"created_at"`
	SavedAt        time.Time `json:"saved_at"`
}
