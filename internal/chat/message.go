// Package chat 实现助手对话引擎：消息存储、流式响应装配、
// 单飞 turn 控制、提示语轮换，以及建议操作的乐观应用与回滚。
package chat

import (
	"strings"
	"time"
)

// Author 标识消息作者。
type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

// ToolStatus 是工具执行状态。
type ToolStatus string

const (
	ToolStatusInProgress      ToolStatus = "in_progress"
	ToolStatusSuccess         ToolStatus = "success"
	ToolStatusError           ToolStatus = "error"
	ToolStatusPendingApproval ToolStatus = "pending_approval"
)

// Terminal 判断状态是否为终态。in_progress 之外的状态都视为终态。
func (s ToolStatus) Terminal() bool {
	return s != ToolStatusInProgress
}

// ToolExecution 记录一次服务端工具调用的可见状态。
type ToolExecution struct {
	ToolName string
	Status   ToolStatus
	Summary  string
}

// ChecklistItem 是清单中的一条可勾选项。
type ChecklistItem struct {
	ID      string
	Text    string
	Checked bool
}

// Checklist 是助手生成的清单，内嵌于唯一一条消息。
type Checklist struct {
	ID             string
	Title          string
	Description    string
	Items          []ChecklistItem
	Topic          string
	Saved          bool
	ConversationID string
}

// ActionType 是建议操作的类型标签。
type ActionType string

const (
	ActionNone           ActionType = ""
	ActionAddTasks       ActionType = "add_tasks"
	ActionRemoveTasks    ActionType = "remove_tasks"
	ActionUpdateTasks    ActionType = "update_tasks"
	ActionAddAgenda      ActionType = "add_agenda"
	ActionRemoveAgenda   ActionType = "remove_agenda"
	ActionUpdateAgenda   ActionType = "update_agenda"
	ActionAddExpenses    ActionType = "add_expenses"
	ActionRemoveExpenses ActionType = "remove_expenses"
	ActionUpdateExpenses ActionType = "update_expenses"
	ActionUpdateBudget   ActionType = "update_budget"
)

// ActionVerb 是建议操作的动词部分。
type ActionVerb string

const (
	VerbAdd    ActionVerb = "add"
	VerbRemove ActionVerb = "remove"
	VerbUpdate ActionVerb = "update"
	VerbNone   ActionVerb = ""
)

// ActionTarget 是建议操作作用的资源类别。
type ActionTarget string

const (
	TargetTasks    ActionTarget = "tasks"
	TargetAgenda   ActionTarget = "agenda"
	TargetExpenses ActionTarget = "expenses"
	TargetBudget   ActionTarget = "budget"
	TargetNone     ActionTarget = ""
)

// Verb 返回操作动词。
func (t ActionType) Verb() ActionVerb {
	switch t {
	case ActionAddTasks, ActionAddAgenda, ActionAddExpenses:
		return VerbAdd
	case ActionRemoveTasks, ActionRemoveAgenda, ActionRemoveExpenses:
		return VerbRemove
	case ActionUpdateTasks, ActionUpdateAgenda, ActionUpdateExpenses, ActionUpdateBudget:
		return VerbUpdate
	default:
		return VerbNone
	}
}

// Target 返回操作作用的资源类别。
func (t ActionType) Target() ActionTarget {
	switch t {
	case ActionAddTasks, ActionRemoveTasks, ActionUpdateTasks:
		return TargetTasks
	case ActionAddAgenda, ActionRemoveAgenda, ActionUpdateAgenda:
		return TargetAgenda
	case ActionAddExpenses, ActionRemoveExpenses, ActionUpdateExpenses:
		return TargetExpenses
	case ActionUpdateBudget:
		return TargetBudget
	default:
		return TargetNone
	}
}

// SuggestedActionItem 是建议操作中的单条目标。
// ExistingItemID 为空表示新建；非空时优先按 id 解析目标记录。
type SuggestedActionItem struct {
	ID              string
	Title           string
	Description     string
	Category        string
	AmountMinor     int64
	StartTime       string // HH:MM，为空表示只有相对时序
	DurationMinutes int
	ExistingItemID  string
	NewTitle        string
	NewDescription  string
}

// SuggestedAction 是助手提出的、需用户确认的批量变更。
type SuggestedAction struct {
	Type         ActionType
	Prompt       string
	ConfirmLabel string
	DeclineLabel string
	Items        []SuggestedActionItem
}

// Valid 校验操作可被应用：类型非空且至少有一条条目。
func (a *SuggestedAction) Valid() bool {
	return a != nil && a.Type != ActionNone && len(a.Items) > 0
}

// Message 是对话中的一条消息。除流式重建期间的占位消息外，
// 消息只会被整体替换，不做字段级补丁。
type Message struct {
	ID                  string
	Content             string
	Author              Author
	CreatedAt           time.Time
	Saved               bool
	Typing              bool
	Checklist           *Checklist
	Action              *SuggestedAction
	ActionApplied       bool
	ChecklistItemsAdded bool
	ToolExecutions      []ToolExecution
}

// Clone 返回深拷贝，切片与内嵌指针均复制，避免读侧与存储别名。
func (m Message) Clone() Message {
	out := m
	if m.Checklist != nil {
		cl := *m.Checklist
		cl.Items = append([]ChecklistItem(nil), m.Checklist.Items...)
		out.Checklist = &cl
	}
	if m.Action != nil {
		act := *m.Action
		act.Items = append([]SuggestedActionItem(nil), m.Action.Items...)
		out.Action = &act
	}
	if m.ToolExecutions != nil {
		out.ToolExecutions = append([]ToolExecution(nil), m.ToolExecutions...)
	}
	return out
}

// SameView 按 UI 可观察字段判断两条消息是否等价，用于渲染去重。
func (m Message) SameView(o Message) bool {
	return m.ID == o.ID &&
		m.Content == o.Content &&
		m.Saved == o.Saved &&
		m.Typing == o.Typing &&
		m.ActionApplied == o.ActionApplied &&
		m.ChecklistItemsAdded == o.ChecklistItemsAdded &&
		len(m.ToolExecutions) == len(o.ToolExecutions)
}

// Preview 返回消息内容的单行截断，用于保存列表。
func (m Message) Preview(limit int) string {
	text := strings.TrimSpace(strings.ReplaceAll(m.Content, "\n", " "))
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "…"
}

// Hints 是后端返回的建议提示语集合。
type Hints struct {
	Primary   string
	Suggested []string
}
