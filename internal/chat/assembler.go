package chat

import (
	"fmt"
	"strings"

	"fiesta-cli/internal/logger"
)

// turnOutcome 汇总一次 turn 结束时需要交还给引擎的信息。
type turnOutcome struct {
	hint           string
	conversationID string
	err            error
}

// assembler 承载一次 turn 内仍在变化的占位消息：
// 累积增量文本、合并工具执行状态，并在终态事件到达时定稿。
// 终态事件携带的 fullMessage 内容是权威的，覆盖此前全部增量。
type assembler struct {
	store *Store
	msgID string

	buf      strings.Builder
	tools    []ToolExecution
	sawDelta bool

	log *logger.LogEntry
}

func newAssembler(store *Store, msgID string) *assembler {
	return &assembler{
		store: store,
		msgID: msgID,
		log:   logger.Named("assembler"),
	}
}

// apply 处理一个事件。done 为 true 表示遇到终态事件，
// 此时 outcome 携带 hint/conversationID 或错误。
func (a *assembler) apply(ev TurnEvent) (outcome turnOutcome, done bool) {
	switch ev.Kind {
	case TurnEventTool:
		if ev.Tool != nil {
			a.applyTool(*ev.Tool)
		}
		return turnOutcome{}, false
	case TurnEventDelta:
		a.applyDelta(ev)
		return turnOutcome{}, false
	case TurnEventComplete:
		return a.complete(ev), true
	case TurnEventError:
		return a.fail(ev), true
	default:
		if a.log != nil {
			a.log.WithField("kind", ev.Kind).Warn("ignoring unknown turn event")
		}
		return turnOutcome{}, false
	}
}

// applyTool 合并一条工具执行状态：同名工具的终态移除 in_progress 条目后追加，
// 重复的 in_progress 原地更新，保证同名工具最多一条非终态记录。
// 打字指示在首个增量前保持可见。
func (a *assembler) applyTool(tool ToolExecution) {
	a.tools = mergeTool(a.tools, tool)
	msg, ok := a.store.Find(a.msgID)
	if !ok {
		return
	}
	msg.ToolExecutions = append([]ToolExecution(nil), a.tools...)
	a.store.Replace(a.msgID, msg)
}

// applyDelta 将增量文本追加到累积器并回写内容。首个增量清除打字指示。
func (a *assembler) applyDelta(ev TurnEvent) {
	a.sawDelta = true
	a.buf.WriteString(ev.Delta)
	msg, ok := a.store.Find(a.msgID)
	if !ok {
		return
	}
	msg.Typing = false
	msg.Content = a.buf.String()
	a.store.Replace(a.msgID, msg)
}

// complete 定稿占位消息。fullMessage 的内容覆盖增量累积；
// 终态事件携带的工具列表按工具名并入，终态状态优先。
func (a *assembler) complete(ev TurnEvent) turnOutcome {
	msg, ok := a.store.Find(a.msgID)
	if !ok {
		return turnOutcome{hint: ev.Hint, conversationID: ev.ConversationID}
	}

	content := a.buf.String()
	checklist := ev.Checklist
	if ev.FullMessage != nil {
		// fullMessage 在场即权威，内容为空也同样覆盖增量。
		content = ev.FullMessage.Content
		if ev.FullMessage.Checklist != nil {
			checklist = ev.FullMessage.Checklist
		}
	}

	msg.Content = content
	msg.Typing = false
	if checklist != nil {
		cl := *checklist
		cl.Items = append([]ChecklistItem(nil), checklist.Items...)
		msg.Checklist = &cl
	}
	if ev.Action.Valid() {
		act := *ev.Action
		act.Items = append([]SuggestedActionItem(nil), ev.Action.Items...)
		msg.Action = &act
	}
	for _, tool := range ev.ToolExecutions {
		a.tools = mergeFinalTool(a.tools, tool)
	}
	if len(a.tools) > 0 {
		msg.ToolExecutions = append([]ToolExecution(nil), a.tools...)
	}
	a.store.Replace(a.msgID, msg)

	return turnOutcome{hint: ev.Hint, conversationID: ev.ConversationID}
}

// fail 丢弃部分内容，将占位消息替换为固定致歉文案。
func (a *assembler) fail(ev TurnEvent) turnOutcome {
	if msg, ok := a.store.Find(a.msgID); ok {
		msg.Content = apologyText
		msg.Typing = false
		a.store.Replace(a.msgID, msg)
	}
	err := fmt.Errorf("%w: %s", ErrTurnFailed, ev.ErrMessage)
	if a.log != nil {
		a.log.WithField("err", ev.ErrMessage).Warn("turn ended with remote error")
	}
	return turnOutcome{err: err}
}

// mergeTool 将一条工具状态并入列表（流式路径）。
// 规则：终态移除同名 in_progress 条目后追加到尾部；
// 重复的 in_progress 原地更新。同一工具的再次调用
// （终态之后的新 in_progress）会得到新条目。
func mergeTool(list []ToolExecution, tool ToolExecution) []ToolExecution {
	for i := range list {
		if list[i].ToolName != tool.ToolName || list[i].Status.Terminal() {
			continue
		}
		if tool.Status.Terminal() {
			list = append(list[:i], list[i+1:]...)
			return append(list, tool)
		}
		list[i] = tool
		return list
	}
	return append(list, tool)
}

// mergeFinalTool 将终态事件携带的工具状态并入（按工具名取并集，终态优先）。
func mergeFinalTool(list []ToolExecution, tool ToolExecution) []ToolExecution {
	for i := range list {
		if list[i].ToolName != tool.ToolName {
			continue
		}
		if tool.Status.Terminal() || !list[i].Status.Terminal() {
			list[i] = tool
		}
		return list
	}
	return append(list, tool)
}
