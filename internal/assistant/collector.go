package assistant

import (
	"fmt"
	"strings"
)

// toolCallCollector 把分片到达的函数调用增量按 callID 聚合，
// 流结束后整体取出。Flush 保持首次出现的顺序。
type toolCallCollector struct {
	order []string
	calls map[string]*pendingToolCall
}

type pendingToolCall struct {
	ID   string
	Name string
	Args strings.Builder
}

type collectedCall struct {
	Name string
	Args string
}

func newToolCallCollector() *toolCallCollector {
	return &toolCallCollector{
		calls: make(map[string]*pendingToolCall),
	}
}

func (c *toolCallCollector) Add(id, name, args string) {
	if strings.TrimSpace(id) == "" && strings.TrimSpace(name) == "" && strings.TrimSpace(args) == "" {
		return
	}
	callID := id
	if callID == "" {
		// 有些网关不回传增量的 call id，退化为按到达顺序编号。
		if len(c.order) > 0 {
			callID = c.order[len(c.order)-1]
		} else {
			callID = fmt.Sprintf("call-%d", len(c.calls)+1)
		}
	}
	entry := c.calls[callID]
	if entry == nil {
		entry = &pendingToolCall{ID: callID}
		c.calls[callID] = entry
		c.order = append(c.order, callID)
	}
	if name != "" {
		entry.Name = name
	}
	if args != "" {
		entry.Args.WriteString(args)
	}
}

func (c *toolCallCollector) Flush() []collectedCall {
	if len(c.calls) == 0 {
		return nil
	}
	out := make([]collectedCall, 0, len(c.calls))
	for _, id := range c.order {
		call := c.calls[id]
		if call == nil || strings.TrimSpace(call.Name) == "" {
			continue
		}
		out = append(out, collectedCall{Name: call.Name, Args: call.Args.String()})
	}
	return out
}
