package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"fiesta-cli/internal/chat"
)

// 助手通过两个约定的 function call 携带结构化载荷：
// suggest_actions 提出批量变更，build_checklist 生成清单。
// 客户端不执行它们，只解码进 CompleteEvent。
const (
	fnSuggestActions = "suggest_actions"
	fnBuildChecklist = "build_checklist"
)

type actionPayload struct {
	ActionType   string              `json:"action_type"`
	Prompt       string              `json:"prompt"`
	ConfirmLabel string              `json:"confirm_label"`
	DeclineLabel string              `json:"decline_label"`
	Hint         string              `json:"hint"`
	Items        []actionItemPayload `json:"items"`
}

type actionItemPayload struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	AmountMinor     int64  `json:"amount_minor"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	ExistingItemID  string `json:"existing_item_id"`
	NewTitle        string `json:"new_title"`
	NewDescription  string `json:"new_description"`
}

type checklistPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Topic       string `json:"topic"`
	Items       []struct {
		Text string `json:"text"`
	} `json:"items"`
}

type hintsPayload struct {
	Primary   string   `json:"primary"`
	Suggested []string `json:"suggested"`
}

func decodeAction(args string) (*chat.SuggestedAction, string, error) {
	var p actionPayload
	if err := json.Unmarshal([]byte(args), &p); err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", fnSuggestActions, err)
	}
	action := &chat.SuggestedAction{
		Type:         chat.ActionType(p.ActionType),
		Prompt:       p.Prompt,
		ConfirmLabel: p.ConfirmLabel,
		DeclineLabel: p.DeclineLabel,
	}
	for _, item := range p.Items {
		action.Items = append(action.Items, chat.SuggestedActionItem{
			ID:              uuid.NewString(),
			Title:           item.Title,
			Description:     item.Description,
			Category:        item.Category,
			AmountMinor:     item.AmountMinor,
			StartTime:       item.StartTime,
			DurationMinutes: item.DurationMinutes,
			ExistingItemID:  item.ExistingItemID,
			NewTitle:        item.NewTitle,
			NewDescription:  item.NewDescription,
		})
	}
	return action, p.Hint, nil
}

func decodeChecklist(args string) (*chat.Checklist, error) {
	var p checklistPayload
	if err := json.Unmarshal([]byte(args), &p); err != nil {
		return nil, fmt.Errorf("decode %s: %w", fnBuildChecklist, err)
	}
	cl := &chat.Checklist{
		ID:          uuid.NewString(),
		Title:       p.Title,
		Description: p.Description,
		Topic:       p.Topic,
	}
	for _, item := range p.Items {
		if strings.TrimSpace(item.Text) == "" {
			continue
		}
		cl.Items = append(cl.Items, chat.ChecklistItem{ID: uuid.NewString(), Text: item.Text})
	}
	return cl, nil
}

// extractJSON 从模型输出中截取首个平衡的 JSON 对象。
// 模型偶尔会在 JSON 外包围说明文字或代码栅栏，解析需要宽容。
func extractJSON(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func parseHints(text string) (chat.Hints, error) {
	raw, ok := extractJSON(text)
	if !ok {
		return chat.Hints{}, fmt.Errorf("no JSON object in hints response")
	}
	var p hintsPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return chat.Hints{}, fmt.Errorf("decode hints: %w", err)
	}
	return chat.Hints{Primary: p.Primary, Suggested: p.Suggested}, nil
}
