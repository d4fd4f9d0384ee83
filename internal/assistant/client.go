// Package assistant 把 OpenAI 兼容的流式 chat completion 适配成
// 对话引擎消费的按序 TurnEvent 流。
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"fiesta-cli/internal/chat"
	"fiesta-cli/internal/logger"
	"fiesta-cli/internal/planner"
)

// HistoryStore 允许客户端为未见过的对话补齐历史（通常由本地存档实现）。
type HistoryStore interface {
	History(conversationID string) ([]chat.Message, bool)
}

type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	Event   planner.Event
	History HistoryStore
}

// Client 实现 chat.Streamer。每个对话在内存中保留转写，
// 作为下一个 turn 的上下文。
type Client struct {
	api   *openai.Client
	model string
	event planner.Event
	hist  HistoryStore
	log   *logger.LogEntry

	mu          sync.Mutex
	activeConv  string
	transcripts map[string][]chat.Message
}

var _ chat.Streamer = (*Client)(nil)

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("missing assistant API key")
	}
	cfg := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg = append(cfg, option.WithBaseURL(strings.TrimRight(base, "/")))
	}
	client := openai.NewClient(cfg...)
	return &Client{
		api:         &client,
		model:       opts.Model,
		event:       opts.Event,
		hist:        opts.History,
		log:         logger.Named("assistant"),
		transcripts: map[string][]chat.Message{},
	}, nil
}

// SendTurn 发起一个流式 turn。返回的通道按序投递事件，终态后关闭。
func (c *Client) SendTurn(ctx context.Context, eventID, message, topic string) (<-chan chat.TurnEvent, error) {
	convID, history := c.beginTurn(message)
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.model),
		Messages: c.buildMessages(history, topic),
		Tools:    payloadTools(),
	}

	logger.TurnLog.Request(c.model, eventID, message)
	out := make(chan chat.TurnEvent, 16)
	go func() {
		defer close(out)
		c.streamTurn(ctx, convID, params, out)
	}()
	return out, nil
}

func (c *Client) streamTurn(ctx context.Context, convID string, params openai.ChatCompletionNewParams, out chan<- chat.TurnEvent) {
	stream := c.api.Chat.Completions.NewStreaming(ctx, params)
	collector := newToolCallCollector()
	var text strings.Builder
	chunkSeq := 0
	started := map[string]bool{}

	emit := func(ev chat.TurnEvent) bool {
		select {
		case <-ctx.Done():
			return false
		case out <- ev:
			return true
		}
	}

	for stream.Next() {
		chunk := stream.Current()
		for _, choice := range chunk.Choices {
			if choice.Delta.Content != "" {
				logger.TurnLog.Chunk(c.model, choice.Delta.Content, chunkSeq)
				chunkSeq++
				text.WriteString(choice.Delta.Content)
				if !emit(chat.TurnEvent{Kind: chat.TurnEventDelta, Delta: choice.Delta.Content, ConversationID: convID}) {
					return
				}
			}
			for _, call := range choice.Delta.ToolCalls {
				name := call.Function.Name
				if name != "" && !started[name] {
					started[name] = true
					if !emit(chat.TurnEvent{Kind: chat.TurnEventTool, Tool: &chat.ToolExecution{
						ToolName: name,
						Status:   chat.ToolStatusInProgress,
					}}) {
						return
					}
				}
				collector.Add(call.ID, name, call.Function.Arguments)
			}
		}
	}
	if err := stream.Err(); err != nil {
		logger.TurnLog.Error(c.model, err)
		emit(chat.TurnEvent{Kind: chat.TurnEventError, ErrMessage: err.Error()})
		return
	}

	complete := chat.TurnEvent{Kind: chat.TurnEventComplete, ConversationID: convID}
	for _, call := range collector.Flush() {
		tool := chat.ToolExecution{ToolName: call.Name, Status: chat.ToolStatusSuccess}
		switch call.Name {
		case fnSuggestActions:
			action, hint, err := decodeAction(call.Args)
			if err != nil {
				c.log.WithField("err", err).Warn("dropping malformed suggested action")
				tool.Status = chat.ToolStatusError
				tool.Summary = err.Error()
				break
			}
			complete.Action = action
			complete.Hint = hint
			tool.Summary = fmt.Sprintf("prepared %d suggestions", len(action.Items))
		case fnBuildChecklist:
			cl, err := decodeChecklist(call.Args)
			if err != nil {
				c.log.WithField("err", err).Warn("dropping malformed checklist")
				tool.Status = chat.ToolStatusError
				tool.Summary = err.Error()
				break
			}
			cl.ConversationID = convID
			complete.Checklist = cl
			tool.Summary = fmt.Sprintf("%d checklist items", len(cl.Items))
		}
		if !emit(chat.TurnEvent{Kind: chat.TurnEventTool, Tool: &tool}) {
			return
		}
	}

	c.recordAssistant(convID, text.String())
	logger.TurnLog.Complete(c.model, chunkSeq)
	emit(complete)
}

// GetHints 请求开场提示语。模型以 JSON 返回，解析保持宽容。
func (c *Client) GetHints(ctx context.Context, eventID, conversationID, lastTopic string) (chat.Hints, error) {
	prompt := fmt.Sprintf(
		"Suggest short conversation starters for planning the event %q (category %s).",
		c.event.Name, c.event.Category)
	if lastTopic != "" {
		prompt += fmt.Sprintf(" The user was last discussing %q.", lastTopic)
	}
	prompt += ` Respond with JSON only: {"primary": "...", "suggested": ["...", "..."]}`

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.systemPrompt("")),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return chat.Hints{}, err
	}
	if len(resp.Choices) == 0 {
		return chat.Hints{}, errors.New("no hint choices returned")
	}
	return parseHints(resp.Choices[0].Message.Content)
}

// GetHistory 返回对话历史：优先内存转写，其次本地存档。
func (c *Client) GetHistory(ctx context.Context, eventID, conversationID string) ([]chat.Message, error) {
	c.mu.Lock()
	transcript, ok := c.transcripts[conversationID]
	if ok {
		c.activeConv = conversationID
		out := make([]chat.Message, 0, len(transcript))
		for _, m := range transcript {
			out = append(out, m.Clone())
		}
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	if c.hist != nil {
		if msgs, found := c.hist.History(conversationID); found {
			c.mu.Lock()
			c.activeConv = conversationID
			c.transcripts[conversationID] = append([]chat.Message(nil), msgs...)
			c.mu.Unlock()
			return msgs, nil
		}
	}
	return nil, fmt.Errorf("conversation %s not found", conversationID)
}

// GenerateChecklist 为指定话题生成清单。
func (c *Client) GenerateChecklist(ctx context.Context, eventID, topic string) (*chat.Checklist, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.systemPrompt(topic)),
			openai.UserMessage(fmt.Sprintf(
				"Build a practical %s checklist for this event by calling %s.", topic, fnBuildChecklist)),
		},
		Tools: payloadTools(),
	}

	stream := c.api.Chat.Completions.NewStreaming(ctx, params)
	collector := newToolCallCollector()
	for stream.Next() {
		chunk := stream.Current()
		for _, choice := range chunk.Choices {
			for _, call := range choice.Delta.ToolCalls {
				collector.Add(call.ID, call.Function.Name, call.Function.Arguments)
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}
	for _, call := range collector.Flush() {
		if call.Name == fnBuildChecklist {
			cl, err := decodeChecklist(call.Args)
			if err != nil {
				return nil, err
			}
			cl.Topic = topic
			return cl, nil
		}
	}
	return nil, errors.New("model returned no checklist")
}

func (c *Client) beginTurn(message string) (string, []chat.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// 最近活跃的对话即当前对话；没有则新建。
	convID := c.activeConv
	if convID == "" {
		convID = uuid.NewString()
		c.activeConv = convID
	}
	userMsg := chat.Message{
		ID:        uuid.NewString(),
		Content:   message,
		Author:    chat.AuthorUser,
		CreatedAt: time.Now(),
	}
	c.transcripts[convID] = append(c.transcripts[convID], userMsg)
	history := append([]chat.Message(nil), c.transcripts[convID]...)
	return convID, history
}

func (c *Client) recordAssistant(convID, content string) {
	if strings.TrimSpace(content) == "" {
		return
	}
	c.mu.Lock()
	c.transcripts[convID] = append(c.transcripts[convID], chat.Message{
		ID:        uuid.NewString(),
		Content:   content,
		Author:    chat.AuthorAssistant,
		CreatedAt: time.Now(),
	})
	c.mu.Unlock()
}

func (c *Client) buildMessages(history []chat.Message, topic string) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	out = append(out, openai.SystemMessage(c.systemPrompt(topic)))
	for _, msg := range history {
		switch msg.Author {
		case chat.AuthorAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

func (c *Client) systemPrompt(topic string) string {
	var sb strings.Builder
	sb.WriteString("You are an event-planning assistant. Event: ")
	sb.WriteString(c.event.Name)
	sb.WriteString(" (" + c.event.Category + ")")
	if !c.event.Start.IsZero() {
		sb.WriteString(", starting " + c.event.Start.Format(time.RFC1123))
	}
	sb.WriteString(".")
	if topic != "" {
		sb.WriteString(" Current topic: " + topic + ".")
	}
	sb.WriteString(" When you want to propose concrete changes to the user's tasks, agenda, expenses or budget, call ")
	sb.WriteString(fnSuggestActions)
	sb.WriteString(". When asked for a checklist, call ")
	sb.WriteString(fnBuildChecklist)
	sb.WriteString(".")
	return sb.String()
}

func payloadTools() []openai.ChatCompletionToolUnionParam {
	itemSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":            map[string]any{"type": "string"},
			"description":      map[string]any{"type": "string"},
			"category":         map[string]any{"type": "string"},
			"amount_minor":     map[string]any{"type": "integer"},
			"start_time":       map[string]any{"type": "string", "description": "HH:MM"},
			"duration_minutes": map[string]any{"type": "integer"},
			"existing_item_id": map[string]any{"type": "string"},
			"new_title":        map[string]any{"type": "string"},
			"new_description":  map[string]any{"type": "string"},
		},
	}
	return []openai.ChatCompletionToolUnionParam{
		{
			OfFunction: &openai.ChatCompletionFunctionToolParam{
				Function: shared.FunctionDefinitionParam{
					Name:        fnSuggestActions,
					Description: openai.String("Propose bulk changes to tasks, agenda, expenses or budget; requires user confirmation."),
					Parameters: map[string]any{
						"type": "object",
						"properties": map[string]any{
							"action_type": map[string]any{
								"type": "string",
								"enum": []string{
									"add_tasks", "remove_tasks", "update_tasks",
									"add_agenda", "remove_agenda", "update_agenda",
									"add_expenses", "remove_expenses", "update_expenses",
									"update_budget",
								},
							},
							"prompt":        map[string]any{"type": "string"},
							"confirm_label": map[string]any{"type": "string"},
							"decline_label": map[string]any{"type": "string"},
							"hint":          map[string]any{"type": "string"},
							"items":         map[string]any{"type": "array", "items": itemSchema},
						},
						"required": []string{"action_type", "items"},
					},
				},
			},
		},
		{
			OfFunction: &openai.ChatCompletionFunctionToolParam{
				Function: shared.FunctionDefinitionParam{
					Name:        fnBuildChecklist,
					Description: openai.String("Produce an itemized checklist for the requested topic."),
					Parameters: map[string]any{
						"type": "object",
						"properties": map[string]any{
							"title":       map[string]any{"type": "string"},
							"description": map[string]any{"type": "string"},
							"topic":       map[string]any{"type": "string"},
							"items": map[string]any{
								"type": "array",
								"items": map[string]any{
									"type": "object",
									"properties": map[string]any{
										"text": map[string]any{"type": "string"},
									},
								},
							},
						},
						"required": []string{"title", "items"},
					},
				},
			},
		},
	}
}
