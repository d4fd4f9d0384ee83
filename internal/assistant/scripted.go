package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fiesta-cli/internal/chat"
)

// Scripted 是离线用的 Streamer：不访问网络，把用户输入按词切成增量回放。
// 主要供 --offline 模式和集成测试使用。
type Scripted struct {
	// Delay 为相邻增量之间的间隔，零值表示立即投递。
	Delay time.Duration
	// Events 非空时按原样回放，忽略输入；用于构造特定事件序列。
	Events []chat.TurnEvent

	convID string
}

var _ chat.Streamer = (*Scripted)(nil)

func (s *Scripted) SendTurn(ctx context.Context, eventID, message, topic string) (<-chan chat.TurnEvent, error) {
	if s.convID == "" {
		s.convID = uuid.NewString()
	}
	events := s.Events
	if len(events) == 0 {
		events = s.echoEvents(message)
	}
	out := make(chan chat.TurnEvent, len(events))
	go func() {
		defer close(out)
		for _, ev := range events {
			if s.Delay > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(s.Delay):
				}
			}
			select {
			case <-ctx.Done():
				return
			case out <- ev:
			}
		}
	}()
	return out, nil
}

func (s *Scripted) echoEvents(message string) []chat.TurnEvent {
	reply := fmt.Sprintf("You said: %s", message)
	events := make([]chat.TurnEvent, 0, 4)
	for _, word := range strings.SplitAfter(reply, " ") {
		events = append(events, chat.TurnEvent{
			Kind:           chat.TurnEventDelta,
			Delta:          word,
			ConversationID: s.convID,
		})
	}
	events = append(events, chat.TurnEvent{
		Kind:           chat.TurnEventComplete,
		ConversationID: s.convID,
	})
	return events
}

func (s *Scripted) GetHints(ctx context.Context, eventID, conversationID, lastTopic string) (chat.Hints, error) {
	return chat.Hints{
		Primary:   "What should we plan first?",
		Suggested: []string{"Draft a task list", "Sketch the agenda", "Set a budget"},
	}, nil
}

func (s *Scripted) GetHistory(ctx context.Context, eventID, conversationID string) ([]chat.Message, error) {
	return nil, fmt.Errorf("conversation %s not found", conversationID)
}

func (s *Scripted) GenerateChecklist(ctx context.Context, eventID, topic string) (*chat.Checklist, error) {
	items := []chat.ChecklistItem{
		{ID: uuid.NewString(), Text: "Confirm the guest count"},
		{ID: uuid.NewString(), Text: "Book the venue"},
		{ID: uuid.NewString(), Text: "Send invitations"},
	}
	return &chat.Checklist{
		ID:    uuid.NewString(),
		Title: fmt.Sprintf("Checklist: %s", topic),
		Topic: topic,
		Items: items,
	}, nil
}
