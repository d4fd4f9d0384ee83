package chat

import "sync"

// Store 是一屏对话独占的消息序列。除了对流式占位消息的整体替换，
// 序列只追加。所有变更都经由同一把锁，满足单写者要求。
type Store struct {
	mu     sync.Mutex
	msgs   []Message
	subs   []chan struct{}
	closed bool
}

// NewStore 创建空的消息存储。
func NewStore() *Store {
	return &Store{}
}

// Append 追加一条消息并通知订阅者。
func (s *Store) Append(msg Message) {
	s.mu.Lock()
	s.msgs = append(s.msgs, msg.Clone())
	s.notifyLocked()
	s.mu.Unlock()
}

// Replace 按 id 整体替换消息。未知 id 时静默忽略。
func (s *Store) Replace(id string, msg Message) {
	s.mu.Lock()
	for i := range s.msgs {
		if s.msgs[i].ID == id {
			s.msgs[i] = msg.Clone()
			s.notifyLocked()
			break
		}
	}
	s.mu.Unlock()
}

// Reset 整体替换消息序列（加载历史对话时使用）。
func (s *Store) Reset(msgs []Message) {
	s.mu.Lock()
	s.msgs = make([]Message, 0, len(msgs))
	for _, m := range msgs {
		s.msgs = append(s.msgs, m.Clone())
	}
	s.notifyLocked()
	s.mu.Unlock()
}

// Find 按 id 查找消息，返回副本。
func (s *Store) Find(id string) (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.msgs {
		if s.msgs[i].ID == id {
			return s.msgs[i].Clone(), true
		}
	}
	return Message{}, false
}

// Messages 返回当前全部消息的快照。
func (s *Store) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, 0, len(s.msgs))
	for i := range s.msgs {
		out = append(out, s.msgs[i].Clone())
	}
	return out
}

// Len 返回消息数量。
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.msgs)
}

// Last 返回最后一条消息的副本。
func (s *Store) Last() (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.msgs) == 0 {
		return Message{}, false
	}
	return s.msgs[len(s.msgs)-1].Clone(), true
}

// Subscribe 返回变更通知通道。通知只表示"有变化"，
// 订阅者需要自行拉取快照；慢消费者的通知会被合并丢弃。
func (s *Store) Subscribe() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	ch := make(chan struct{}, 1)
	s.subs = append(s.subs, ch)
	return ch
}

// Close 关闭全部订阅通道。
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
	s.closed = true
}

func (s *Store) notify() {
	s.mu.Lock()
	s.notifyLocked()
	s.mu.Unlock()
}

func (s *Store) notifyLocked() {
	if s.closed {
		return
	}
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
