package chat

import (
	"sync"
	"time"

	"fiesta-cli/internal/logger"
)

// 提示语轮换间隔。
const hintRotateInterval = 8 * time.Second

// hintScheduler 独立轮换开场提示语。加载时先给出离线兜底提示，
// 服务端提示到达后开始轮换；turn 完成带来的上下文提示会永久
// 停止轮换并覆盖显示。Stop 之后所有入口都是 no-op。
type hintScheduler struct {
	mu       sync.Mutex
	hints    []string
	idx      int
	current  string
	overrode bool
	stopped  bool
	stopCh   chan struct{}
	interval time.Duration
	onChange func(string)
	log      *logger.LogEntry
}

func newHintScheduler(interval time.Duration, onChange func(string)) *hintScheduler {
	if interval <= 0 {
		interval = hintRotateInterval
	}
	return &hintScheduler{
		interval: interval,
		onChange: onChange,
		log:      logger.Named("hints"),
	}
}

// SetFallback 设置无网络依赖的兜底提示。
func (h *hintScheduler) SetFallback(hint string) {
	h.mu.Lock()
	if h.stopped || h.overrode || hint == "" {
		h.mu.Unlock()
		return
	}
	h.current = hint
	h.mu.Unlock()
	h.emit(hint)
}

// SetHints 接收服务端提示并开始轮换。空列表不改变现状。
func (h *hintScheduler) SetHints(hints Hints) {
	list := make([]string, 0, len(hints.Suggested)+1)
	if hints.Primary != "" {
		list = append(list, hints.Primary)
	}
	list = append(list, hints.Suggested...)
	if len(list) == 0 {
		return
	}

	h.mu.Lock()
	if h.stopped || h.overrode {
		h.mu.Unlock()
		return
	}
	h.hints = list
	h.idx = 0
	h.current = list[0]
	alreadyRunning := h.stopCh != nil
	if !alreadyRunning {
		h.stopCh = make(chan struct{})
		go h.rotate(h.stopCh)
	}
	h.mu.Unlock()
	h.emit(list[0])
}

// Override 用 turn 完成时的上下文提示替换显示并停止轮换。
// 轮换不会自动恢复。
func (h *hintScheduler) Override(hint string) {
	if hint == "" {
		return
	}
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.overrode = true
	h.current = hint
	stopCh := h.stopCh
	h.stopCh = nil
	h.mu.Unlock()
	if stopCh != nil {
		close(stopCh)
	}
	h.emit(hint)
}

// Current 返回当前显示的提示语。
func (h *hintScheduler) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Stop 终止轮换定时器。界面销毁时必须调用，避免悬挂任务。
func (h *hintScheduler) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	stopCh := h.stopCh
	h.stopCh = nil
	h.mu.Unlock()
	if stopCh != nil {
		close(stopCh)
	}
}

func (h *hintScheduler) rotate(stopCh chan struct{}) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			h.mu.Lock()
			if h.stopped || h.overrode || len(h.hints) == 0 {
				h.mu.Unlock()
				return
			}
			h.idx = (h.idx + 1) % len(h.hints)
			next := h.hints[h.idx]
			h.current = next
			h.mu.Unlock()
			h.emit(next)
		}
	}
}

func (h *hintScheduler) emit(hint string) {
	if h.onChange != nil {
		h.onChange(hint)
	}
}

// fallbackHint 按活动类别给出确定性的离线提示。
func fallbackHint(category string) string {
	switch category {
	case "wedding":
		return "Ask me to draft a wedding day timeline"
	case "birthday":
		return "Ask me for birthday party theme ideas"
	case "corporate":
		return "Ask me to plan a conference agenda"
	case "conference":
		return "Ask me to outline speaker sessions"
	default:
		return "Ask me anything about planning your event"
	}
}
