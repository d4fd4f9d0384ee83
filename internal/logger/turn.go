package logger

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// TurnLogger 负责输出与助手后端交互的请求、流式分片与错误信息。
type TurnLogger interface {
	Request(model, eventID, text string)
	Chunk(model string, chunk string, index int)
	Complete(model string, chunks int)
	Error(model string, err error)
}

// TurnLog 是全局唯一的助手流量日志器实例。
var TurnLog TurnLogger = NewTurnLogger(nil)

// SetTurnLogger 覆盖全局实例，传入 nil 将重置为默认实现。
func SetTurnLogger(l TurnLogger) {
	if l == nil {
		l = NewTurnLogger(nil)
	}
	TurnLog = l
}

// StdTurnLogger 使用 logrus 输出日志。
type StdTurnLogger struct {
	entry *logrus.Entry
}

// NewTurnLogger 构造默认的助手流量日志记录器。
func NewTurnLogger(l *Logger) *StdTurnLogger {
	if l == nil {
		l = root()
	}
	return &StdTurnLogger{entry: logrus.NewEntry(l).WithField("component", "assistant")}
}

// Request 记录一次 turn 请求。
func (l *StdTurnLogger) Request(model, eventID, text string) {
	if l == nil || l.entry == nil {
		return
	}
	l.entry.Infof("-> turn model=%s event=%s text=%s", model, eventID, flatten(text))
}

// Chunk 记录流式响应的单个分片。
func (l *StdTurnLogger) Chunk(model string, chunk string, index int) {
	if l == nil || l.entry == nil {
		return
	}
	if !l.entry.Logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	l.entry.Debugf("<- chunk model=%s seq=%d text=%s", model, index, flatten(chunk))
}

// Complete 记录流式响应完成。
func (l *StdTurnLogger) Complete(model string, chunks int) {
	if l == nil || l.entry == nil {
		return
	}
	l.entry.Infof("<- turn completed model=%s chunks=%d", model, chunks)
}

// Error 记录请求错误。
func (l *StdTurnLogger) Error(model string, err error) {
	if l == nil || l.entry == nil {
		return
	}
	l.entry.Errorf("!! turn error model=%s err=%v", model, err)
}

// NoopTurnLogger 忽略所有日志输出，测试时使用。
type NoopTurnLogger struct{}

func (NoopTurnLogger) Request(model, eventID, text string)    {}
func (NoopTurnLogger) Chunk(model string, chunk string, i int) {}
func (NoopTurnLogger) Complete(model string, chunks int)       {}
func (NoopTurnLogger) Error(model string, err error)           {}

func flatten(text string) string {
	text = strings.ReplaceAll(text, "\n", `\n`)
	text = strings.ReplaceAll(text, "\r", `\r`)
	return text
}
