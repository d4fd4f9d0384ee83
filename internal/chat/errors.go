package chat

import "errors"

var (
	// ErrTurnFailed 表示远端在一次 turn 中返回了错误终态。
	// 本地恢复为固定致歉消息，对会话永不致命。
	ErrTurnFailed = errors.New("assistant turn failed")

	// ErrEngineClosed 表示引擎已随界面销毁而关闭。
	ErrEngineClosed = errors.New("chat engine closed")
)

// apologyText 是 turn 失败时替换占位消息的固定文案。
const apologyText = "Sorry, I couldn't process your message. Please try again."
