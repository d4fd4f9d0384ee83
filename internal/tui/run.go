package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run 启动对话界面，阻塞到用户退出。
func Run(opts Options) error {
	if opts.Engine == nil {
		return errors.New("tui: engine is required")
	}
	program := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
