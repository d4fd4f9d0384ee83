package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"fiesta-cli/internal/chat"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E86FA8"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D7A85"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4FA8E8"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E86FA8"))
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	hintStyle      = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#9A8FB8"))
	toolStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8AC26E"))
	actionStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#E86FA8")).
			Padding(0, 1)
)

func (m *Model) View() string {
	if m.transcriptDirty {
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		m.transcriptDirty = false
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderStatus(),
		m.textarea.View(),
	)
}

func (m *Model) renderHeader() string {
	left := headerStyle.Render("Fiesta")
	info := []string{m.event.Name}
	if m.topic != "" {
		info = append(info, "topic: "+m.topic)
	}
	if m.engine.Status().Saved {
		info = append(info, "saved ★")
	}
	right := dimStyle.Render(strings.Join(info, " • "))
	return left + "  " + right
}

func (m *Model) renderStatus() string {
	st := m.engine.Status()
	switch {
	case st.Err != "":
		return errStyle.Render(st.Err) + dimStyle.Render("  (Esc to dismiss)")
	case st.Typing:
		return m.spin.View() + dimStyle.Render(" thinking… (Esc to cancel)")
	case m.notice != "":
		return dimStyle.Render(m.notice)
	case st.Hint != "":
		return hintStyle.Render("💡 " + st.Hint)
	default:
		return dimStyle.Render("Enter to send • /help for commands")
	}
}

func (m *Model) renderTranscript() string {
	width := m.viewport.Width - 2
	if width < 10 {
		width = 10
	}
	var sb strings.Builder
	for _, msg := range m.engine.Store().Messages() {
		sb.WriteString(m.renderMessage(msg, width))
		sb.WriteByte('\n')
	}
	if sb.Len() == 0 {
		return dimStyle.Render(fmt.Sprintf("Planning %s — ask me anything.", m.event.Name))
	}
	return sb.String()
}

func (m *Model) renderMessage(msg chat.Message, width int) string {
	var sb strings.Builder
	if msg.Author == chat.AuthorUser {
		sb.WriteString(userStyle.Render("You") + "\n")
	} else {
		sb.WriteString(assistantStyle.Render("Fiesta") + "\n")
	}

	for _, tool := range msg.ToolExecutions {
		sb.WriteString(toolStyle.Render("  ⚙ "+toolLine(tool)) + "\n")
	}

	if msg.Typing && msg.Content == "" {
		sb.WriteString(dimStyle.Render("  …") + "\n")
		return sb.String()
	}
	for _, line := range wrapText(msg.Content, width) {
		sb.WriteString("  " + line + "\n")
	}

	if msg.Checklist != nil {
		sb.WriteString(renderChecklist(msg.Checklist, msg.ChecklistItemsAdded))
	}
	if msg.Action.Valid() {
		sb.WriteString(renderAction(msg.Action, msg.ActionApplied, width))
	}
	return sb.String()
}

func toolLine(tool chat.ToolExecution) string {
	status := string(tool.Status)
	switch tool.Status {
	case chat.ToolStatusInProgress:
		status = "running"
	case chat.ToolStatusSuccess:
		status = "done"
	}
	line := tool.ToolName + " — " + status
	if tool.Summary != "" {
		line += " (" + tool.Summary + ")"
	}
	return line
}

func renderChecklist(cl *chat.Checklist, added bool) string {
	var sb strings.Builder
	title := cl.Title
	if title == "" {
		title = "Checklist"
	}
	sb.WriteString("  " + headerStyle.Render(title) + "\n")
	for i, item := range cl.Items {
		box := "[ ]"
		if item.Checked {
			box = "[x]"
		}
		sb.WriteString(fmt.Sprintf("  %s %d. %s\n", box, i+1, item.Text))
	}
	if added {
		sb.WriteString(dimStyle.Render("  items added to your plan") + "\n")
	} else {
		sb.WriteString(dimStyle.Render("  /check <n> to tick • /additems to add the rest") + "\n")
	}
	return sb.String()
}

func renderAction(action *chat.SuggestedAction, applied bool, width int) string {
	var sb strings.Builder
	if action.Prompt != "" {
		sb.WriteString(action.Prompt + "\n")
	}
	for _, item := range action.Items {
		line := "• " + item.Title
		if item.NewTitle != "" {
			line = "• " + item.Title + " → " + item.NewTitle
		}
		if item.AmountMinor > 0 {
			line += fmt.Sprintf(" (%.2f)", float64(item.AmountMinor)/100)
		}
		sb.WriteString(line + "\n")
	}
	if applied {
		sb.WriteString(dimStyle.Render("handled"))
	} else {
		confirm := action.ConfirmLabel
		if confirm == "" {
			confirm = "apply"
		}
		decline := action.DeclineLabel
		if decline == "" {
			decline = "decline"
		}
		sb.WriteString(dimStyle.Render(fmt.Sprintf("/apply to %s • /decline to %s", confirm, decline)))
	}
	boxed := actionStyle.Width(minInt(width, 70)).Render(strings.TrimRight(sb.String(), "\n"))
	return "  " + strings.ReplaceAll(boxed, "\n", "\n  ") + "\n"
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
