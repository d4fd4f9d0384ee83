package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fiesta-cli/internal/archive"
	"fiesta-cli/internal/chat"
	"fiesta-cli/internal/logger"
	"fiesta-cli/internal/planner"
)

type Options struct {
	Engine  *chat.Engine
	Event   planner.Event
	Archive *archive.Store
	Prompts *archive.PromptHistory
	Topic   string
}

// storeChangedMsg 表示消息存储有更新，需要重绘对话区。
type storeChangedMsg struct{}

// storeClosedMsg 表示引擎已关闭，订阅结束。
type storeClosedMsg struct{}

// noticeMsg 是状态栏上的一次性提示。
type noticeMsg string

// actionFailedMsg 携带后台操作错误。
type actionFailedMsg struct{ err error }

type Model struct {
	engine  *chat.Engine
	event   planner.Event
	archive *archive.Store
	prompts *archive.PromptHistory

	textarea textarea.Model
	viewport viewport.Model
	spin     spinner.Model
	history  promptHistory

	sub    <-chan struct{}
	topic  string
	notice string
	width  int
	height int
	log    *logger.LogEntry

	transcriptDirty bool
}

func New(opts Options) *Model {
	ti := textarea.New()
	ti.Placeholder = "Ask about your event…"
	ti.Prompt = "› "
	ti.CharLimit = 0
	ti.SetWidth(90)
	ti.SetHeight(1)
	ti.ShowLineNumbers = false
	ti.Focus()

	vp := viewport.New(90, 18)

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#E86FA8"))

	m := &Model{
		engine:          opts.Engine,
		event:           opts.Event,
		archive:         opts.Archive,
		prompts:         opts.Prompts,
		textarea:        ti,
		viewport:        vp,
		spin:            spin,
		sub:             opts.Engine.Store().Subscribe(),
		topic:           opts.Topic,
		width:           90,
		height:          24,
		log:             logger.Named("tui"),
		transcriptDirty: true,
	}
	if opts.Prompts != nil {
		if entries, err := opts.Prompts.Load(); err == nil {
			m.history.Set(entries)
		}
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	m.engine.Start(context.Background())
	return tea.Batch(m.listenStore(), m.spin.Tick)
}

func (m *Model) listenStore() tea.Cmd {
	sub := m.sub
	return func() tea.Msg {
		if _, ok := <-sub; !ok {
			return storeClosedMsg{}
		}
		return storeChangedMsg{}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case storeChangedMsg:
		m.transcriptDirty = true
		return m, m.listenStore()
	case storeClosedMsg:
		return m, tea.Quit
	case noticeMsg:
		m.notice = string(msg)
		m.transcriptDirty = true
		return m, nil
	case actionFailedMsg:
		// 引擎已把用户可见文案写进状态，细节只进日志
		m.log.WithField("err", msg.err).Warn("background operation failed")
		m.transcriptDirty = true
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.engine.Close()
		return m, tea.Quit
	case tea.KeyEsc:
		if m.engine.Status().Typing {
			m.engine.CancelTurn()
			m.notice = "turn cancelled"
			m.transcriptDirty = true
			return m, nil
		}
		m.engine.ClearError()
		m.notice = ""
		m.transcriptDirty = true
		return m, nil
	case tea.KeyEnter:
		if msg.Alt {
			break // Alt+Enter 换行
		}
		return m.submit()
	case tea.KeyUp:
		if text, ok := m.history.Prev(m.textarea.Value()); ok {
			m.textarea.SetValue(text)
			m.textarea.CursorEnd()
			return m, nil
		}
	case tea.KeyDown:
		if text, ok := m.history.Next(); ok {
			m.textarea.SetValue(text)
			m.textarea.CursorEnd()
			return m, nil
		}
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return m, nil
	}
	m.textarea.Reset()
	m.notice = ""

	if cmd, args, ok := parseCommand(input); ok {
		return m, m.runCommand(cmd, args)
	}

	m.history.Add(input)
	if m.prompts != nil {
		if err := m.prompts.Append(input); err != nil {
			m.log.WithField("err", err).Warn("prompt history write failed")
		}
	}
	m.engine.SendMessage(input, m.topic)
	m.transcriptDirty = true
	return m, nil
}

func (m *Model) runCommand(cmd Command, args []string) tea.Cmd {
	switch cmd {
	case CommandApply:
		msgID, ok := m.latestActionMessage()
		if !ok {
			return notice("nothing to apply")
		}
		return m.background(func() error {
			return m.engine.ApplySuggestedAction(context.Background(), msgID)
		}, "changes applied")
	case CommandDecline:
		msgID, ok := m.latestActionMessage()
		if !ok {
			return notice("nothing to decline")
		}
		m.engine.DeclineSuggestedAction(msgID)
		return notice("suggestion dismissed")
	case CommandCheck:
		if len(args) == 0 {
			return notice("usage: /check <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return notice("usage: /check <n>")
		}
		msgID, itemID, ok := m.checklistItemAt(n - 1)
		if !ok {
			return notice("no such checklist item")
		}
		// 远端同步不能在事件循环里做，乐观翻转由 store 通知驱动渲染。
		return func() tea.Msg {
			m.engine.ToggleChecklistItem(context.Background(), msgID, itemID)
			return nil
		}
	case CommandAddItems:
		msgID, ok := m.latestChecklistMessage()
		if !ok {
			return notice("no checklist on screen")
		}
		return m.background(func() error {
			return m.engine.AddChecklistItems(context.Background(), msgID)
		}, "items added")
	case CommandTopic:
		if len(args) == 0 {
			return notice("usage: /topic <name>")
		}
		topic := strings.ToLower(args[0])
		m.topic = topic
		return m.background(func() error {
			return m.engine.SelectTopic(context.Background(), topic)
		}, "topic: "+topic)
	case CommandSave:
		return m.toggleSave()
	case CommandSaved:
		return m.listSaved()
	case CommandLoad:
		if len(args) == 0 {
			return notice("usage: /load <id>")
		}
		return m.background(func() error {
			return m.engine.LoadConversation(context.Background(), args[0])
		}, "conversation loaded")
	case CommandCopy:
		return m.copyLastReply()
	case CommandHelp:
		return notice(helpText())
	case CommandQuit, CommandExit:
		m.engine.Close()
		return tea.Quit
	default:
		return notice(fmt.Sprintf("unknown command /%s, try /help", cmd))
	}
}

// background 在 tea.Cmd 中执行引擎操作；失败时引擎自己设置用户可见错误。
func (m *Model) background(fn func() error, success string) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return actionFailedMsg{err: err}
		}
		return noticeMsg(success)
	}
}

func notice(text string) tea.Cmd {
	return func() tea.Msg { return noticeMsg(text) }
}

func (m *Model) toggleSave() tea.Cmd {
	wasSaved := m.engine.Status().Saved
	return func() tea.Msg {
		if err := m.engine.ToggleSaveConversation(context.Background()); err != nil {
			return actionFailedMsg{err: err}
		}
		if wasSaved {
			return noticeMsg("conversation unsaved")
		}
		m.mirrorConversation()
		return noticeMsg("conversation saved")
	}
}

// mirrorConversation 在本地存档写一份镜像，离线时也能浏览。
func (m *Model) mirrorConversation() {
	if m.archive == nil {
		return
	}
	convID := m.engine.ConversationID()
	if convID == "" {
		return
	}
	msgs := m.engine.Store().Messages()
	title := ""
	for _, msg := range msgs {
		if msg.Author == chat.AuthorUser {
			title = msg.Preview(60)
			break
		}
	}
	rec := archive.Record{
		EventID:        m.event.ID,
		ConversationID: convID,
		Title:          title,
		Messages:       msgs,
	}
	if existing, ok, _ := m.archive.FindByConversation(convID); ok {
		rec.ID = existing.ID
	}
	if _, err := m.archive.Save(rec); err != nil {
		m.log.WithField("err", err).Warn("local mirror failed")
	}
}

func (m *Model) listSaved() tea.Cmd {
	return func() tea.Msg {
		if err := m.engine.RefreshSavedConversations(context.Background()); err != nil {
			return actionFailedMsg{err: err}
		}
		list := m.engine.SavedConversations()
		if len(list) == 0 {
			return noticeMsg("no saved conversations")
		}
		var sb strings.Builder
		sb.WriteString("Saved conversations:\n")
		for _, rec := range list {
			sb.WriteString("  " + rec.ConversationID)
			if rec.Title != "" {
				sb.WriteString("  " + rec.Title)
			}
			sb.WriteByte('\n')
		}
		sb.WriteString("Use /load <id> to open one.")
		return noticeMsg(sb.String())
	}
}

func (m *Model) copyLastReply() tea.Cmd {
	msgs := m.engine.Store().Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Author == chat.AuthorAssistant && msgs[i].Content != "" {
			text := msgs[i].Content
			return func() tea.Msg {
				if err := clipboard.WriteAll(text); err != nil {
					return actionFailedMsg{err: err}
				}
				return noticeMsg("copied to clipboard")
			}
		}
	}
	return notice("nothing to copy")
}

// latestActionMessage 找到最近一条带未处理建议操作的消息。
func (m *Model) latestActionMessage() (string, bool) {
	msgs := m.engine.Store().Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Action.Valid() && !msgs[i].ActionApplied {
			return msgs[i].ID, true
		}
	}
	return "", false
}

// latestChecklistMessage 找到最近一条带清单的消息。
func (m *Model) latestChecklistMessage() (string, bool) {
	msgs := m.engine.Store().Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Checklist != nil {
			return msgs[i].ID, true
		}
	}
	return "", false
}

// checklistItemAt 返回最近清单中第 idx 条（从 0 起）的定位。
func (m *Model) checklistItemAt(idx int) (msgID, itemID string, ok bool) {
	msgs := m.engine.Store().Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		cl := msgs[i].Checklist
		if cl == nil {
			continue
		}
		if idx < 0 || idx >= len(cl.Items) {
			return "", "", false
		}
		return msgs[i].ID, cl.Items[idx].ID, true
	}
	return "", "", false
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.textarea.SetWidth(width - 2)
	m.viewport.Width = width
	m.viewport.Height = max(4, height-m.textarea.Height()-4)
	m.transcriptDirty = true
}
