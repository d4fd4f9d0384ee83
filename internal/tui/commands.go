package tui

import "strings"

// Command 标识内置斜杠命令。
type Command string

const (
	CommandApply    Command = "apply"
	CommandDecline  Command = "decline"
	CommandCheck    Command = "check"
	CommandAddItems Command = "additems"
	CommandTopic    Command = "topic"
	CommandSave     Command = "save"
	CommandSaved    Command = "saved"
	CommandLoad     Command = "load"
	CommandCopy     Command = "copy"
	CommandHelp     Command = "help"
	CommandQuit     Command = "quit"
	CommandExit     Command = "exit"
)

// commandHelp 以展示顺序列出全部命令及其说明。
var commandHelp = []struct {
	Name  Command
	Usage string
	Desc  string
}{
	{CommandApply, "/apply", "apply the latest suggested changes"},
	{CommandDecline, "/decline", "dismiss the latest suggested changes"},
	{CommandCheck, "/check <n>", "toggle the n-th checklist item"},
	{CommandAddItems, "/additems", "turn unchecked checklist items into records"},
	{CommandTopic, "/topic <name>", "switch topic and request a checklist"},
	{CommandSave, "/save", "save or unsave this conversation"},
	{CommandSaved, "/saved", "list saved conversations"},
	{CommandLoad, "/load <id>", "load a saved conversation"},
	{CommandCopy, "/copy", "copy the last reply to the clipboard"},
	{CommandHelp, "/help", "show this help"},
	{CommandQuit, "/quit", "exit"},
}

// parseCommand 解析一行输入。不是斜杠命令时 ok 为 false。
func parseCommand(input string) (cmd Command, args []string, ok bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return "", nil, false
	}
	fields := strings.Fields(input[1:])
	if len(fields) == 0 {
		return "", nil, false
	}
	return Command(strings.ToLower(fields[0])), fields[1:], true
}

func helpText() string {
	var sb strings.Builder
	sb.WriteString("Commands:\n")
	for _, c := range commandHelp {
		sb.WriteString("  ")
		sb.WriteString(c.Usage)
		for i := len(c.Usage); i < 16; i++ {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.Desc)
		sb.WriteByte('\n')
	}
	return sb.String()
}
