package flow

import "strings"

// Command is a reserved in-session token. Commands are intercepted before
// normal turn processing and never append history entries.
type Command int

const (
	CommandNone Command = iota
	CommandExit
	CommandSave
	CommandHelp
	CommandBack
)

// ParseCommand matches input against the reserved tokens, case-insensitively.
func ParseCommand(input string) (Command, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "exit":
		return CommandExit, true
	case "save":
		return CommandSave, true
	case "help":
		return CommandHelp, true
	case "back":
		return CommandBack, true
	}
	return CommandNone, false
}

func (c Command) String() string {
	switch c {
	case CommandExit:
		return "exit"
	case CommandSave:
		return "save"
	case CommandHelp:
		return "help"
	case CommandBack:
		return "back"
	}
	return "none"
}
