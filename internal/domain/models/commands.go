package models

import "strings"

// CommandType enumerates supported chat command categories.
type CommandType string

const (
	CommandPlan     CommandType = "plan"
	CommandOptimize CommandType = "optimize"
	CommandPrices   CommandType = "prices"
	CommandPhases   CommandType = "phases"
	CommandHelp     CommandType = "help"
	CommandUnknown  CommandType = "unknown"
)

// Command represents a parsed instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command from free-form text. The keyword is matched
// case-insensitively; arguments keep their original case so ingredient names
// survive intact.
func ParseCommand(message string) Command {
	tokens := strings.Fields(message)
	cmd := Command{Raw: message}

	if len(tokens) == 0 {
		cmd.Type = CommandUnknown
		return cmd
	}

	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	switch CommandType(head) {
	case CommandPlan, CommandOptimize, CommandPrices, CommandPhases, CommandHelp:
		cmd.Type = CommandType(head)
	default:
		cmd.Type = CommandUnknown
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
