package terminal

import (
	"fmt"
	"strconv"
	"strings"
)

type commandKind int

const (
	cmdText commandKind = iota
	cmdQuit
	cmdHelp
	cmdLogout
	cmdProfile
	cmdQuestionnaire
	cmdSubmit
	cmdProgress
	cmdSelect
)

type command struct {
	kind     commandKind
	question int
	option   int
	// text is the raw line, whatever the kind.
	text string
}

var keywords = map[string]commandKind{
	"quit":          cmdQuit,
	"exit":          cmdQuit,
	"help":          cmdHelp,
	"?":             cmdHelp,
	"logout":        cmdLogout,
	"profile":       cmdProfile,
	"questionnaire": cmdQuestionnaire,
	"submit":        cmdSubmit,
	"progress":      cmdProgress,
}

// parseCommand reads one input line. Lines that are not a known command are
// cmdText; the login page treats them as the passcode.
func parseCommand(line string) (command, error) {
	c := command{kind: cmdText, text: line}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return c, nil
	}

	if kind, ok := keywords[strings.ToLower(fields[0])]; ok && len(fields) == 1 {
		c.kind = kind
		return c, nil
	}

	if len(fields) == 2 {
		question, qerr := strconv.Atoi(fields[0])
		option, oerr := strconv.Atoi(fields[1])
		switch {
		case qerr == nil && oerr == nil:
			c.kind = cmdSelect
			c.question = question
			c.option = option
		case qerr == nil:
			return c, fmt.Errorf("option must be a number, got %q", fields[1])
		}
	}

	return c, nil
}
