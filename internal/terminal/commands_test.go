package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want command
	}{
		{"quit", command{kind: cmdQuit}},
		{"  EXIT ", command{kind: cmdQuit}},
		{"help", command{kind: cmdHelp}},
		{"logout", command{kind: cmdLogout}},
		{"profile", command{kind: cmdProfile}},
		{"questionnaire", command{kind: cmdQuestionnaire}},
		{"submit", command{kind: cmdSubmit}},
		{"progress", command{kind: cmdProgress}},
		{"3 2", command{kind: cmdSelect, question: 3, option: 2}},
		{" 17   4 ", command{kind: cmdSelect, question: 17, option: 4}},
		{"AB12CD", command{kind: cmdText}},
		{"logout now", command{kind: cmdText}},
		{"", command{kind: cmdText}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseCommand(tt.line)
			require.NoError(t, err)

			tt.want.text = tt.line
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand_BadOption(t *testing.T) {
	got, err := parseCommand("3 two")
	require.Error(t, err)
	assert.Equal(t, cmdText, got.kind)
	assert.Equal(t, "3 two", got.text)
}
