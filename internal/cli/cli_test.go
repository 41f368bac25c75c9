package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDefaultsToHelp(t *testing.T) {
	parsed, err := Parse(nil)
	require.NoError(t, err)
	require.True(t, parsed.ShowHelp)
	require.Equal(t, CommandHelp, parsed.Command)
}

func TestParseCommandWithConfig(t *testing.T) {
	parsed, err := Parse([]string{"--config", "/tmp/murmur.jsonc", "doctor"})
	require.NoError(t, err)
	require.Equal(t, CommandDoctor, parsed.Command)
	require.Equal(t, "/tmp/murmur.jsonc", parsed.ConfigPath)
	require.False(t, parsed.ShowHelp)
}

func TestParseSayCollectsWordsAndFlags(t *testing.T) {
	parsed, err := Parse([]string{"say", "--dry-run", "troll", " archie ", "twice"})
	require.NoError(t, err)
	require.Equal(t, CommandSay, parsed.Command)
	require.Equal(t, "troll archie twice", parsed.Words)
	require.True(t, parsed.DryRun)
	require.Empty(t, parsed.GRPCAddr)

	parsed, err = Parse([]string{"say", "--grpc", "127.0.0.1:7400", "snake my variable name"})
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:7400", parsed.GRPCAddr)
	require.Equal(t, "snake my variable name", parsed.Words)
}

func TestParseVocabSpeechFlag(t *testing.T) {
	parsed, err := Parse([]string{"vocab", "--speech"})
	require.NoError(t, err)
	require.Equal(t, CommandVocab, parsed.Command)
	require.True(t, parsed.Speech)

	parsed, err = Parse([]string{"vocab"})
	require.NoError(t, err)
	require.False(t, parsed.Speech)
}

func TestParseArgMatrix(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantErr  string
		wantCmd  Command
		wantHelp bool
		wantPath string
	}{
		{
			name:     "help short flag",
			args:     []string{"-h"},
			wantCmd:  CommandHelp,
			wantHelp: true,
		},
		{
			name:     "help long flag",
			args:     []string{"--help"},
			wantCmd:  CommandHelp,
			wantHelp: true,
		},
		{
			name:     "help command",
			args:     []string{"help"},
			wantCmd:  CommandHelp,
			wantHelp: true,
		},
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantCmd: CommandVersion,
		},
		{
			name:     "config after command",
			args:     []string{"status", "--config", "/tmp/cfg"},
			wantCmd:  CommandStatus,
			wantPath: "/tmp/cfg",
		},
		{
			name:    "run verbose",
			args:    []string{"run", "-v"},
			wantCmd: CommandRun,
		},
		{
			name:    "vocab speech",
			args:    []string{"vocab", "--speech"},
			wantCmd: CommandVocab,
		},
		{
			name:    "missing config path",
			args:    []string{"--config"},
			wantErr: "flag needs an argument",
		},
		{
			name:    "unknown flag",
			args:    []string{"--bogus"},
			wantErr: "unknown flag",
		},
		{
			name:    "unknown command",
			args:    []string{"nope"},
			wantErr: "unknown command",
		},
		{
			name:    "say without words",
			args:    []string{"say"},
			wantErr: "requires at least 1 arg",
		},
		{
			name:    "status with extra args",
			args:    []string{"status", "extra"},
			wantErr: "unknown command",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := Parse(tc.args)
			if tc.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.wantCmd, parsed.Command)
			require.Equal(t, tc.wantHelp, parsed.ShowHelp)
			require.Equal(t, tc.wantPath, parsed.ConfigPath)
		})
	}
}

func TestHelpTextListsCommands(t *testing.T) {
	help := HelpText("murmur")
	require.Contains(t, help, "Usage:")
	for _, cmd := range []string{"run", "say", "parse", "repl", "vocab", "status", "reload", "devices", "doctor", "version"} {
		require.Contains(t, help, "  "+cmd+" ")
	}
}
