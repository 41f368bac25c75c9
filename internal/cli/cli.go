// Package cli parses murmur's command line into a Parsed invocation.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

type Command string

const (
	CommandRun     Command = "run"
	CommandSay     Command = "say"
	CommandParse   Command = "parse"
	CommandRepl    Command = "repl"
	CommandVocab   Command = "vocab"
	CommandStatus  Command = "status"
	CommandReload  Command = "reload"
	CommandDevices Command = "devices"
	CommandDoctor  Command = "doctor"
	CommandVersion Command = "version"
	CommandHelp    Command = "help"
)

// Parsed is one resolved invocation.
type Parsed struct {
	Command    Command
	ConfigPath string
	ShowHelp   bool

	// Words is the utterance for say and parse, joined with single spaces.
	Words string
	// DryRun plans say without injecting anything.
	DryRun bool
	// GRPCAddr sends say to a daemon's gRPC listener instead of the socket.
	GRPCAddr string
	// Verbose mirrors the runtime log to stderr.
	Verbose bool
	// Speech makes vocab print boosted speech phrases instead of tags.
	Speech bool
}

// Parse maps args onto a Parsed invocation. It never runs a command.
func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}

	set := func(cmd Command) func(*cobra.Command, []string) error {
		return func(_ *cobra.Command, positional []string) error {
			parsed.Command = cmd
			parsed.ShowHelp = false
			parsed.Words = strings.Join(strings.Fields(strings.Join(positional, " ")), " ")
			return nil
		}
	}

	var showVersion bool
	root := &cobra.Command{
		Use:           "murmur",
		Short:         "Resolve spoken commands into keystrokes and text",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if showVersion {
				parsed.Command = CommandVersion
				parsed.ShowHelp = false
			}
			return nil
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetHelpFunc(func(*cobra.Command, []string) {
		parsed.Command = CommandHelp
		parsed.ShowHelp = true
	})

	root.PersistentFlags().StringVar(&parsed.ConfigPath, "config", "", "config file path")
	root.Flags().BoolVar(&showVersion, "version", false, "show version")

	runCmd := &cobra.Command{Use: "run", Args: cobra.NoArgs, RunE: set(CommandRun)}
	runCmd.Flags().BoolVarP(&parsed.Verbose, "verbose", "v", false, "mirror the log to stderr")

	sayCmd := &cobra.Command{Use: "say WORDS...", Args: cobra.MinimumNArgs(1), RunE: set(CommandSay)}
	sayCmd.Flags().BoolVar(&parsed.DryRun, "dry-run", false, "plan without injecting")
	sayCmd.Flags().StringVar(&parsed.GRPCAddr, "grpc", "", "send to a daemon gRPC address")

	vocabCmd := &cobra.Command{Use: "vocab", Args: cobra.NoArgs, RunE: set(CommandVocab)}
	vocabCmd.Flags().BoolVar(&parsed.Speech, "speech", false, "print boosted speech phrases")

	root.AddCommand(
		runCmd,
		sayCmd,
		&cobra.Command{Use: "parse WORDS...", Args: cobra.MinimumNArgs(1), RunE: set(CommandParse)},
		&cobra.Command{Use: "repl", Args: cobra.NoArgs, RunE: set(CommandRepl)},
		vocabCmd,
		&cobra.Command{Use: "status", Args: cobra.NoArgs, RunE: set(CommandStatus)},
		&cobra.Command{Use: "reload", Args: cobra.NoArgs, RunE: set(CommandReload)},
		&cobra.Command{Use: "devices", Args: cobra.NoArgs, RunE: set(CommandDevices)},
		&cobra.Command{Use: "doctor", Args: cobra.NoArgs, RunE: set(CommandDoctor)},
		&cobra.Command{Use: "version", Args: cobra.NoArgs, RunE: set(CommandVersion)},
	)

	if err := root.Execute(); err != nil {
		return Parsed{}, err
	}
	return parsed, nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config PATH] <command> [args]

Commands:
  run       Load the grammar and serve utterances until interrupted
  say       Resolve and execute WORDS (via the daemon when one is running)
  parse     Print the plan for WORDS without executing anything
  repl      Read utterances line by line from stdin and execute them
  vocab     Print every registered phrase by tag
  status    Print the daemon state
  reload    Recompile the grammar in the running daemon
  devices   List audio sinks available for cues
  doctor    Run configuration and environment checks
  version   Print version information
  help      Show this help

Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/murmur/config.jsonc)
  -h, --help      Show help
  --version       Show version

run flags:
  -v, --verbose   Mirror the JSONL log to stderr

say flags:
  --dry-run       Print the plan instead of executing
  --grpc ADDR     Send to a daemon's gRPC listener

vocab flags:
  --speech        Print boosted speech phrases (phrase<TAB>boost)
`, binaryName)
}
