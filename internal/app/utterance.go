package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/rbright/murmur/internal/cli"
	"github.com/rbright/murmur/internal/config"
	"github.com/rbright/murmur/internal/ipc"
	"github.com/rbright/murmur/internal/rpc"
	"github.com/rbright/murmur/internal/session"
)

const replPrompt = "murmur> "

// outcome is the transport-neutral view of one resolved utterance.
type outcome struct {
	plan     []string
	commands []string
	failures []string
}

func outcomeFromResult(result session.Result) outcome {
	return outcome{
		plan:     result.Plan,
		commands: result.Commands,
		failures: session.FailureMessages(result.Report),
	}
}

func (r Runner) printOutcome(o outcome, dryRun bool) int {
	lines := o.plan
	if dryRun && len(o.commands) > 0 {
		lines = o.commands
	}
	for _, line := range lines {
		fmt.Fprintln(r.Stdout, line)
	}
	for _, failure := range o.failures {
		fmt.Fprintf(r.Stderr, "error: %s\n", failure)
	}
	if len(o.failures) > 0 {
		return 1
	}
	return 0
}

// commandParse prints the plan for words using only the compiled grammar.
func (r Runner) commandParse(loaded config.Loaded, logger *slog.Logger, words string) int {
	st, err := newStack(loaded, logger, planOnly)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if err := st.controller.Load(); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer st.close()

	match, err := st.controller.Parse(words)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintf(r.Stdout, "rule: %s\n", match.Rule)
	for _, line := range match.Plan() {
		fmt.Fprintln(r.Stdout, line)
	}
	return 0
}

// commandSay prefers a gRPC daemon when --grpc is set, then the socket
// daemon, then executes in-process.
func (r Runner) commandSay(ctx context.Context, loaded config.Loaded, logger *slog.Logger, parsed cli.Parsed) int {
	if parsed.GRPCAddr != "" {
		return r.sayViaGRPC(ctx, parsed)
	}

	if socketPath, err := ipc.SocketPath(loaded.Config.Server.Socket); err == nil {
		req := ipc.Request{Command: "recognize", Text: parsed.Words, DryRun: parsed.DryRun}
		resp, handled, err := tryForward(ctx, socketPath, req)
		if handled {
			o := outcome{plan: resp.Plan, commands: resp.Commands, failures: resp.Failures}
			if err != nil && len(resp.Failures) == 0 {
				fmt.Fprintf(r.Stderr, "error: %v\n", err)
				return 1
			}
			return r.printOutcome(o, parsed.DryRun)
		}
	}

	mode := injecting
	if parsed.DryRun {
		mode = planOnly
	}
	st, err := newStack(loaded, logger, mode)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if err := st.controller.Load(); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer st.close()

	result, err := st.controller.Recognize(ctx, parsed.Words, parsed.DryRun)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	return r.printOutcome(outcomeFromResult(result), parsed.DryRun)
}

func (r Runner) sayViaGRPC(ctx context.Context, parsed cli.Parsed) int {
	client, err := rpc.Dial(ctx, parsed.GRPCAddr, 3*time.Second)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() { _ = client.Close() }()

	out, err := client.Recognize(ctx, parsed.Words, parsed.DryRun)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	reply, err := rpc.DecodeRecognizeReply(out)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	return r.printOutcome(outcome{plan: reply.Plan, commands: reply.Commands, failures: reply.Failures}, parsed.DryRun)
}

// commandRepl executes one utterance per stdin line. Rejected lines are
// reported and the loop continues.
func (r Runner) commandRepl(ctx context.Context, loaded config.Loaded, logger *slog.Logger) int {
	st, err := newStack(loaded, logger, injecting)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if err := st.controller.Load(); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer st.close()

	stdin := r.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	interactive := isTerminal(stdin)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		if interactive {
			fmt.Fprint(r.Stdout, replPrompt)
		}
		select {
		case <-ctx.Done():
			return 0
		case line, ok := <-lines:
			if !ok {
				return 0
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			result, err := st.controller.Recognize(ctx, line, false)
			if err != nil {
				fmt.Fprintf(r.Stderr, "error: %v\n", err)
				continue
			}
			_ = r.printOutcome(outcomeFromResult(result), false)
		}
	}
}

// commandVocab lists the daemon's phrases, or compiles the grammar locally
// when no daemon is running. With speech set it prints the boosted phrase
// list a speech engine should be primed with instead.
func (r Runner) commandVocab(ctx context.Context, loaded config.Loaded, logger *slog.Logger, speech bool) int {
	if socketPath, err := ipc.SocketPath(loaded.Config.Server.Socket); err == nil {
		resp, handled, err := tryForward(ctx, socketPath, ipc.Request{Command: "vocab"})
		if handled {
			if err != nil {
				fmt.Fprintf(r.Stderr, "error: %v\n", err)
				return 1
			}
			if speech {
				for _, p := range resp.SpeechPhrases {
					r.printSpeechPhrase(p.Phrase, p.Boost)
				}
				return 0
			}
			for _, line := range resp.Phrases {
				fmt.Fprintln(r.Stdout, line)
			}
			return 0
		}
	}

	st, err := newStack(loaded, logger, planOnly)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if err := st.controller.Load(); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer st.close()

	if speech {
		phrases, err := st.controller.SpeechPhrases()
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		for _, p := range phrases {
			r.printSpeechPhrase(p.Phrase, p.Boost)
		}
		return 0
	}

	vocab, err := st.controller.Vocabulary()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	for _, tv := range vocab {
		for _, phrase := range tv.Phrases {
			fmt.Fprintf(r.Stdout, "%s\t%s\n", tv.Tag, phrase)
		}
	}
	return 0
}

func (r Runner) printSpeechPhrase(phrase string, boost float32) {
	fmt.Fprintf(r.Stdout, "%s\t%s\n", phrase, strconv.FormatFloat(float64(boost), 'g', -1, 32))
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
