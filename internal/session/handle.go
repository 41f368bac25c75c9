package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/rbright/murmur/internal/config"
	"github.com/rbright/murmur/internal/ipc"
)

// Handle serves IPC commands for the running daemon.
func (c *Controller) Handle(ctx context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case "status":
		return ipc.Response{OK: true, State: string(c.State()), Message: "status", Revision: c.Revision()}
	case "recognize":
		return c.handleRecognize(ctx, req.Text, req.DryRun)
	case "parse":
		return c.handleRecognize(ctx, req.Text, true)
	case "reload":
		revision, err := c.Reload()
		if err != nil {
			return ipc.Response{OK: false, State: string(c.State()), Error: err.Error()}
		}
		return ipc.Response{OK: true, State: string(c.State()), Message: "reloaded", Revision: revision}
	case "vocab":
		vocab, err := c.Vocabulary()
		if err != nil {
			return ipc.Response{OK: false, State: string(c.State()), Error: err.Error()}
		}
		phrases := make([]string, 0)
		for _, tv := range vocab {
			for _, phrase := range tv.Phrases {
				phrases = append(phrases, tv.Tag+"\t"+phrase)
			}
		}
		speech, err := c.SpeechPhrases()
		if err != nil {
			return ipc.Response{OK: false, State: string(c.State()), Error: err.Error()}
		}
		return ipc.Response{
			OK:            true,
			State:         string(c.State()),
			Phrases:       phrases,
			SpeechPhrases: ipcSpeechPhrases(speech),
			Revision:      c.Revision(),
		}
	default:
		return ipc.Response{OK: false, State: string(c.State()), Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}
}

func ipcSpeechPhrases(phrases []config.SpeechPhrase) []ipc.SpeechPhrase {
	if len(phrases) == 0 {
		return nil
	}
	out := make([]ipc.SpeechPhrase, len(phrases))
	for i, p := range phrases {
		out[i] = ipc.SpeechPhrase{Phrase: p.Phrase, Boost: p.Boost}
	}
	return out
}

func (c *Controller) handleRecognize(ctx context.Context, text string, dryRun bool) ipc.Response {
	if strings.TrimSpace(text) == "" {
		return ipc.Response{OK: false, State: string(c.State()), Error: "text must not be empty"}
	}

	result, err := c.Recognize(ctx, text, dryRun)
	if err != nil {
		return ipc.Response{OK: false, State: string(c.State()), Error: err.Error()}
	}

	resp := ipc.Response{
		OK:       result.Report.OK(),
		State:    string(c.State()),
		Rule:     result.Rule,
		Plan:     result.Plan,
		Commands: result.Commands,
		Failures: FailureMessages(result.Report),
	}
	if dryRun {
		resp.Message = "planned"
	} else {
		resp.Message = "executed"
	}
	if !resp.OK {
		resp.Error = fmt.Sprintf("%d command(s) failed", len(resp.Failures))
	}
	return resp
}
