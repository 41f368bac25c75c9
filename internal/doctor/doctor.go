// Package doctor runs runtime readiness diagnostics for config, grammar,
// output tools, audio cues, and the daemon listeners.
package doctor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rbright/murmur/internal/audio"
	"github.com/rbright/murmur/internal/config"
	"github.com/rbright/murmur/internal/grammar"
	"github.com/rbright/murmur/internal/hypr"
	"github.com/rbright/murmur/internal/output"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(ctx context.Context, cfg config.Loaded) Report {
	checks := []Check{}

	message := fmt.Sprintf("loaded %q", cfg.Path)
	if !cfg.Exists {
		message = fmt.Sprintf("%q not found; using defaults", cfg.Path)
	}
	checks = append(checks, Check{Name: "config", Pass: true, Message: message})

	checks = append(checks, checkGrammar(cfg.GrammarPath()))

	checks = append(checks, checkEnv("XDG_SESSION_TYPE", func(v string) bool {
		return strings.EqualFold(strings.TrimSpace(v), "wayland")
	}, "session type is wayland", "expected XDG_SESSION_TYPE=wayland"))

	if needsHyprland(cfg.Config) {
		checks = append(checks, checkEnv("HYPRLAND_INSTANCE_SIGNATURE", func(v string) bool {
			return strings.TrimSpace(v) != ""
		}, "Hyprland session detected", "HYPRLAND_INSTANCE_SIGNATURE is empty"))
		checks = append(checks, checkHyprVersion(ctx))
	}

	checks = append(checks, checkOutputBackend(cfg.Config.Output))
	checks = append(checks, checkTextCommands(cfg.Config.Output)...)

	if cfg.Config.Indicator.SoundEnable {
		checks = append(checks, checkCueSink(ctx, cfg.Config.Indicator))
	}
	if addr := strings.TrimSpace(cfg.Config.Server.HTTP); addr != "" {
		checks = append(checks, checkDaemonReady(addr))
	}

	return Report{Checks: checks}
}

func needsHyprland(cfg config.Config) bool {
	return strings.EqualFold(cfg.Output.Backend, config.BackendHypr) ||
		(cfg.Indicator.Enable && strings.EqualFold(cfg.Indicator.Backend, "hypr"))
}

// checkEnv validates an environment variable through a caller-supplied predicate.
func checkEnv(name string, predicate func(string) bool, okMsg, failMsg string) Check {
	value := os.Getenv(name)
	if predicate(value) {
		return Check{Name: name, Pass: true, Message: okMsg}
	}
	return Check{Name: name, Pass: false, Message: failMsg}
}

// checkGrammar compiles the configured vocabulary without loading it.
func checkGrammar(path string) Check {
	def, err := grammar.FileSource(path)()
	if err != nil {
		return Check{Name: "grammar", Pass: false, Message: err.Error()}
	}
	g, err := grammar.Compile(def)
	if err != nil {
		return Check{Name: "grammar", Pass: false, Message: err.Error()}
	}

	source := "built-in"
	if path != "" {
		source = fmt.Sprintf("%q", path)
	}
	phrases := 0
	for _, tv := range g.Vocabulary() {
		phrases += len(tv.Phrases)
	}
	return Check{
		Name:    "grammar",
		Pass:    true,
		Message: fmt.Sprintf("%s revision %d compiles (%d phrases)", source, g.Revision(), phrases),
	}
}

func checkHyprVersion(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	version, err := hypr.QueryVersion(ctx)
	if err != nil {
		return Check{Name: "hyprland", Pass: false, Message: err.Error()}
	}
	return Check{Name: "hyprland", Pass: true, Message: fmt.Sprintf("version %s", version.Tag)}
}

// checkOutputBackend builds the configured injector and confirms its tool.
func checkOutputBackend(cfg config.OutputConfig) Check {
	if _, err := output.New(cfg, nil); err != nil {
		return Check{Name: "output.backend", Pass: false, Message: err.Error()}
	}

	switch strings.ToLower(cfg.Backend) {
	case config.BackendHypr:
		return checkBinary("hyprctl", "output.backend=hypr")
	case config.BackendWtype:
		return checkBinary("wtype", "output.backend=wtype")
	default:
		return Check{Name: "output.backend", Pass: true, Message: fmt.Sprintf("%s ready", cfg.Backend)}
	}
}

func checkTextCommands(cfg config.OutputConfig) []Check {
	if strings.EqualFold(cfg.TextMode, config.TextModeType) {
		return []Check{checkCommand(cfg.TypeCmd.Argv, "type_cmd")}
	}

	checks := []Check{checkCommand(cfg.Clipboard.Argv, "clipboard_cmd")}
	if len(cfg.PasteCmd.Argv) > 0 {
		checks = append(checks, checkCommand(cfg.PasteCmd.Argv, "paste_cmd"))
	} else {
		checks = append(checks, checkBinary("hyprctl", "default paste path requires hyprctl"))
	}
	return checks
}

// checkCommand validates that argv contains a runnable command.
func checkCommand(argv []string, name string) Check {
	if len(argv) == 0 {
		return Check{Name: name, Pass: false, Message: "command is empty"}
	}
	return checkBinary(argv[0], fmt.Sprintf("%s command is available", name))
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}

// checkCueSink runs live sink selection to surface cue playback issues.
func checkCueSink(ctx context.Context, cfg config.IndicatorConfig) Check {
	selection, err := audio.SelectSink(ctx, cfg.SoundSink)
	if err != nil {
		return Check{Name: "audio.sink", Pass: false, Message: err.Error()}
	}
	message := fmt.Sprintf("selected %q", selection.Sink.ID)
	if selection.Warning != "" {
		message = message + " (" + selection.Warning + ")"
	}
	return Check{Name: "audio.sink", Pass: true, Message: message}
}

// checkDaemonReady probes a running daemon's HTTP health endpoint.
func checkDaemonReady(addr string) Check {
	base := addr
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	url := strings.TrimRight(base, "/") + "/healthz"
	client := http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return Check{Name: "daemon.http", Pass: false, Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Check{Name: "daemon.http", Pass: false, Message: fmt.Sprintf("HTTP %d from %s: %s", resp.StatusCode, url, strings.TrimSpace(string(body)))}
	}
	return Check{Name: "daemon.http", Pass: true, Message: fmt.Sprintf("ready at %s", url)}
}
