package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rbright/murmur/internal/config"
	"github.com/rbright/murmur/internal/dispatch"
	"github.com/rbright/murmur/internal/grammar"
	"github.com/rbright/murmur/internal/httpapi"
	"github.com/rbright/murmur/internal/indicator"
	"github.com/rbright/murmur/internal/ipc"
	"github.com/rbright/murmur/internal/metrics"
	"github.com/rbright/murmur/internal/output"
	"github.com/rbright/murmur/internal/rpc"
	"github.com/rbright/murmur/internal/session"
	"github.com/rbright/murmur/internal/vocab"
)

// stack is one fully wired in-process runtime.
type stack struct {
	controller *session.Controller
	registry   *vocab.Registry
	metrics    *metrics.Metrics
	notifier   *indicator.Notifier
}

// stackMode selects how much of the runtime a command needs.
type stackMode int

const (
	// planOnly compiles and parses; nothing is injected or signalled.
	planOnly stackMode = iota
	// injecting wires the configured output backend and indicator.
	injecting
)

func newStack(loaded config.Loaded, logger *slog.Logger, mode stackMode) (*stack, error) {
	cfg := loaded.Config
	st := &stack{
		registry: vocab.NewRegistry(),
		metrics:  metrics.New(),
	}

	sessionCfg := session.Config{
		Logger:  logger,
		Source:  grammar.FileSource(loaded.GrammarPath()),
		Host:    st.registry,
		Metrics: st.metrics,
	}
	sessionCfg.Speech = func() ([]config.SpeechPhrase, error) {
		phrases, _, err := vocab.SpeechPhrases(st.registry, cfg)
		return phrases, err
	}

	if mode == injecting {
		injector, err := output.New(cfg.Output, logger)
		if err != nil {
			return nil, err
		}
		st.notifier = indicator.New(cfg.Indicator, logger)
		sessionCfg.Indicator = st.notifier
		sessionCfg.Dispatcher = dispatch.New(injector, logger,
			dispatch.WithKeyDelay(time.Duration(cfg.Output.KeyDelayMS)*time.Millisecond),
			dispatch.WithMetrics(st.metrics),
		)
	}

	st.controller = session.NewController(sessionCfg)
	return st, nil
}

// close unloads the grammar and waits for queued cues.
func (s *stack) close() {
	_ = s.controller.Unload()
	if s.notifier != nil {
		s.notifier.Wait()
	}
}

// logSpeechPlan reports vocab set conflicts once at startup. The phrases
// themselves are served through the vocab verb and endpoints.
func logSpeechPlan(logger *slog.Logger, registry *vocab.Registry, cfg config.Config) {
	phrases, warnings, err := vocab.SpeechPhrases(registry, cfg)
	if err != nil {
		logger.Warn("speech phrase plan failed", "error", err.Error())
		return
	}
	for _, w := range warnings {
		logger.Debug("speech phrase warning", "message", w.Message)
	}
	logger.Debug("speech phrase plan", "phrase_count", len(phrases))
}

// commandRun owns the daemon socket and serves every configured transport
// until ctx is cancelled or one of them fails.
func (r Runner) commandRun(ctx context.Context, loaded config.Loaded, logger *slog.Logger) int {
	cfg := loaded.Config

	socketPath, err := ipc.SocketPath(cfg.Server.Socket)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8, nil)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			logger.Warn("daemon already running", "socket", socketPath)
		}
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	st, err := newStack(loaded, logger, injecting)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("build runtime failed", "error", err.Error())
		return 1
	}
	defer func() {
		if st.notifier != nil {
			st.notifier.Wait()
		}
	}()

	if err := st.controller.Load(); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("grammar load failed", "error", err.Error())
		return 1
	}
	logSpeechPlan(logger, st.registry, cfg)

	listeners, err := openTCPListeners(cfg.Server)
	if err != nil {
		_ = st.controller.Unload()
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return st.controller.Run(gctx) })
	g.Go(func() error { return ipc.Serve(gctx, listener, st.controller) })
	if lis := listeners.grpc; lis != nil {
		g.Go(func() error { return rpc.Serve(gctx, lis, rpc.NewServer(st.controller, logger)) })
	}
	if lis := listeners.http; lis != nil {
		handler := httpapi.NewHandler(st.controller, st.metrics.Handler(), logger)
		g.Go(func() error { return httpapi.Serve(gctx, lis, handler, logger) })
	}

	logger.Info("daemon started", "socket", socketPath, "grpc", cfg.Server.GRPC, "http", cfg.Server.HTTP)
	if err := g.Wait(); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("daemon stopped", "error", err.Error())
		return 1
	}
	logger.Info("daemon stopped")
	return 0
}

type tcpListeners struct {
	grpc net.Listener
	http net.Listener
}

func openTCPListeners(cfg config.ServerConfig) (tcpListeners, error) {
	var out tcpListeners
	if addr := strings.TrimSpace(cfg.GRPC); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return tcpListeners{}, fmt.Errorf("listen grpc %s: %w", addr, err)
		}
		out.grpc = lis
	}
	if addr := strings.TrimSpace(cfg.HTTP); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			if out.grpc != nil {
				_ = out.grpc.Close()
			}
			return tcpListeners{}, fmt.Errorf("listen http %s: %w", addr, err)
		}
		out.http = lis
	}
	return out, nil
}
