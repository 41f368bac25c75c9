// Package httpapi serves recognition, vocabulary, health, and metrics over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rbright/murmur/internal/config"
	"github.com/rbright/murmur/internal/fsm"
	"github.com/rbright/murmur/internal/grammar"
	"github.com/rbright/murmur/internal/session"
)

// RecognizeRequest is the POST /v1/recognize body.
type RecognizeRequest struct {
	Text   string `json:"text"`
	DryRun bool   `json:"dry_run"`
}

// RecognizeResponse is the POST /v1/recognize reply.
type RecognizeResponse struct {
	OK       bool     `json:"ok"`
	Rule     string   `json:"rule,omitempty"`
	Plan     []string `json:"plan,omitempty"`
	Commands []string `json:"commands,omitempty"`
	Failures []string `json:"failures,omitempty"`
	DryRun   bool     `json:"dry_run,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// SpeechPhrase is one boosted phrase in the GET /v1/vocabulary reply.
type SpeechPhrase struct {
	Phrase string  `json:"phrase"`
	Boost  float32 `json:"boost"`
}

// VocabularyResponse is the GET /v1/vocabulary reply.
type VocabularyResponse struct {
	Tags          map[string][]string `json:"tags"`
	SpeechPhrases []SpeechPhrase      `json:"speech_phrases"`
}

// Backend is the session surface the handlers need.
type Backend interface {
	Recognize(ctx context.Context, text string, dryRun bool) (session.Result, error)
	Vocabulary() ([]grammar.TagVocabulary, error)
	SpeechPhrases() ([]config.SpeechPhrase, error)
	State() fsm.State
}

type server struct {
	backend Backend
	logger  *slog.Logger
}

// NewHandler builds the chi router. metrics may be nil.
func NewHandler(backend Backend, metrics http.Handler, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &server{backend: backend, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", s.health)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/recognize", s.recognize)
		r.Get("/vocabulary", s.vocabulary)
	})
	return r
}

func (s *server) health(w http.ResponseWriter, _ *http.Request) {
	switch s.backend.State() {
	case fsm.StateLoaded, fsm.StateDispatching:
	default:
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) recognize(w http.ResponseWriter, r *http.Request) {
	var body RecognizeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, RecognizeResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	if body.Text == "" {
		writeJSON(w, http.StatusBadRequest, RecognizeResponse{Error: "text must not be empty"})
		return
	}

	result, err := s.backend.Recognize(r.Context(), body.Text, body.DryRun)
	if err != nil {
		s.logger.Info("http recognize rejected", "error", err.Error())
		writeJSON(w, statusFor(err), RecognizeResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, RecognizeResponse{
		OK:       result.Report.OK(),
		Rule:     result.Rule,
		Plan:     result.Plan,
		Commands: result.Commands,
		Failures: session.FailureMessages(result.Report),
		DryRun:   result.DryRun,
	})
}

func (s *server) vocabulary(w http.ResponseWriter, _ *http.Request) {
	vocab, err := s.backend.Vocabulary()
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	speech, err := s.backend.SpeechPhrases()
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}

	resp := VocabularyResponse{
		Tags:          make(map[string][]string, len(vocab)),
		SpeechPhrases: make([]SpeechPhrase, 0, len(speech)),
	}
	for _, tv := range vocab {
		resp.Tags[tv.Tag] = tv.Phrases
	}
	for _, p := range speech {
		resp.SpeechPhrases = append(resp.SpeechPhrases, SpeechPhrase{Phrase: p.Phrase, Boost: p.Boost})
	}
	writeJSON(w, http.StatusOK, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, grammar.ErrNoMatch), errors.Is(err, grammar.ErrEmptyUtterance), errors.Is(err, grammar.ErrSequenceTooLong):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Serve runs handler on listener until ctx is cancelled.
func Serve(ctx context.Context, listener net.Listener, handler http.Handler, logger *slog.Logger) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if logger != nil {
		logger.Info("http listening", "addr", listener.Addr().String())
	}
	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http serve: %w", err)
	}
	return nil
}
