// Package rpc exposes utterance recognition over gRPC.
//
// Messages are google.protobuf.Struct so the service needs no generated
// code. A Recognize request carries {"text": string, "dry_run": bool}.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/mitchellh/mapstructure"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/rbright/murmur/internal/config"
	"github.com/rbright/murmur/internal/grammar"
	"github.com/rbright/murmur/internal/session"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "murmur.v1.Recognizer"

const (
	recognizeMethod  = "/" + ServiceName + "/Recognize"
	vocabularyMethod = "/" + ServiceName + "/Vocabulary"
)

// Backend is the session surface the service needs.
type Backend interface {
	Recognize(ctx context.Context, text string, dryRun bool) (session.Result, error)
	Vocabulary() ([]grammar.TagVocabulary, error)
	SpeechPhrases() ([]config.SpeechPhrase, error)
}

// RecognizeRequest is the decoded Recognize payload.
type RecognizeRequest struct {
	Text   string `mapstructure:"text"`
	DryRun bool   `mapstructure:"dry_run"`
}

// RecognizeReply is the decoded Recognize response.
type RecognizeReply struct {
	OK       bool     `mapstructure:"ok"`
	Rule     string   `mapstructure:"rule"`
	DryRun   bool     `mapstructure:"dry_run"`
	Plan     []string `mapstructure:"plan"`
	Commands []string `mapstructure:"commands"`
	Failures []string `mapstructure:"failures"`
}

// recognizerServer is the handler type checked by grpc.RegisterService.
type recognizerServer interface {
	Recognize(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Vocabulary(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// Server implements murmur.v1.Recognizer.
type Server struct {
	backend Backend
	logger  *slog.Logger
}

// NewServer wraps backend. logger may be nil.
func NewServer(backend Backend, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{backend: backend, logger: logger}
}

// DecodeRecognizeRequest validates a Recognize payload. Unknown keys and
// wrongly typed values are rejected.
func DecodeRecognizeRequest(in *structpb.Struct) (RecognizeRequest, error) {
	var req RecognizeRequest
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &req,
	})
	if err != nil {
		return RecognizeRequest{}, err
	}
	if err := decoder.Decode(in.AsMap()); err != nil {
		return RecognizeRequest{}, err
	}
	if req.Text == "" {
		return RecognizeRequest{}, errors.New("text must not be empty")
	}
	return req, nil
}

// DecodeRecognizeReply maps a Recognize response onto RecognizeReply.
func DecodeRecognizeReply(out *structpb.Struct) (RecognizeReply, error) {
	var reply RecognizeReply
	if err := mapstructure.Decode(out.AsMap(), &reply); err != nil {
		return RecognizeReply{}, fmt.Errorf("decode reply: %w", err)
	}
	return reply, nil
}

// Recognize resolves and optionally executes one utterance.
func (s *Server) Recognize(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := DecodeRecognizeRequest(in)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}

	result, err := s.backend.Recognize(ctx, req.Text, req.DryRun)
	if err != nil {
		return nil, status.Error(errorCode(err), err.Error())
	}

	out, err := structpb.NewStruct(map[string]any{
		"ok":       result.Report.OK(),
		"rule":     result.Rule,
		"dry_run":  result.DryRun,
		"plan":     stringsToAny(result.Plan),
		"commands": stringsToAny(result.Commands),
		"failures": stringsToAny(session.FailureMessages(result.Report)),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// Vocabulary returns every registered phrase keyed by tag, plus the boosted
// speech phrase list.
func (s *Server) Vocabulary(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	vocab, err := s.backend.Vocabulary()
	if err != nil {
		return nil, status.Error(errorCode(err), err.Error())
	}

	speech, err := s.backend.SpeechPhrases()
	if err != nil {
		return nil, status.Error(errorCode(err), err.Error())
	}

	tags := make(map[string]any, len(vocab))
	for _, tv := range vocab {
		tags[tv.Tag] = stringsToAny(tv.Phrases)
	}
	phrases := make([]any, len(speech))
	for i, p := range speech {
		phrases[i] = map[string]any{"phrase": p.Phrase, "boost": float64(p.Boost)}
	}
	out, err := structpb.NewStruct(map[string]any{"tags": tags, "speech_phrases": phrases})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func errorCode(err error) codes.Code {
	switch {
	case errors.Is(err, grammar.ErrNoMatch), errors.Is(err, grammar.ErrEmptyUtterance):
		return codes.InvalidArgument
	case errors.Is(err, grammar.ErrSequenceTooLong):
		return codes.OutOfRange
	case errors.Is(err, session.ErrNotLoaded):
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*recognizerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Recognize", Handler: recognizeHandler},
		{MethodName: "Vocabulary", Handler: vocabularyHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "murmur/v1/recognizer.proto",
}

func recognizeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(recognizerServer).Recognize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: recognizeMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(recognizerServer).Recognize(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func vocabularyHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(recognizerServer).Vocabulary(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: vocabularyMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(recognizerServer).Vocabulary(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Register installs the recognizer and the standard health service on gs.
func Register(gs *grpc.Server, srv *Server) *health.Server {
	gs.RegisterService(&serviceDesc, srv)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	return hs
}

// Serve runs the service on listener until ctx is cancelled.
func Serve(ctx context.Context, listener net.Listener, srv *Server) error {
	gs := grpc.NewServer(grpc.UnaryInterceptor(srv.logCalls))
	hs := Register(gs, srv)

	go func() {
		<-ctx.Done()
		hs.Shutdown()
		gs.GracefulStop()
	}()

	srv.logger.Info("grpc listening", "addr", listener.Addr().String())
	if err := gs.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

func (s *Server) logCalls(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		s.logger.Info("grpc call failed", "method", info.FullMethod, "code", status.Code(err).String(), "error", err.Error())
	}
	return resp, err
}
