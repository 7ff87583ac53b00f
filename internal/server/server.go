package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "github.com/xgallom/brno-number/internal/errors"
	"github.com/xgallom/brno-number/internal/expr"
	"github.com/xgallom/brno-number/internal/logging"
)

const (
	defaultRequestTimeout  = 10 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr string
	// RequestTimeout bounds a single evaluation.
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	MaxPowerExp     int64
	Security        SecurityConfig
}

// Server evaluates expressions over HTTP. Every request evaluates in a
// fresh environment, so requests never share variables.
type Server struct {
	cfg        Config
	metrics    *Metrics
	logger     logging.Logger
	base       *expr.Env
	httpServer *http.Server
}

// EvalResponse is the JSON body of a successful /eval request.
type EvalResponse struct {
	Expr     string `json:"expr"`
	Kind     string `json:"kind"`
	Value    string `json:"value"`
	Dump     string `json:"dump,omitempty"`
	Duration string `json:"duration"`
}

// ErrorResponse is the JSON body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	// Pos is the byte offset of a syntax error.
	Pos *int `json:"pos,omitempty"`
}

// New creates a server. Zero timeouts and limits take their defaults.
func New(cfg Config, logger logging.Logger) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.MaxPowerExp <= 0 {
		cfg.MaxPowerExp = expr.DefaultMaxPowerExp
	}
	if cfg.Security.MaxExprLen <= 0 {
		cfg.Security.MaxExprLen = DefaultSecurityConfig().MaxExprLen
	}
	m := NewMetrics()
	s := &Server{
		cfg:     cfg,
		metrics: m,
		logger:  logger,
		base:    expr.NewEnv(expr.WithMaxPowerExp(cfg.MaxPowerExp), expr.WithObserver(m.Engine())),
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
	}
	return s
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return SecurityMiddleware(s.cfg.Security, s.metricsMiddleware(h))
	}
	mux.HandleFunc("/eval", wrap(s.handleEval))
	mux.HandleFunc("/health", wrap(s.handleHealth))
	mux.HandleFunc("/metrics", wrap(s.handleMetrics))
	return mux
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("server listening", logging.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.metrics.ObserveRequest(r.URL.Path, rec.status, time.Since(start))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	s.metrics.WritePrometheus(w, r)
}

type evalOutcome struct {
	value expr.Value
	err   error
}

func (s *Server) handleEval(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	src := r.URL.Query().Get("expr")
	if src == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("missing expr parameter"))
		return
	}
	if limit := s.cfg.Security.MaxExprLen; len(src) > limit {
		s.writeError(w, http.StatusRequestEntityTooLarge,
			apperrors.LimitError{Name: "expression length", Value: int64(len(src)), Limit: int64(limit)})
		return
	}

	ctx, span := otel.Tracer("github.com/xgallom/brno-number/internal/server").Start(r.Context(), "http.eval")
	span.SetAttributes(attribute.String("expr", src))
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	// The engine stops at the deadline between limb rows; the request
	// answers at the deadline without waiting for it to unwind.
	start := time.Now()
	done := make(chan evalOutcome, 1)
	go func() {
		v, err := expr.Eval(ctx, src, s.base.Fork())
		done <- evalOutcome{v, err}
	}()

	var out evalOutcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out.err = ctx.Err()
	}
	elapsed := time.Since(start)

	if out.err != nil {
		span.RecordError(out.err)
		span.SetStatus(codes.Error, out.err.Error())
		s.logger.Debug("evaluation failed", logging.String("expr", src), logging.Err(out.err))
		s.writeError(w, statusFor(out.err), out.err)
		return
	}

	resp := EvalResponse{
		Expr:     src,
		Kind:     out.value.Kind(),
		Value:    out.value.String(),
		Duration: elapsed.String(),
	}
	if !out.value.IsBool && (out.value.Dump || r.URL.Query().Has("dump")) {
		resp.Dump = out.value.Number.DumpString()
	}
	span.SetAttributes(attribute.String("kind", resp.Kind))
	writeJSON(w, http.StatusOK, resp)
}

// statusFor maps an evaluation error to an HTTP status. Evaluation and
// limit errors are 422.
func statusFor(err error) int {
	var syntaxErr *expr.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusUnprocessableEntity
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var syntaxErr *expr.SyntaxError
	if errors.As(err, &syntaxErr) {
		pos := syntaxErr.Pos
		resp.Pos = &pos
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
