package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/vedsaas/softchip/internal/sampler"
	"github.com/vedsaas/softchip/internal/static"
	"github.com/vedsaas/softchip/internal/telemetry"
)

// defaultShutdownTimeout bounds how long in-flight responses may run after
// the context is cancelled.
const defaultShutdownTimeout = 5 * time.Second

// StatsSampler produces the body of the stats resource.
type StatsSampler interface {
	Sample(ctx context.Context) sampler.Snapshot
}

// Config holds everything a [Server] needs. Resolver and Sampler are
// required; Metrics and MetricsPath enable the Prometheus endpoint together.
type Config struct {
	Host string
	Port int

	Resolver *static.Resolver
	Sampler  StatsSampler

	Metrics     *telemetry.Metrics
	MetricsPath string

	// ReadHeaderTimeout and WriteTimeout are per-connection deadlines.
	// Zero disables them.
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration

	// ShutdownTimeout defaults to 5s when zero.
	ShutdownTimeout time.Duration

	Logger *slog.Logger
}

// Server handles HTTP requests for the stats API and static assets.
//
// Server answers three kinds of request:
//   - GET /api/stats: a JSON host snapshot
//   - GET anything else: a file under the served root, or 403/404
//   - any other method: 405
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	listener   net.Listener
	addr       net.Addr
	errs       chan error
	done       chan struct{}
}

// NewServer creates a new HTTP [Server]. The server is not started until
// [Server.Start] is called.
func NewServer(cfg Config) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:    cfg,
		logger: logger,
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}
}

// Handler returns the request handler with its full middleware chain.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(withProtectiveHeaders)
	r.Use(s.instrument)
	r.Use(s.recoverer)

	if s.metricsEnabled() {
		r.Method(http.MethodGet, s.cfg.MetricsPath, s.cfg.Metrics.Handler())
	}

	r.HandleFunc("/*", s.dispatch)
	r.NotFound(s.dispatch)
	r.MethodNotAllowed(s.handleRejected)
	return r
}

// Start binds the listener and begins serving in a background goroutine.
//
// Start is non-blocking and returns once the socket is bound, so a port that
// is already taken surfaces here as an error. When ctx is cancelled the
// server stops accepting, lets in-flight responses finish within the
// shutdown timeout, and then closes [Server.Done]. If serving stops on its
// own, the cause is sent on [Server.Err] and Done is closed as well.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))

	lc := net.ListenConfig{Control: reuseAddr}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to %s: %w", addr, err)
	}
	s.listener = ln
	s.addr = ln.Addr()

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		// OPTIONS * goes through the router like any other non-GET request
		DisableGeneralOptionsHandler: true,
		// net/http reports broken client connections here; keep them out of
		// the normal log stream
		ErrorLog: slog.NewLogLogger(s.logger.Handler(), slog.LevelDebug),
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "error", err)
			s.errs <- err
		}
	}()

	go func() {
		defer close(s.done)
		select {
		case <-ctx.Done():
		case <-stopped:
			_ = s.httpServer.Close()
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("http server shutdown incomplete", "error", err)
			_ = s.httpServer.Close()
		}
	}()

	return nil
}

// Addr returns the bound address, or nil before a successful [Server.Start].
func (s *Server) Addr() net.Addr {
	return s.addr
}

// Err receives the error that stopped serving before the context was
// cancelled. Nothing is sent on a graceful shutdown.
func (s *Server) Err() <-chan error {
	return s.errs
}

// Done is closed once shutdown has finished.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

func (s *Server) metricsEnabled() bool {
	return s.cfg.Metrics != nil && s.cfg.MetricsPath != ""
}

// dispatch routes every request that is not the telemetry endpoint.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	switch Route(r.Method, r.URL.Path) {
	case DecisionMetrics:
		s.handleStats(w, r)
	case DecisionStaticAsset:
		s.handleStatic(w, r)
	default:
		s.handleRejected(w, r)
	}
}

// handleStats returns a fresh host snapshot as JSON.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap := s.cfg.Sampler.Sample(r.Context())
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.ObserveSnapshot(snap)
	}

	if err := writeJSON(w, http.StatusOK, snap); err != nil {
		s.writeFailed(r, err)
	}
}

// handleStatic streams the requested file, or answers 403/404.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	asset, err := s.cfg.Resolver.Resolve(r.URL.Path)
	if err != nil {
		status, message := http.StatusNotFound, "File not found"
		if errors.Is(err, static.ErrForbidden) {
			status, message = http.StatusForbidden, "Directory listing and paths outside the root are forbidden"
		}
		if werr := writeError(w, status, message); werr != nil {
			s.writeFailed(r, werr)
		}
		return
	}
	defer asset.Close()

	if err := streamFile(w, asset); err != nil {
		s.writeFailed(r, err)
	}
}

// handleRejected answers any method other than GET.
func (s *Server) handleRejected(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodGet)
	if err := writeError(w, http.StatusMethodNotAllowed, r.Method+" method not allowed"); err != nil {
		s.writeFailed(r, err)
	}
}

// writeFailed absorbs peer disconnects and surfaces everything else.
func (s *Server) writeFailed(r *http.Request, err error) {
	if errors.Is(err, ErrPeerDisconnect) {
		if s.cfg.Metrics != nil {
			s.cfg.Metrics.IncPeerDisconnects()
		}
		return
	}
	s.logger.Warn("response write failed", "path", r.URL.Path, "error", err)
}

// instrument counts finished requests by route decision and status code.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.cfg.Metrics.ObserveRequest(s.routeLabel(r), status)
	})
}

func (s *Server) routeLabel(r *http.Request) string {
	if s.metricsEnabled() && r.Method == http.MethodGet && r.URL.Path == s.cfg.MetricsPath {
		return "telemetry"
	}
	return Route(r.Method, r.URL.Path).String()
}

// recoverer turns a handler panic into a 500 page. The panic is logged with
// a correlation ID that is also shown to the client.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			correlationID := uuid.NewString()
			s.logger.Error("handler panic",
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", rec),
				"stack", string(debug.Stack()),
			)
			_ = writeError(w, http.StatusInternalServerError, "Internal error (ref "+correlationID+")")
		}()
		next.ServeHTTP(w, r)
	})
}
