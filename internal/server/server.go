package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"ChatGateway/internal/config"
	"ChatGateway/internal/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Server HTTP-сервер шлюза.
type Server struct {
	cfg     config.ServerConfig
	srv     *http.Server
	logger  *zap.SugaredLogger
	running atomic.Bool
	addr    atomic.Value // фактический адрес после Start
}

func New(addr string, cfg config.ServerConfig, h *handler.Handler, logger *zap.SugaredLogger) *Server {
	if addr == "" {
		addr = ":8080"
	}
	s := &Server{cfg: cfg, logger: logger}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           NewRouter(h, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// NewRouter регистрирует маршруты и middleware.
func NewRouter(h *handler.Handler, logger *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()

	// requestID должен стоять раньше middleware.RequestID: тот берёт ID из заголовка
	r.Use(requestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.HandleHealth)
	r.Route("/api/chat", func(r chi.Router) {
		r.Post("/text", h.HandleTextChat)
		r.Post("/image", h.HandleImageChat)
	})

	return r
}

// Start занимает адрес и обслуживает запросы в фоне; останавливается при отмене ctx.
// Ошибка привязки к адресу возвращается сразу.
func (s *Server) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		s.running.Store(false)
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	s.addr.Store(ln.Addr().String())

	go func() {
		s.logger.Infow("HTTP server listening", "addr", ln.Addr().String())
		if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) && err != nil {
			s.logger.Errorw("HTTP server stopped with error", "error", err)
		} else {
			s.logger.Infow("HTTP server stopped")
		}
	}()

	go func() {
		<-ctx.Done()
		_ = s.Stop(context.WithoutCancel(ctx))
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeoutCause(ctx, timeout, errors.New("http server shutdown timeout"))
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warnw("graceful shutdown error", "error", err)
		return s.srv.Close()
	}
	return nil
}

// Addr адрес, на котором слушает сервер; до Start - адрес из конфига.
func (s *Server) Addr() string {
	if a, ok := s.addr.Load().(string); ok {
		return a
	}
	return s.srv.Addr
}

// requestID выдаёт UUID запросу без X-Request-Id и возвращает его клиенту.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(middleware.RequestIDHeader, id)
		}
		w.Header().Set(middleware.RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func requestLogger(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Infow("http",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
				"dur_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
