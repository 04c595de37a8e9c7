package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/tristendillon/assetpipe/core/config"
	"github.com/tristendillon/assetpipe/core/logger"
)

// Server serves the built demo site for local preview.
type Server struct {
	Root       string
	httpServer *http.Server
}

func NewServer(cfg *config.Config) *Server {
	return New(net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)), cfg.Paths.Demo)
}

func New(addr, root string) *Server {
	return &Server{
		Root: root,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           Handler(root),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler serves files below root. Responses are never cached so a rebuilt
// demo shows up on reload.
func Handler(root string) http.Handler {
	files := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		logger.Debug("%s %s", r.Method, r.URL.Path)
		files.ServeHTTP(w, r)
	})
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

func (s *Server) Start() error {
	logger.Info("Serving %s on http://%s", s.Root, s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Run starts the server and shuts it down once ctx is done.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("Stopping server")
		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}
		return <-errCh
	}
}
