// Package preview serves generated artifacts over HTTP for local review:
// the text artifacts from the public directory and the HTML pages from the
// html directory.
package preview

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"github.com/jingkaihe/agentconfig/pkg/logger"
	"github.com/jingkaihe/agentconfig/pkg/presenter"
	"github.com/pkg/errors"
)

// ServerConfig holds the configuration for the preview server
type ServerConfig struct {
	Host      string
	Port      int
	PublicDir string
	HTMLDir   string
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Host == "" {
		return errors.New("host cannot be empty")
	}

	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.PublicDir == "" {
		return errors.New("public directory cannot be empty")
	}

	if c.HTMLDir == "" {
		return errors.New("html directory cannot be empty")
	}

	return nil
}

// Address returns host:port.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Server serves the generated site.
type Server struct {
	router *mux.Router
	config *ServerConfig
	server *http.Server
}

// NewServer creates a preview server
func NewServer(config *ServerConfig) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid server configuration")
	}

	s := &Server{
		router: mux.NewRouter(),
		config: config,
	}
	s.setupRoutes()

	return s, nil
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/llms.txt", s.handleText).Methods("GET", "HEAD")
	s.router.HandleFunc("/llms-full.txt", s.handleText).Methods("GET", "HEAD")
	s.router.HandleFunc(`/{name:[A-Za-z0-9_-]+\.md}`, s.handleText).Methods("GET", "HEAD")

	s.router.PathPrefix("/").Handler(s.noCache(http.FileServer(http.Dir(s.config.HTMLDir))))

	s.router.Use(s.loggingMiddleware)
}

// handleText serves a text artifact from the public directory. Route
// patterns restrict names to a single path element.
func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(r.URL.Path)
	data, err := os.ReadFile(filepath.Join(s.config.PublicDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}
		logger.G(r.Context()).WithError(err).WithField("file", name).Error("failed to read artifact")
		http.Error(w, "failed to read artifact", http.StatusInternalServerError)
		return
	}

	contentType := "text/plain; charset=utf-8"
	if filepath.Ext(name) == ".md" {
		contentType = "text/markdown; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(data)
}

func (s *Server) noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		logger.G(r.Context()).WithFields(map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration":    time.Since(start),
			"remote_addr": r.RemoteAddr,
		}).Info("HTTP request")
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	address := s.config.Address()

	s.server = &http.Server{
		Addr:              address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	presenter.Info(fmt.Sprintf("Serving preview on http://%s", address))

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "preview server failed")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// Stop stops the preview server
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}
