// Package web provides the HTTP server and page handlers for the site.
package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	// DefaultAddr is the address used when the binary is launched directly.
	DefaultAddr = "0.0.0.0:80"

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second
)

// ErrMissingContactTemplate is returned when the contact route is enabled but
// no "contact" page template was loaded.
var ErrMissingContactTemplate = errors.New("contact route enabled but contact template is missing")

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr            string
	ContactEnabled  bool
	ShutdownTimeout time.Duration
	TemplatesFS     fs.FS
	StaticFS        fs.FS

	// Now is the clock used for the current year. Defaults to time.Now.
	Now func() time.Time
}

// Server is the HTTP server for the site.
type Server struct {
	router          chi.Router
	server          *http.Server
	templates       *Templates
	handlers        *Handlers
	shutdownTimeout time.Duration
}

// NewServer creates a new web server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	templates, err := NewTemplates(cfg.TemplatesFS)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	if cfg.ContactEnabled && !templates.Has("contact") {
		return nil, ErrMissingContactTemplate
	}

	handlers := NewHandlers(templates, cfg.Now, cfg.ContactEnabled)

	router := chi.NewRouter()

	s := &Server{
		router:          router,
		templates:       templates,
		handlers:        handlers,
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	s.setupMiddleware()
	s.setupRoutes(cfg.StaticFS, cfg.ContactEnabled)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.GetHead)
	s.router.Use(middleware.Compress(5))
}

// route is one entry of the dispatch table.
type route struct {
	method  string
	path    string
	handler http.HandlerFunc
}

// routes returns the dispatch table for the configured variant.
func (s *Server) routes(contactEnabled bool) []route {
	table := []route{
		{http.MethodGet, "/", s.handlers.Home},
		{http.MethodGet, "/about", s.handlers.About},
		{http.MethodGet, "/health", s.handlers.Health},
	}
	if contactEnabled {
		table = append(table,
			route{http.MethodGet, "/contact", s.handlers.ContactForm},
			route{http.MethodPost, "/contact", s.handlers.ContactSubmit},
		)
	}
	return table
}

// setupRoutes registers the route table. Every path also answers OPTIONS
// with its Allow list.
func (s *Server) setupRoutes(staticFS fs.FS, contactEnabled bool) {
	if staticFS != nil {
		fileServer := http.FileServer(http.FS(staticFS))
		s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	allowed := make(map[string][]string)
	var paths []string
	for _, rt := range s.routes(contactEnabled) {
		s.router.Method(rt.method, rt.path, rt.handler)

		if _, ok := allowed[rt.path]; !ok {
			paths = append(paths, rt.path)
		}
		allowed[rt.path] = append(allowed[rt.path], rt.method)
	}

	for _, path := range paths {
		s.router.Options(path, allowHandler(allowed[path]))
	}
}

// allowHandler answers OPTIONS with the path's methods plus the implicit
// HEAD and OPTIONS.
func allowHandler(methods []string) http.HandlerFunc {
	set := map[string]bool{http.MethodOptions: true}
	for _, m := range methods {
		set[m] = true
		if m == http.MethodGet {
			set[http.MethodHead] = true
		}
	}

	list := make([]string, 0, len(set))
	for m := range set {
		list = append(list, m)
	}
	sort.Strings(list)
	allow := strings.Join(list, ", ")

	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Allow", allow)
		w.WriteHeader(http.StatusOK)
	}
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return s.RunContext(ctx)
}

// RunContext listens on the configured address and serves until ctx is done.
func (s *Server) RunContext(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.server.Addr, err)
	}

	log.Printf("Starting server at http://%s", ln.Addr())
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done or serving fails.
// On cancellation in-flight requests get the shutdown timeout to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
		log.Println("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
