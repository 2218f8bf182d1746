// Package server is the browser-facing HTTP surface of the edge gateway:
// the session endpoints, the backend relay, and a few thin presentation
// helpers (sitemap, quotes, health).
package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/dohahub/eduhub-edge/internal/config"
	"github.com/dohahub/eduhub-edge/session"
)

type Server struct {
	env         string // Environment (e.g., "DEV", "production")
	mux         *http.ServeMux
	routes      []string
	config      config.Config
	sessions    *session.Manager
	proxyClient *http.Client
	log         zerolog.Logger
}

type Option func(*Server)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithProxyClient overrides the HTTP client used for backend forwarding
// (primarily for tests).
func WithProxyClient(c *http.Client) Option {
	return func(s *Server) {
		s.proxyClient = c
	}
}

func New(cfg config.Config, sessions *session.Manager, options ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("[server.New] config is required")
	}
	if sessions == nil {
		return nil, errors.New("[server.New] session manager is required")
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		sessions: sessions,
		log:      zerolog.Nop(),
		// No proxy-level timeout: long uploads and downloads pass through
		// here, the backend enforces its own limits.
		proxyClient: &http.Client{Timeout: 0},
	}
	s.env = cfg.GetEnv()
	for _, opt := range options {
		opt(s)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("ANY", parts[0])
		}
	}
}

var methodColors = map[string]*color.Color{
	"GET":    color.New(color.FgGreen),
	"POST":   color.New(color.FgBlue),
	"PUT":    color.New(color.FgCyan),
	"DELETE": color.New(color.FgYellow),
	"PATCH":  color.New(color.FgMagenta),
	"ANY":    color.New(color.FgWhite),
}

func logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if c, ok := methodColors[method]; ok {
		paddedMethod = c.Sprint(paddedMethod)
	}
	fmt.Printf("[%s] %s\n", paddedMethod, path)
}

// backendURL joins the configured backend origin with a path and an
// optional raw query string.
func (s *Server) backendURL(path, rawQuery string) string {
	target := s.config.GetBackendOrigin() + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	return target
}

// siteURL builds an absolute public link from the configured site base.
func (s *Server) siteURL(path string) string {
	return s.config.GetSiteBaseURL() + path
}
