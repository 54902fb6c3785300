// Package web serves the blog's HTML front end.
package web

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dgallion1/techblog/internal/blog"
	"github.com/dgallion1/techblog/internal/cms"
	"github.com/dgallion1/techblog/internal/config"
	"github.com/dgallion1/techblog/internal/richtext"
)

// Server is the HTTP front end for the blog.
type Server struct {
	router   chi.Router
	blog     *blog.Service
	renderer *richtext.HTMLRenderer
	stats    *cms.Stats
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server. stats may be nil.
func NewServer(svc *blog.Service, stats *cms.Stats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		blog:     svc,
		renderer: richtext.NewHTMLRenderer(cfg.SanitizeHTML),
		stats:    stats,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(Metrics)
	r.Use(middleware.Compress(5))

	r.Get("/", s.handleHome)
	r.Get("/blog", s.handleHome)
	r.Get("/blog/{id}", s.handlePost)
	r.Get("/about", s.handleAbout)

	r.Get("/health", s.handleHealth)
	r.Get("/api/stats/cms", s.handleCMSStats)
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(s.handleNotFound)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// render buffers the page so a failed template yields a plain 500.
func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error("template execution failed", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
