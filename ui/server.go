package ui

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"alocdash/app"
	"alocdash/domain/allocation"
	"alocdash/internal"

	"github.com/gin-gonic/gin"
)

// Server serves the allocation dashboard
type Server struct {
	router    *gin.Engine
	service   *app.DashboardService
	files     fs.FS
	templates *template.Template
	panels    map[string]template.HTML
	logger    *internal.Logger
}

// NewServer creates a server reading templates and panels from files
func NewServer(service *app.DashboardService, files fs.FS) *Server {
	return &Server{
		router:  gin.New(),
		service: service,
		files:   files,
		panels:  make(map[string]template.HTML),
		logger:  internal.DefaultLogger.With("Server"),
	}
}

// Initialize parses the templates and panels and registers the routes.
// api, when not nil, is mounted under /api.
func (s *Server) Initialize(api http.Handler) error {
	funcMap := template.FuncMap{
		"pct": func(p allocation.Percentage) string { return p.String() },
		"width": func(p allocation.Percentage) string {
			return fmt.Sprintf("%.1f%%", p.Fraction()*100)
		},
		"na":    func(p allocation.Percentage) bool { return p.IsNA() },
		"add":   func(a, b int) int { return a + b },
		"upper": strings.ToUpper,
	}

	templatesFS, err := fs.Sub(s.files, "templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}
	s.templates, err = template.New("").Funcs(funcMap).ParseFS(templatesFS, "*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.logger.Debug("Parsed templates: %s", s.templates.DefinedTemplates())

	panels, err := fs.Glob(s.files, "content/*.md")
	if err != nil {
		return fmt.Errorf("failed to glob panels: %w", err)
	}
	for _, file := range panels {
		content, err := fs.ReadFile(s.files, file)
		if err != nil {
			return fmt.Errorf("failed to read panel %s: %w", file, err)
		}
		s.panels[strings.TrimSuffix(path.Base(file), ".md")] = renderMarkdown(content)
	}

	s.setupMiddleware()
	s.setupRoutes(api)
	return nil
}

// setupMiddleware configures Gin middleware and the static files
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery(), s.requestLogger())

	staticFS, err := fs.Sub(s.files, "static")
	if err != nil {
		s.logger.Warn("Static files unavailable: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// requestLogger logs one line per request at DEBUG, errors at WARN
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			s.logger.Warn("%s %s -> %d", c.Request.Method, c.Request.URL.Path, status)
			return
		}
		s.logger.Debug("%s %s -> %d", c.Request.Method, c.Request.URL.Path, status)
	}
}

func (s *Server) setupRoutes(api http.Handler) {
	s.router.GET("/", s.handleDashboard)
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if api != nil {
		s.router.Any("/api/*path", gin.WrapH(api))
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("Listening on %s", addr)
	return s.router.Run(addr)
}
