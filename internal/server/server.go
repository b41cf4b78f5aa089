package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/pipeline"
)

//go:embed templates/*.html
var templateFS embed.FS

const emptyInputNotice = "Please enter some text to check."

// Checker runs the fact-checking pipeline
type Checker interface {
	CheckText(ctx context.Context, text string) (*model.Report, error)
	CheckURL(ctx context.Context, rawURL string) (*model.Report, error)
}

// HealthReporter is implemented by checkers that can check their upstream
// dependencies for /health?deep=true
type HealthReporter interface {
	Health(ctx context.Context) map[string]pipeline.ProviderHealth
}

// Server serves the web form, the JSON API, health, and metrics
type Server struct {
	engine  *gin.Engine
	checker Checker
	config  model.ServerConfig
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures a Server
type Option func(*Server)

// WithMetricsHandler mounts a Prometheus handler at /metrics
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithLogger sets the request logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

type pageData struct {
	Text          string
	Notice        string
	Error         string
	Report        *model.Report
	MaxInputBytes int
}

// CheckRequest is the JSON API request body; exactly one field is set
type CheckRequest struct {
	Text string `json:"text" binding:"required_without=URL,excluded_with=URL"`
	URL  string `json:"url" binding:"omitempty,url"`
}

// New creates a server around checker
func New(checker Checker, cfg model.ServerConfig, opts ...Option) (*Server, error) {
	s := &Server{
		checker: checker,
		config:  cfg,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"verdictClass": func(v model.Verdict) string { return string(v) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())
	engine.SetHTMLTemplate(tmpl)

	engine.GET("/", s.handleForm)
	engine.POST("/", s.handleSubmit)
	engine.POST("/api/check", s.handleAPICheck)
	engine.GET("/health", s.handleHealth)
	if s.metrics != nil {
		engine.GET("/metrics", gin.WrapH(s.metrics))
	}

	s.engine = engine
	return s, nil
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down within the configured timeout
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down", "timeout", s.config.ShutdownTimeout)
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleForm(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", s.page())
}

func (s *Server) handleSubmit(c *gin.Context) {
	// Form encoding can triple the size of the text
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(s.config.MaxInputBytes)*3+1024)

	if err := c.Request.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.tooLarge(c)
			return
		}
		c.String(http.StatusBadRequest, "malformed form")
		return
	}
	text := c.Request.PostForm.Get("user_text")

	data := s.page()
	data.Text = text

	if strings.TrimSpace(text) == "" {
		data.Notice = emptyInputNotice
		c.HTML(http.StatusOK, "index.html", data)
		return
	}
	if len(text) > s.config.MaxInputBytes {
		s.tooLarge(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.RequestTimeout)
	defer cancel()

	report, err := s.checker.CheckText(ctx, text)
	if err != nil {
		s.logger.Error("check failed", "error", err)
		data.Error = "The check could not be completed. Please try again."
		c.HTML(statusFor(err), "index.html", data)
		return
	}

	data.Report = report
	c.HTML(http.StatusOK, "index.html", data)
}

func (s *Server) handleAPICheck(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(s.config.MaxInputBytes)*2+1024)

	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "input too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide exactly one of text or url: " + err.Error()})
		return
	}
	if len(req.Text) > s.config.MaxInputBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "input too large"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.RequestTimeout)
	defer cancel()

	var (
		report *model.Report
		err    error
	)
	if req.URL != "" {
		report, err = s.checker.CheckURL(ctx, req.URL)
	} else {
		report, err = s.checker.CheckText(ctx, req.Text)
	}
	if err != nil {
		s.logger.Warn("api check failed", "url", req.URL, "error", err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s *Server) handleHealth(c *gin.Context) {
	reporter, ok := s.checker.(HealthReporter)
	if c.Query("deep") != "true" || !ok {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.RequestTimeout)
	defer cancel()

	deps := reporter.Health(ctx)
	status, code := "ok", http.StatusOK
	for _, dep := range deps {
		if !dep.Available {
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}
	c.JSON(code, gin.H{"status": status, "dependencies": deps})
}

func (s *Server) tooLarge(c *gin.Context) {
	data := s.page()
	data.Error = "The text is too long. Please submit a shorter passage."
	c.HTML(http.StatusRequestEntityTooLarge, "index.html", data)
}

func (s *Server) page() pageData {
	return pageData{MaxInputBytes: s.config.MaxInputBytes}
}

// statusFor maps pipeline errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, pipeline.ErrDisallowed):
		return http.StatusForbidden
	case errors.Is(err, pipeline.ErrNoText):
		return http.StatusUnprocessableEntity
	case strings.HasPrefix(err.Error(), "invalid URL"):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	}
}
