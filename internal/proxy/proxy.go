// Package proxy serves the upstream news API under a local path prefix and
// injects the API credential server side, so clients never carry it.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pders01/pulse/internal/debuglog"
	"github.com/pders01/pulse/internal/validation"
)

const (
	shutdownTimeout = 5 * time.Second
	requestIDHeader = "X-Request-ID"
)

type Config struct {
	Listen string
	// PathPrefix is stripped before forwarding, e.g. /api/news.
	PathPrefix string
	// Upstream is the provider base URL requests are forwarded to.
	Upstream string
	// KeyParam names the credential query parameter. Client supplied
	// values are always removed; Key is added when non-empty.
	KeyParam       string
	Key            string
	AllowedOrigins []string
	Timeout        time.Duration
}

type Server struct {
	cfg      Config
	prefix   string
	upstream *url.URL
	proxy    *httputil.ReverseProxy
	engine   *gin.Engine
}

func New(cfg Config) (*Server, error) {
	prefix := strings.TrimRight(cfg.PathPrefix, "/")
	if !strings.HasPrefix(prefix, "/") {
		return nil, fmt.Errorf("path prefix must start with '/' and not be root, got %q", cfg.PathPrefix)
	}

	normalized, err := validation.NewBaseURLValidator().Validate(cfg.Upstream)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream: %w", err)
	}
	upstream, err := url.Parse(normalized)
	if err != nil {
		return nil, fmt.Errorf("parsing upstream: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		prefix:   prefix,
		upstream: upstream,
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Timeout > 0 {
		transport.ResponseHeaderTimeout = cfg.Timeout
	}
	s.proxy = &httputil.ReverseProxy{
		Rewrite:      s.rewrite,
		Transport:    transport,
		ErrorHandler: s.upstreamError,
	}

	s.engine = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger())

	if len(s.cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(corsConfig(s.cfg.AllowedOrigins)))
	}

	r.GET("/health", s.health)
	r.GET(s.prefix+"/*path", s.forward)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"upstream": s.upstream.Host,
		"key":      s.cfg.Key != "",
	})
}

func (s *Server) forward(c *gin.Context) {
	s.proxy.ServeHTTP(c.Writer, c.Request)
}

// rewrite maps {prefix}/x?params to {upstream}/x?params with the credential
// replaced.
func (s *Server) rewrite(pr *httputil.ProxyRequest) {
	path := strings.TrimPrefix(pr.In.URL.Path, s.prefix)
	if path == "" {
		path = "/"
	}
	pr.Out.URL.Path = path
	pr.Out.URL.RawPath = ""

	q := pr.In.URL.Query()
	for k := range q {
		if strings.EqualFold(k, s.cfg.KeyParam) {
			q.Del(k)
		}
	}
	if s.cfg.Key != "" && s.cfg.KeyParam != "" {
		q.Set(s.cfg.KeyParam, s.cfg.Key)
	}
	pr.Out.URL.RawQuery = q.Encode()

	pr.SetURL(s.upstream)
	pr.Out.Header.Del("Cookie")
	pr.Out.Header.Del("Authorization")
}

func (s *Server) upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	debuglog.WithFields(debuglog.Fields{"path": r.URL.Path}).Errorf("upstream request failed: %v", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	_, _ = w.Write([]byte(`{"errors":["upstream unavailable"]}`))
}

// requestID keeps a client supplied X-Request-ID or assigns a new one, and
// echoes it on the response.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		debuglog.WithFields(debuglog.Fields{
			"id":       c.GetString("request_id"),
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).Round(time.Millisecond),
		}).Infof("proxy request")
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving proxy: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down proxy: %w", err)
		}
		return nil
	}
}

func (s *Server) Upstream() string {
	return s.upstream.String()
}
