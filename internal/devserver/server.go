// Package devserver is a local stand-in for the hosted backend: the REST
// subset the client uses plus the summarization function, over SQLite.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Makepad-fr/todosum/internal/summary"
)

type Config struct {
	Addr       string
	DBPath     string // ":memory:" for a throwaway database
	Table      string
	Function   string
	WebhookURL string // receives {"text": digest}; empty skips delivery
	JWTSecret  string // when set, bearer tokens must be HS256 signed with it

	Logger     *log.Logger
	HTTPClient *http.Client // for webhook delivery
}

type Server struct {
	cfg    Config
	db     *db
	log    *log.Logger
	http   *http.Client
	engine *gin.Engine
}

func New(cfg Config) (*Server, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("devserver: db path not set")
	}
	if cfg.Table == "" {
		cfg.Table = "todos"
	}
	if cfg.Function == "" {
		cfg.Function = summary.DefaultFunction
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}

	d, err := openDB(cfg.DBPath, cfg.Table)
	if err != nil {
		return nil, err
	}
	s := &Server{cfg: cfg, db: d, log: cfg.Logger, http: cfg.HTTPClient}
	s.engine = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog(), s.authenticate())

	rest := r.Group("/rest/v1")
	rest.GET("/:table", s.table(s.handleList))
	rest.POST("/:table", s.table(s.handleInsert))
	rest.PATCH("/:table", s.table(s.handleUpdate))
	rest.DELETE("/:table", s.table(s.handleDelete))

	r.POST("/functions/v1/:name", s.handleFunction)
	return r
}

func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("dev backend listening", "addr", s.cfg.Addr, "db", s.cfg.DBPath)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) Close() error { return s.db.Close() }

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start))
	}
}

// authenticate verifies the bearer token when a secret is configured.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.JWTSecret == "" {
			c.Next()
			return
		}
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || raw == "" {
			abort(c, http.StatusUnauthorized, "PGRST301", "missing bearer token")
			return
		}
		_, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
			return []byte(s.cfg.JWTSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			abort(c, http.StatusUnauthorized, "PGRST301", "invalid token: "+err.Error())
			return
		}
		c.Next()
	}
}

// table rejects requests for tables other than the configured one.
func (s *Server) table(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param("table") != s.cfg.Table {
			abort(c, http.StatusNotFound, "42P01", fmt.Sprintf("relation %q does not exist", c.Param("table")))
			return
		}
		h(c)
	}
}

// abort writes a PostgREST-shaped error body.
func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"code": code, "message": msg, "details": nil, "hint": nil})
}
