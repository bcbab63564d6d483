// Package server exposes a puzzle store over HTTP in the layout the viewer's
// remote store reads: a list endpoint and one JSON document per puzzle.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"arcview/internal/puzzles"
)

const docSuffix = ".json"

type Options struct {
	Store    puzzles.Store
	Logger   *log.Logger
	ListPath string
	// CacheList keeps the identifier list in memory until Invalidate.
	CacheList       bool
	ShutdownTimeout time.Duration
}

type Server struct {
	store    puzzles.Store
	logger   *log.Logger
	listPath string
	cache    bool
	timeout  time.Duration

	engine *gin.Engine

	mu     sync.RWMutex
	ids    []string
	cached bool
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.ListPath == "" {
		opts.ListPath = puzzles.DefaultListPath
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	s := &Server{
		store:    opts.Store,
		logger:   opts.Logger,
		listPath: "/" + strings.TrimLeft(opts.ListPath, "/"),
		cache:    opts.CacheList,
		timeout:  opts.ShutdownTimeout,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), observe(), requestLogger(s.logger))
	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET(s.listPath, s.handleList)
	r.GET(puzzles.DataPrefix+":file", s.handleDocument)
	return r
}

func (s *Server) Handler() http.Handler { return s.engine }

// Invalidate drops the cached identifier list.
func (s *Server) Invalidate() {
	s.mu.Lock()
	s.ids, s.cached = nil, false
	s.mu.Unlock()
	listCacheEvents.WithLabelValues("invalidate").Inc()
	s.logger.Debug("list.invalidated")
}

func (s *Server) listIdentifiers(ctx context.Context) ([]string, error) {
	if s.cache {
		s.mu.RLock()
		ids, ok := s.ids, s.cached
		s.mu.RUnlock()
		if ok {
			listCacheEvents.WithLabelValues("hit").Inc()
			return ids, nil
		}
		listCacheEvents.WithLabelValues("miss").Inc()
	}
	ids, err := s.store.ListIdentifiers(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache {
		s.mu.Lock()
		s.ids, s.cached = ids, true
		s.mu.Unlock()
	}
	return ids, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleList(c *gin.Context) {
	ids, err := s.listIdentifiers(c.Request.Context())
	if err != nil {
		s.logger.Error("list.failed", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "puzzle list unavailable"})
		return
	}
	body, err := puzzles.EncodeList(ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// handleDocument serves {id}.json. Documents are decoded and validated
// before they go out, so a malformed file is never served.
func (s *Server) handleDocument(c *gin.Context) {
	file := c.Param("file")
	id, ok := strings.CutSuffix(file, docSuffix)
	if !ok || id == "" {
		documentErrors.WithLabelValues("not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	doc, err := s.store.Load(c.Request.Context(), id)
	switch {
	case errors.Is(err, puzzles.ErrNotFound):
		documentErrors.WithLabelValues("not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	case errors.Is(err, puzzles.ErrMalformedDocument):
		documentErrors.WithLabelValues("malformed").Inc()
		s.logger.Warn("document.malformed", "id", id, "err", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "malformed puzzle document"})
		return
	case err != nil:
		documentErrors.WithLabelValues("internal").Inc()
		s.logger.Error("document.failed", "id", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}
	body, err := puzzles.Encode(doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// Serve runs the HTTP server on ln until ctx is cancelled, then shuts it
// down within the configured timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server.listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.logger.Info("server.stopped", "err", err)
		return err
	})
	return g.Wait()
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Watch invalidates the list cache whenever documents in dir are added or
// removed. The returned close func stops the watcher.
func (s *Server) Watch(ctx context.Context, dir string) (func() error, error) {
	w, err := puzzles.NewWatcher(dir, puzzles.DefaultDebounce, s.Invalidate, func(err error) {
		s.logger.Warn("watch.error", "err", err)
	})
	if err != nil {
		return nil, err
	}
	w.Start(ctx)
	return w.Close, nil
}
