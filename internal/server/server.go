package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"ge-lookup/internal/aggregator"
	"ge-lookup/internal/catalog"
	"ge-lookup/internal/health"
	"ge-lookup/internal/provider"
	"ge-lookup/internal/search"
	"ge-lookup/internal/view"
)

// Options configure the HTTP API.
type Options struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Server exposes the ranked search list, the merged item record, and the
// per-source status strip over HTTP.
type Server struct {
	opts    Options
	engine  *search.Engine
	index   *catalog.Index
	agg     *aggregator.Aggregator
	tracker *health.Tracker
	logger  zerolog.Logger
}

// New constructs the API server.
func New(opts Options, engine *search.Engine, index *catalog.Index, agg *aggregator.Aggregator, tracker *health.Tracker, logger zerolog.Logger) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	return &Server{
		opts:    opts,
		engine:  engine,
		index:   index,
		agg:     agg,
		tracker: tracker,
		logger:  logger.With().Str("component", "http_server").Logger(),
	}
}

// Router builds the gin handler tree.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/search", s.searchItems)
		api.GET("/items/:id", s.getItem)
		api.GET("/status", s.getStatus)
		api.POST("/reload", s.reload)
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.opts.Addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.opts.Addr).Msg("http api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type searchResult struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Members bool   `json:"members"`
	IconKey string `json:"icon"`
}

func (s *Server) searchItems(c *gin.Context) {
	query := c.Query("q")
	snap := s.index.Snapshot()

	matches := s.engine.Search(query, snap.Entries())
	results := make([]searchResult, 0, len(matches))
	for _, e := range matches {
		results = append(results, searchResult{ID: e.ID, Name: e.Name, Members: e.Members, IconKey: e.IconKey})
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"results": results,
	})
}

func (s *Server) getItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item id must be numeric"})
		return
	}

	entry, ok := s.index.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown item id"})
		return
	}

	item := s.composeItem(entry)
	resp := gin.H{"item": item}
	if !item.HasQuote() {
		resp["marketNote"] = view.NoMarketData
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) composeItem(entry catalog.Entry) view.Item {
	var quote *provider.PriceQuote
	if q, ok := s.agg.Price(entry.ID); ok {
		quote = &q
	}

	var attrs *provider.AttributeRecord
	if a, ok := s.agg.Attributes(entry.ID); ok {
		attrs = &a
	}

	return view.Compose(entry, quote, attrs)
}

func (s *Server) getStatus(c *gin.Context) {
	statuses := s.tracker.Statuses()
	out := make(map[string]string, len(statuses))
	for source, status := range statuses {
		out[string(source)] = string(status)
	}
	c.JSON(http.StatusOK, gin.H{"sources": out, "entries": s.index.Len()})
}

func (s *Server) reload(c *gin.Context) {
	if err := s.agg.Load(c.Request.Context()); err != nil {
		s.logger.Error().Err(err).Msg("reload failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "catalog reload failed; please retry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entries": s.index.Len(),
		"quotes":  s.agg.QuoteCount(),
	})
}
