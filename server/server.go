// Package server exposes the virtual table engine over HTTP: parameter
// submission, row-window requests, the column descriptor feed, and export
// downloads. Everything here is thin glue around the core packages; the wire
// shapes are defined in core/grid.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/asaidimu/go-events"
	"github.com/asaidimu/go-gridview/core/grid"
	"github.com/asaidimu/go-gridview/core/report"
	"github.com/asaidimu/go-gridview/export"
	"github.com/asaidimu/go-gridview/server/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SessionHeader identifies the client's session. Requests without it share
// the default session.
const SessionHeader = "X-Session-ID"

// Config carries the collaborators and tuning for a Service.
type Config struct {
	// DB is the already-open handle to the backing store.
	DB *sql.DB
	// Driver selects the executor's placeholder dialect.
	Driver string
	// Logger is used by the service and every core component. Optional.
	Logger *zap.Logger
	// Infer overrides the column inference defaults. Optional.
	Infer *grid.InferOptions
	// Engine overrides the engine defaults. Optional.
	Engine *grid.EngineOptions
}

// Service wires the normalizer, executor, session store, engine, and export
// adapter behind the HTTP surface, and publishes lifecycle events for every
// query and export.
type Service struct {
	logger   *zap.Logger
	executor *report.Executor
	schemas  map[string]report.ProcSchema
	store    *grid.SessionStore
	engine   *grid.Engine
	exporter *export.Exporter
	infer    grid.InferOptions
	bus      *events.TypedEventBus[grid.Event]
}

// New creates a fully wired Service.
func New(cfg Config) (*Service, error) {
	if cfg.DB == nil {
		return nil, fmt.Errorf("server: a database handle is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bus, err := events.NewTypedEventBus[grid.Event](events.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	infer := grid.DefaultInferOptions()
	if cfg.Infer != nil {
		infer = *cfg.Infer
	}
	engineOpts := grid.DefaultEngineOptions()
	if cfg.Engine != nil {
		engineOpts = *cfg.Engine
	}

	return &Service{
		logger:   logger,
		executor: report.NewExecutor(cfg.DB, cfg.Driver, logger),
		schemas:  report.Schemas(),
		store:    grid.NewSessionStore(),
		engine:   grid.NewEngine(engineOpts, logger),
		exporter: export.NewExporter(logger),
		infer:    infer,
		bus:      bus,
	}, nil
}

// Subscribe registers a callback for a lifecycle event type and returns the
// unsubscribe function.
func (s *Service) Subscribe(eventType grid.EventType, callback func(ctx context.Context, event grid.Event) error) func() {
	return s.bus.Subscribe(string(eventType), callback)
}

func (s *Service) emit(event grid.Event) {
	s.bus.Emit(string(event.Type), event)
}

// Router builds the gin router with all routes and middleware attached.
func (s *Service) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.metricsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	reports := api.Group("/reports/:kind")
	reports.POST("/query", s.handleQuery)
	reports.POST("/rows", s.handleRows)
	reports.GET("/columns", s.handleColumns)
	reports.GET("/export", s.handleExport)

	return router
}

// metricsMiddleware records request counts and latency per route.
func (s *Service) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RequestTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.RequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// session resolves the request's session from the session header.
func (s *Service) session(c *gin.Context) *grid.Session {
	return s.store.Get(c.GetHeader(SessionHeader))
}
