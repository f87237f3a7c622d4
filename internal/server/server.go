package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ivplatonov/stackd/internal/config"
	"github.com/ivplatonov/stackd/internal/device"
	stackhttp "github.com/ivplatonov/stackd/internal/http"
	"github.com/ivplatonov/stackd/internal/logging"
	"github.com/ivplatonov/stackd/internal/middleware"
	"github.com/ivplatonov/stackd/internal/monitoring"
	"github.com/ivplatonov/stackd/internal/presence"
	stackprovider "github.com/ivplatonov/stackd/internal/providers/stack"
	"github.com/ivplatonov/stackd/internal/service"
	"github.com/ivplatonov/stackd/internal/ws"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	cfg      *config.Config
	router   *gin.Engine
	log      *logging.Logger
	dev      *device.Device
	registry *service.Registry
	watcher  *presence.Watcher
	http     *http.Server
}

// New assembles the device, service registry, watcher, and HTTP surface from
// configuration.
func New(cfg *config.Config) (*Server, error) {
	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	metrics := monitoring.NewMetrics(nil)

	dev, err := device.New(device.Options{
		InitialCapacity: cfg.Stack.Capacity,
		MaxCapacity:     cfg.Stack.MaxCapacity,
		AutoResize:      cfg.Stack.AutoResize,
		Gated:           cfg.Presence.Gated,
	}, log.Named("device"), metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	registry := service.NewRegistry()
	if err := registry.Register(stackprovider.NewProvider(dev)); err != nil {
		return nil, fmt.Errorf("failed to register stack provider: %w", err)
	}

	var watcher *presence.Watcher
	if cfg.Presence.Gated && cfg.Presence.KeyPath != "" {
		watcher = presence.NewWatcher(dev, cfg.Presence.KeyPath, cfg.Presence.PollInterval, log.Named("presence"))
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	router.Use(monitoring.Middleware(metrics))

	handlers := stackhttp.NewHandlers(dev, registry, log.Named("http"))
	wsHandler := ws.NewHandler(dev, log.Named("ws"), metrics)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Stack operations
	router.POST("/stack/push", handlers.Push)
	router.POST("/stack/pop", handlers.Pop)
	router.POST("/stack/drain", handlers.Drain)
	router.PUT("/stack/capacity", handlers.SetCapacity)
	router.GET("/stack/capacity", handlers.GetCapacity)
	router.GET("/stack/usage", handlers.GetUsage)
	router.GET("/stack/stats", handlers.GetStats)
	router.POST("/stack/clear", handlers.Clear)

	// Presence control
	router.GET("/presence", handlers.Presence)
	router.POST("/presence/attach", handlers.Attach)
	router.POST("/presence/detach", handlers.Detach)

	// Service management
	router.GET("/services", handlers.ListServices)
	router.POST("/services/execute", handlers.ExecuteService)

	// WebSocket
	router.GET("/stream", wsHandler.HandleConnection)

	return &Server{
		cfg:      cfg,
		router:   router,
		log:      log,
		dev:      dev,
		registry: registry,
		watcher:  watcher,
	}, nil
}

// Run starts the presence watcher and serves HTTP until Shutdown.
func (s *Server) Run() error {
	if s.watcher != nil {
		s.watcher.Start(context.Background())
	}

	addr := s.cfg.Server.Host + ":" + s.cfg.Server.Port
	s.log.Info("starting server",
		zap.String("addr", addr),
		zap.Bool("gated", s.cfg.Presence.Gated),
		zap.Uint("capacity", s.cfg.Stack.Capacity),
	)

	s.http = &http.Server{Addr: addr, Handler: s.router}
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the watcher.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down")

	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	if s.watcher != nil {
		s.watcher.Stop()
	}
	s.log.Sync() //nolint:errcheck
	return err
}

// Device exposes the underlying device, used by tests.
func (s *Server) Device() *device.Device {
	return s.dev
}
