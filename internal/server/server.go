// Package server assembles the application: configuration, logging,
// storage, the relay, the HTTP API and the gRPC health sidecar.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/splatmarket/splatmarket/app/controllers"
	appgraphql "github.com/splatmarket/splatmarket/app/graphql"
	"github.com/splatmarket/splatmarket/app/repositories"
	"github.com/splatmarket/splatmarket/app/routes"
	"github.com/splatmarket/splatmarket/app/services"
	"github.com/splatmarket/splatmarket/config"
	"github.com/splatmarket/splatmarket/internal/relay"
	"github.com/splatmarket/splatmarket/pkg/auth"
	"github.com/splatmarket/splatmarket/pkg/cache"
	"github.com/splatmarket/splatmarket/pkg/database"
	"github.com/splatmarket/splatmarket/pkg/grpcserver"
	"github.com/splatmarket/splatmarket/pkg/logger"
	"github.com/splatmarket/splatmarket/pkg/metrics"
	"github.com/splatmarket/splatmarket/pkg/middleware"
	"github.com/splatmarket/splatmarket/pkg/orm"
	"github.com/splatmarket/splatmarket/pkg/reqid"
	"github.com/splatmarket/splatmarket/pkg/router"
	"github.com/splatmarket/splatmarket/pkg/storage"
)

// cacheStore adapts the package-level cache functions to the orm hook.
type cacheStore struct{}

func (cacheStore) Get(key string, dest interface{}) bool { return cache.Get(key, dest) }
func (cacheStore) Set(key string, value interface{}, ttl time.Duration) error {
	return cache.Set(key, value, ttl)
}

type Server struct {
	Router *router.Router

	http     *http.Server
	grpc     *grpcserver.Server
	relay    *relay.Manager
	logClose func()
}

// New boots every subsystem and wires the route table. Callers run the
// result with Run.
func New(ctx context.Context) (*Server, error) {
	logClose, err := logger.Boot()
	if err != nil {
		return nil, fmt.Errorf("server: logger: %w", err)
	}

	if err := database.Connect(); err != nil {
		logClose()
		return nil, err
	}

	if err := cache.Connect(); err != nil {
		// The cache is optional; every read degrades to a miss.
		logger.Warn(ctx, "redis unavailable, caching disabled", "error", err)
	}
	orm.CacheStore = cacheStore{}

	if err := storage.Connect(ctx); err != nil {
		logClose()
		return nil, err
	}

	verifier, err := auth.FromConfig()
	if err != nil {
		logClose()
		return nil, err
	}

	users := repositories.NewUserRepository(nil)
	items := repositories.NewItemRepository(nil)
	categories := repositories.NewCategoryRepository(nil)
	reviews := repositories.NewReviewRepository(nil)
	orders := repositories.NewOrderRepository(nil)

	media := services.NewMediaService(storage.Default())
	accounts := services.NewAccountService(users, verifier)
	catalog := services.NewCatalogService(items, categories, reviews, media)
	orderSvc := services.NewOrderService(orders, users, items)
	render := services.NewRenderService(items)

	relayMgr := relay.NewManager(config.RenderProgressURL(), config.RelayPollInterval())

	schema, err := appgraphql.NewSchema(catalog)
	if err != nil {
		logClose()
		return nil, fmt.Errorf("server: graphql schema: %w", err)
	}

	r := router.New()
	r.Use(
		metrics.Middleware,
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS,
		middleware.RateLimit(50, 100),
		chimw.StripSlashes,
	)

	routes.Register(r, routes.Handlers{
		Users:      controllers.NewUserController(accounts),
		Items:      controllers.NewItemController(catalog),
		Categories: controllers.NewCategoryController(catalog),
		Reviews:    controllers.NewReviewController(catalog),
		Orders:     controllers.NewOrderController(orderSvc),
		Render:     controllers.NewRenderController(render),
		GraphQL:    appgraphql.Handler(schema),
		RelayWS:    relayMgr.HandleWS,
	})

	gs, err := grpcserver.New(config.GRPCPort())
	if err != nil {
		logClose()
		return nil, err
	}

	return &Server{
		Router: r,
		http: &http.Server{
			Addr:              ":" + config.AppPort(),
			Handler:           r.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		grpc:     gs,
		relay:    relayMgr,
		logClose: logClose,
	}, nil
}

// Run serves until ctx is cancelled, then shuts everything down in order:
// HTTP listener, relay sessions, health sidecar, log sink.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		logger.Info(ctx, "http listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	go func() {
		logger.Info(ctx, "grpc health listening", "port", config.GRPCPort())
		if err := s.grpc.Serve(); err != nil {
			errCh <- err
		}
	}()

	s.grpc.SetServing(true)

	select {
	case err := <-errCh:
		s.shutdown()
		return err
	case <-ctx.Done():
	}

	s.grpc.SetServing(false)
	logger.Info(ctx, "shutting down")
	s.shutdown()
	return nil
}

func (s *Server) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "http shutdown", "error", err)
	}
	if err := s.relay.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "relay shutdown", "error", err)
	}
	s.grpc.Stop()
	s.logClose()
}
