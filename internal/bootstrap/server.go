package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/arpangb16/Prometheus-travel-planner/api"
	"github.com/arpangb16/Prometheus-travel-planner/config"
	"github.com/arpangb16/Prometheus-travel-planner/internal/service/auth"
	"github.com/arpangb16/Prometheus-travel-planner/internal/service/search"
	"github.com/arpangb16/Prometheus-travel-planner/internal/service/trips"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, authSvc auth.AuthUseCase, tripSvc trips.TripUseCase, searchSvc search.SearchUseCase) error {
	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, authSvc, tripSvc, searchSvc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, authSvc auth.AuthUseCase, tripSvc trips.TripUseCase, searchSvc search.SearchUseCase) *gin.Engine {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	authHandler := api.NewAuthHandler(authSvc)
	authHandler.Register(router.Group("/auth"))

	protected := router.Group("", api.AuthRequired(authSvc))
	authHandler.RegisterProtected(protected.Group("/auth"))
	api.NewTripHandler(tripSvc).Register(protected.Group("/trips"))
	api.NewAirfareHandler(searchSvc).Register(protected.Group("/airfare"))

	if cfg.HTTP.DocsDir != "" {
		router.StaticFile("/swagger/openapi.json", filepath.Join(cfg.HTTP.DocsDir, "openapi.json"))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/openapi.json"))))
	}

	return router
}
