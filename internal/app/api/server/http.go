package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/subtrackr/subtrackr/docs"
	"github.com/subtrackr/subtrackr/internal/app/api/handlers"
	mw "github.com/subtrackr/subtrackr/internal/app/api/middleware"
	"github.com/subtrackr/subtrackr/internal/app/service/assist"
	"github.com/subtrackr/subtrackr/internal/app/service/notify"
	"github.com/subtrackr/subtrackr/internal/app/service/settings"
	subsvc "github.com/subtrackr/subtrackr/internal/app/service/subscription"
	cfgpkg "github.com/subtrackr/subtrackr/pkg/config"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

func registerRoutes(r *gin.Engine, log *zap.SugaredLogger, cfg *cfgpkg.Config, sub *subsvc.Service, settingsSvc *settings.Service, notifier *notify.Service, assistSvc *assist.Service) {
	// Prometheus metrics
	if cfg != nil && cfg.MetricsAddr != "" {
		p := ginprometheus.NewPrometheus("gin")
		p.ReqCntURLLabelMappingFn = func(c *gin.Context) string {
			if fp := c.FullPath(); fp != "" {
				return fp
			}
			return c.Request.URL.Path
		}
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected group: everything under /api/v1 requires a bearer token
	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.AuthMiddleware(cfg), mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())

	handlers.RegisterSubscriptionRoutes(apiV1, sub, notifier, log)
	handlers.RegisterStatsRoutes(apiV1, sub, settingsSvc, notifier, log)
	handlers.RegisterSettingsRoutes(apiV1, settingsSvc)
	handlers.RegisterExportRoutes(apiV1, sub)

	// AI endpoints additionally sit behind the shared hourly budget
	assistGroup := apiV1.Group("/")
	assistGroup.Use(mw.AssistRateLimitMiddleware(assistSvc))
	handlers.RegisterAssistRoutes(assistGroup, assistSvc, sub)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
