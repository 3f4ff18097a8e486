package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gogotex/gogotex/backend/go-workflow/handlers"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/app"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/config"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/oidc"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/tokens"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/workflow/handler"
	"github.com/gogotex/gogotex/backend/go-workflow/pkg/logger"
	"github.com/gogotex/gogotex/backend/go-workflow/pkg/metrics"
	"github.com/gogotex/gogotex/backend/go-workflow/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.SetFormat(cfg.Log.Format)
	logger.Infof("config loaded: keycloak=%v mongo=%v redis=%v minio=%v", cfg.Keycloak.URL != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to build workflow service: %v", err)
	}

	if cfg.Server.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Permissive CORS for the editor UI; tighten at the ingress.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})
	r.Use(gin.Logger(), gin.Recovery())

	verifier := newVerifier(ctx, cfg)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// 200 only when the configured backends answer.
	r.GET("/ready", func(c *gin.Context) {
		pctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		deps := map[string]bool{"auth": verifier != nil}
		if a.Mongo != nil {
			deps["mongo"] = a.Mongo.Ping(pctx, nil) == nil
		}
		if a.Redis != nil {
			deps["redis"] = a.Redis.Ping(pctx).Err() == nil
		}
		ready := true
		for _, ok := range deps {
			ready = ready && ok
		}
		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	handlers.RegisterSwagger(r)

	api := r.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && a.Redis != nil {
			api.Use(middleware.RedisRateLimitMiddleware(a.Redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.Window))
		} else {
			api.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}
	handler.NewHandler(a.Service).Register(api, middleware.AuthMiddleware(verifier))

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting workflow service on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
	a.Close(sctx)
}

// newVerifier prefers Keycloak and falls back to HS256 tokens signed with JWT_SECRET.
// A nil result leaves every workflow route answering 404.
func newVerifier(ctx context.Context, cfg *config.Config) middleware.Verifier {
	if cfg.Keycloak.URL != "" && cfg.Keycloak.ClientID != "" {
		ver, err := oidc.NewVerifier(ctx, oidc.Issuer(cfg.Keycloak.URL, cfg.Keycloak.Realm), cfg.Keycloak.ClientID)
		if err == nil {
			return ver
		}
		logger.Warnf("failed to initialize OIDC verifier: %v", err)
	}
	if cfg.JWT.Secret != "" {
		ver, err := tokens.NewVerifier(cfg.JWT.Secret)
		if err == nil {
			return ver
		}
		logger.Warnf("failed to initialize token verifier: %v", err)
	}
	return nil
}
