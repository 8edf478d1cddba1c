package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/billix/billix-be/app/rewards"
	"github.com/billix/billix-be/cache"
	"github.com/billix/billix-be/config"
	"github.com/billix/billix-be/controllers"
	"github.com/billix/billix-be/db/planetscale"
	"github.com/billix/billix-be/jobs"
	"github.com/billix/billix-be/logging"
	"github.com/billix/billix-be/metrics"
	"github.com/billix/billix-be/middleware"
	"github.com/billix/billix-be/routes"
	"github.com/billix/billix-be/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logging.Component("web")

	db, err := planetscale.GetDatabase(&planetscale.Config{
		DSN:             cfg.DB.DSN(false),
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxIdleTime: cfg.DB.ConnMaxIdleTime,
	})
	if err != nil {
		return fmt.Errorf("connecting to the database: %w", err)
	}
	defer db.Close()

	if err := configureFirebaseCredentials(); err != nil {
		return fmt.Errorf("configuring firebase credentials: %w", err)
	}
	firebaseApp, err := firebase.NewApp(ctx, nil)
	if err != nil {
		return fmt.Errorf("initializing firebase: %w", err)
	}
	verifier, err := newVerifier(ctx, cfg, firebaseApp)
	if err != nil {
		return err
	}
	userBucket, err := services.NewStorageBucket(ctx, firebaseApp, cfg.Storage.Bucket)
	if err != nil {
		return fmt.Errorf("connecting to the user uploads bucket: %w", err)
	}
	reactionCache, err := newCache(ctx, cfg)
	if err != nil {
		return err
	}
	if closer, ok := reactionCache.(io.Closer); ok {
		defer closer.Close()
	}
	catalog, err := rewards.DefaultCatalog()
	if err != nil {
		return fmt.Errorf("loading the rewards catalog: %w", err)
	}

	groupController, err := controllers.NewGroupController(ctx, db)
	if err != nil {
		return fmt.Errorf("initializing the group controller: %w", err)
	}
	rewardsController := controllers.NewRewardsController(db, catalog)
	reactionController := controllers.NewReactionController(db, reactionCache)
	postController := controllers.NewPostController(db, groupController, userBucket, rewardsController)
	reliefController := controllers.NewReliefController(db, userBucket)
	swapController := controllers.NewSwapController(db)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())
	r.Use(metrics.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Origins(),
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	limit := rateLimiter.Handler()
	routes.AddHealthCheckRoutes(&r.RouterGroup, db.GetSQLDB())
	routes.AddMetricsRoutes(&r.RouterGroup)
	routes.AddUserRoutes(&r.RouterGroup, db, verifier)
	routes.AddGroupRoutes(&r.RouterGroup, db, groupController, verifier, limit)
	routes.AddPostRoutes(&r.RouterGroup, db, postController, reactionController, verifier, limit)
	routes.AddFeedRoutes(&r.RouterGroup, db, verifier)
	routes.AddRewardsRoutes(&r.RouterGroup, db, rewardsController, verifier, limit)
	routes.AddReliefRoutes(&r.RouterGroup, db, reliefController, verifier, limit)
	routes.AddSwapRoutes(&r.RouterGroup, db, swapController, verifier, limit)
	routes.AddUploadRoutes(&r.RouterGroup, db, userBucket, verifier, limit)

	scheduler := jobs.NewScheduler()
	for _, job := range []jobs.Job{
		jobs.RefreshGroupTree(cfg.Jobs.RefreshGroupTree, groupController),
		jobs.ExpireReliefRequests(cfg.Jobs.ExpireRelief, reliefController),
		jobs.CancelStaleSwaps(cfg.Jobs.CancelStaleSwaps, swapController),
		jobs.DrawGiveaway(cfg.Jobs.DrawGiveaway, rewardsController),
		jobs.CleanupRateLimiter(cfg.Jobs.RateLimiterCleanup, rateLimiter),
	} {
		if err := scheduler.Register(job); err != nil {
			return fmt.Errorf("scheduling %v: %w", job.Name, err)
		}
	}
	scheduler.Start()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", server.Addr).Info("listening")
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("running the web server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	scheduler.Stop(shutdownCtx)
	return server.Shutdown(shutdownCtx)
}

func newVerifier(ctx context.Context, cfg *config.Config, firebaseApp *firebase.App) (middleware.IdentityVerifier, error) {
	if cfg.Auth.Provider == config.AuthProviderJWT {
		return middleware.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer), nil
	}
	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing the auth client: %w", err)
	}
	return middleware.NewFirebaseVerifier(authClient), nil
}

// newCache uses redis when REDIS_URL is set so every instance shares reaction counts
func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if cfg.RedisURL == "" {
		return cache.NewMemoryCache(), nil
	}
	redisCache, err := cache.NewRedisCache(cfg.RedisURL, "billix:")
	if err != nil {
		return nil, fmt.Errorf("parsing REDIS_URL: %w", err)
	}
	if err := redisCache.Ping(ctx); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return redisCache, nil
}
