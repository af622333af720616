package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/crewforge/backoffice/internal/apiserver/handler"
	"github.com/crewforge/backoffice/internal/auth/jwt"
	"github.com/crewforge/backoffice/internal/common/config"
	"github.com/crewforge/backoffice/internal/database"
	"github.com/crewforge/backoffice/internal/events"
	"github.com/crewforge/backoffice/internal/notify"
	"github.com/crewforge/backoffice/internal/store"
	"github.com/crewforge/backoffice/internal/tenant"
	"github.com/crewforge/backoffice/pkg/logger"
	"github.com/crewforge/backoffice/pkg/metrics"
	"github.com/crewforge/backoffice/pkg/trace"
	"github.com/crewforge/backoffice/pkg/version"
)

var (
	configPath string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of backoffice",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("backoffice version %s\n", version.Get())
		},
	}

	rootCmd = &cobra.Command{
		Use:   "backoffice",
		Short: "Back-office API server",
		Long:  `Multi-tenant back-office API server: teams, employees, contracts, invoicing, subscriptions, API tokens and notifications`,
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "conf", "backoffice.yaml", "path to configuration file")
	rootCmd.AddCommand(versionCmd)
}

func run() {
	cfg, cfgPath, err := config.LoadConfig[config.APIServerConfig](configPath)
	if err != nil {
		log.Fatalf("Failed to load config from %s: %v", cfgPath, err)
	}

	lg, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	lg.Info("starting backoffice",
		zap.String("version", version.Get()),
		zap.String("config", cfgPath))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := trace.InitTracing(ctx, &cfg.Tracing, lg)
	if err != nil {
		lg.Fatal("failed to init tracing", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, err := database.Open(&cfg.Database)
	if err != nil {
		lg.Fatal("failed to open database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	if err := database.Migrate(db); err != nil {
		lg.Fatal("failed to migrate database", zap.Error(err))
	}

	redisClient, err := notify.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		lg.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()

	queue := notify.NewRedisQueue(lg, redisClient, "")

	bus := events.NewBus(lg)
	bus.SubscribeMemberAdded(notify.WelcomeSubscriber(lg, queue))

	st := store.New(db, bus, lg)
	resolver := tenant.NewResolver(db, lg)

	jwtService, err := jwt.NewService(cfg.JWT)
	if err != nil {
		lg.Fatal("failed to create jwt service", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Tracing.Enabled {
		router.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}

	m := metrics.New(cfg.Metrics)
	if cfg.Metrics.Enabled {
		router.Use(m.GinMiddleware())
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	h := handler.New(lg, st, jwtService, queue, resolver)
	h.Register(router)

	port := cfg.Port
	if port == 0 {
		port = 8080
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		lg.Info("http server listening", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("graceful shutdown failed", zap.Error(err))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
