package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crewforge/backoffice/internal/common/config"
	"github.com/crewforge/backoffice/internal/database"
	"github.com/crewforge/backoffice/internal/notify"
	"github.com/crewforge/backoffice/internal/store"
	"github.com/crewforge/backoffice/pkg/logger"
	"github.com/crewforge/backoffice/pkg/metrics"
	"github.com/crewforge/backoffice/pkg/version"
)

var (
	configPath string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of the worker",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("worker version %s\n", version.Get())
		},
	}

	rootCmd = &cobra.Command{
		Use:   "worker",
		Short: "Notification delivery worker",
		Long:  `Consumes queued notification messages, persists notification records and fans them out on per-user channels`,
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "conf", "worker.yaml", "path to configuration file")
	rootCmd.AddCommand(versionCmd)
}

func run() {
	cfg, cfgPath, err := config.LoadConfig[config.WorkerConfig](configPath)
	if err != nil {
		log.Fatalf("Failed to load config from %s: %v", cfgPath, err)
	}

	lg, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	lg.Info("starting notification worker",
		zap.String("version", version.Get()),
		zap.String("config", cfgPath))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(&cfg.Database)
	if err != nil {
		lg.Fatal("failed to open database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	redisClient, err := notify.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		lg.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()

	var pipelineMetrics notify.PipelineMetrics
	if cfg.Metrics.Enabled {
		m := metrics.New(cfg.Metrics)
		pipelineMetrics = m

		port := cfg.Metrics.Port
		if port == 0 {
			port = 9090
		}
		metricsSrv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: m.Handler(),
		}
		go func() {
			lg.Info("metrics server listening", zap.Int("port", port))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				lg.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() { _ = metricsSrv.Close() }()
	}

	// The worker runs unscoped: it must see users across all teams.
	st := store.New(db, nil, lg)
	publisher := notify.NewRedisPublisher(lg, redisClient)
	deliverer := notify.NewDeliverer(lg, st, publisher, pipelineMetrics)
	consumer := notify.NewConsumer(lg, redisClient, deliverer, cfg.Consumer)

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		lg.Fatal("consumer stopped", zap.Error(err))
	}
	lg.Info("worker stopped")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
