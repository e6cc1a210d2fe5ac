package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ecardgame/ecard-server/internal/api"
	"github.com/ecardgame/ecard-server/internal/factory"
	redisstorage "github.com/ecardgame/ecard-server/internal/storage/redis"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ecard-server",
		Short: "Real-time two-player E-Card (Emperor/Citizen/Slave) game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
		SilenceUsage: true,
	}

	cmd.Flags().Int("port", 3000, "Listen port (env: ECARD_PORT)")
	cmd.Flags().String("storage", factory.StorageTypeMemory, "Storage backend: memory, redis (env: ECARD_STORAGE)")
	cmd.Flags().String("redis-url", "redis://localhost:6379", "Redis connection URL (env: ECARD_REDIS_URL)")
	cmd.Flags().String("static-dir", "public", "Directory of static client assets (env: ECARD_STATIC_DIR)")

	viper.SetEnvPrefix("ECARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(cmd.Flags())

	return cmd
}

func run() error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := factory.Config{
		Logger:      logger,
		StorageType: viper.GetString("storage"),
	}
	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = viper.GetString("redis-url")
		cfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}

	go app.Hub.Run()
	defer app.Hub.Close()

	router := api.NewRouter(api.RouterConfig{
		Logger:    logger,
		Hub:       app.Hub,
		StaticDir: viper.GetString("static-dir"),
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = viper.GetInt("port")
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}
