package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"hardwarebot/internal/api"
	"hardwarebot/internal/config"
	"hardwarebot/internal/extract"
	"hardwarebot/internal/service/ai"
	"hardwarebot/internal/service/assistant"
	"hardwarebot/internal/storage"
)

var (
	configPath string
	addrFlag   string
)

func main() {
	root := &cobra.Command{
		Use:          "hardwarebot",
		Short:        "Chat and file-analysis relay to a hosted language model",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json or config.yaml (default: $HARDWAREBOT_CONFIG or ./config.json)")
	root.PersistentFlags().StringVar(&addrFlag, "addr", "", "listen address, overrides server_address")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  runServe,
	})
	root.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate configuration and print the effective settings",
		RunE:  runCheck,
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.PathFromEnv()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if addrFlag != "" {
		cfg.BasicConfig.ServerAddress = addrFlag
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.BasicConfig.LogLevel)
	if !strings.EqualFold(cfg.BasicConfig.LogLevel, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provCfg := cfg.Active()
	chatModel, err := ai.NewChatModel(ctx, cfg.Provider, provCfg)
	if err != nil {
		return err
	}
	relay := ai.NewRelay(chatModel, ai.RelayConfig{
		Provider:    cfg.Provider,
		Model:       provCfg.Model,
		Temperature: provCfg.Temperature,
	}, logger)

	store, err := storage.Open(cfg.BasicConfig.UploadDir)
	if err != nil {
		return err
	}
	extractor, err := extract.NewDispatcher(ctx)
	if err != nil {
		return err
	}
	assistantService := assistant.NewService(relay, store, extractor, logger)
	assistantService.StartUploadCleaner(ctx,
		time.Duration(cfg.BasicConfig.CleanInterval)*time.Minute,
		time.Duration(cfg.BasicConfig.UploadRetention)*time.Minute,
	)

	router := gin.New()
	api.NewHandler(assistantService, logger).RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = config.DefaultAddress
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			"addr", addr,
			"provider", cfg.Provider,
			"model", provCfg.Model,
			"upload_dir", store.Dir(),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p := cfg.Active()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "server_address:   %s\n", cfg.BasicConfig.ServerAddress)
	fmt.Fprintf(out, "upload_dir:       %s\n", cfg.BasicConfig.UploadDir)
	fmt.Fprintf(out, "upload_retention: %dm\n", cfg.BasicConfig.UploadRetention)
	fmt.Fprintf(out, "provider:         %s\n", cfg.Provider)
	fmt.Fprintf(out, "model:            %s\n", p.Model)
	fmt.Fprintf(out, "temperature:      %.2f\n", p.Temperature)
	fmt.Fprintf(out, "api_key:          %s\n", redact(p.APIKey))
	return nil
}

func redact(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
