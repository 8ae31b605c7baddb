package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"mindvault/internal/auth"
	"mindvault/internal/config"
	"mindvault/internal/embedding"
	"mindvault/internal/embedding/openai"
	"mindvault/internal/httpapi"
	"mindvault/internal/logging"
	"mindvault/internal/mailer"
	"mindvault/internal/service"
	"mindvault/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/mindvault/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Assemble components
	db, err := postgres.Connect(ctx, postgres.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Database: cfg.Database.Database,
		Username: cfg.Database.Username,
		Password: os.Getenv(cfg.Database.PasswordEnv),
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	items := postgres.NewItemStore(db)
	users := postgres.NewUserStore(db)
	verifications := postgres.NewVerificationStore(db)
	links := postgres.NewLinkStore(db)

	// The model is loaded on first use so that startup does not depend on
	// the embedding endpoint being reachable.
	embedder := embedding.NewLazy(func(ctx context.Context) (embedding.Embedder, error) {
		return openai.NewClient(ctx, openai.Config{
			BaseURL:   cfg.Embedder.BaseURL,
			APIKeyEnv: cfg.Embedder.APIKeyEnv,
			Model:     cfg.Embedder.Model,
			Dimension: cfg.Embedder.Dimension,
			Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
		})
	})

	secret := os.Getenv(cfg.Auth.JWTSecretEnv)
	if secret == "" {
		log.Fatalf("missing JWT secret in env %s", cfg.Auth.JWTSecretEnv)
	}
	tokens := auth.NewTokenManager([]byte(secret), cfg.Auth.Issuer, time.Duration(cfg.Auth.TokenTTLMins)*time.Minute)

	smtp, err := mailer.New(mailer.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: os.Getenv(cfg.Mail.PasswordEnv),
		From:     cfg.Mail.From,
	})
	if err != nil {
		log.Fatalf("failed to create mailer: %v", err)
	}

	otpExpiry := time.Duration(cfg.Auth.OTPExpiryMins) * time.Minute
	handler := httpapi.NewHandler(
		service.NewAuthService(users, verifications, smtp, tokens, otpExpiry, logger),
		service.NewContentService(items, embedder, logger),
		service.NewSearchService(items, embedder, cfg.Search.Threshold, cfg.Search.Limit, logger),
		service.NewShareService(links, users, items),
		tokens,
		logger,
	)

	srv := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     handler.Router(),
		ReadTimeout: time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSecs)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
