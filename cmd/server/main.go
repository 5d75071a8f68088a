package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"vuedubooks/internal/app"
	"vuedubooks/internal/config"
	"vuedubooks/internal/ratelimit"
	"vuedubooks/internal/registry"
	"vuedubooks/internal/server"
	"vuedubooks/internal/util"
	"vuedubooks/pkg/auth"
	"vuedubooks/pkg/notify"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := util.InitLogger(cfg.LogLevel)

	jwtTTL, err := config.ParseDuration(cfg.JWTTTL, 7*24*time.Hour)
	if err != nil {
		log.Fatalf("failed to parse jwt ttl: %v", err)
	}
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, jwtTTL)
	if err != nil {
		log.Fatalf("failed to init token manager: %v", err)
	}

	courseRegistry := registry.Default()
	if len(cfg.CourseCodes) > 0 {
		courseRegistry = registry.New(cfg.CourseCodes, cfg.Categories)
	}

	var notifier notify.Notifier
	if cfg.AMQPURL != "" {
		amqpNotifier, err := notify.NewAMQPNotifier(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatalf("failed to init amqp notifier: %v", err)
		}
		defer amqpNotifier.Close()
		notifier = amqpNotifier
	} else {
		slog.Warn("amqp url not configured, order notifications disabled")
	}

	appCore, err := app.New(app.Config{
		DatabaseURL: cfg.DatabaseURL,
		Notifier:    notifier,
		Registry:    courseRegistry,
		Tokens:      tokens,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	var limiter *ratelimit.FixedWindowLimiter
	if cfg.RedisAddr != "" && cfg.RateLimit > 0 {
		window, err := config.ParseDuration(cfg.RateWindow, time.Minute)
		if err != nil {
			log.Fatalf("failed to parse rate window: %v", err)
		}
		limiter, err = ratelimit.NewRedisFixedWindowLimiter(
			cfg.RedisAddr, cfg.RedisPassword, "vuedubooks:ratelimit", cfg.RateLimit, window)
		if err != nil {
			log.Fatalf("failed to init rate limiter: %v", err)
		}
	}

	proxies, err := util.NewTrustedProxies(cfg.TrustedProxy)
	if err != nil {
		log.Fatalf("failed to parse trusted proxies: %v", err)
	}

	httpServer, err := server.New(server.Config{
		App:            appCore,
		WriteLimiter:   limiter,
		TrustedProxies: proxies,
	})
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("marketplace server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}
