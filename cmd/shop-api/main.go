package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/vasiliy-maslov/honey-shop/internal/auth"
	"github.com/vasiliy-maslov/honey-shop/internal/config"
	"github.com/vasiliy-maslov/honey-shop/internal/db"
	"github.com/vasiliy-maslov/honey-shop/internal/events"
	shopHttp "github.com/vasiliy-maslov/honey-shop/internal/handler/http"
	"github.com/vasiliy-maslov/honey-shop/internal/logger"
	"github.com/vasiliy-maslov/honey-shop/internal/password"
	"github.com/vasiliy-maslov/honey-shop/internal/product"
	"github.com/vasiliy-maslov/honey-shop/internal/session"
	"github.com/vasiliy-maslov/honey-shop/internal/token"
	"github.com/vasiliy-maslov/honey-shop/internal/user"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("shop-api failed")
	}
	log.Info().Msg("shop-api stopped gracefully.")
}

func run() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLogger := logger.Setup(cfg.App, "shop-api")
	log.Info().Str("environment", cfg.App.Environment).Msg("Starting shop-api...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	postgres, err := db.New(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer postgres.Close()

	if err := postgres.ApplyMigrations(); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	codec := token.NewCodec([]byte(cfg.Auth.SecretKey), cfg.Auth.TokenTTL())
	cookies := session.NewCookieAdapter(cfg.Cookie, codec.TTL())

	authOpts := []auth.Option{}

	if cfg.Redis.URL != "" {
		redisClient, err := session.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer redisClient.Close()
		authOpts = append(authOpts, auth.WithRevoker(session.NewRedisRevoker(redisClient)))
		log.Info().Msg("Token revocation enabled")
	} else {
		log.Warn().Msg("REDIS_URL is not set, logout only clears the cookie")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Broker != "" {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Broker, cfg.Kafka.Topic)
		log.Info().Str("broker", cfg.Kafka.Broker).Str("topic", cfg.Kafka.Topic).Msg("Event publishing enabled")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close event publisher")
		}
	}()
	authOpts = append(authOpts, auth.WithPublisher(publisher))

	userSvc := user.NewService(user.NewRepository(postgres.Pool), hasher)
	authSvc := auth.NewService(userSvc, hasher, codec, authOpts...)
	productSvc := product.NewService(product.NewRepository(postgres.SQL), publisher)

	router := shopHttp.NewRouter(shopHttp.RouterDeps{
		Config:   cfg,
		Logger:   appLogger,
		Auth:     authSvc,
		Products: productSvc,
		Cookies:  cookies,
	})

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.App.Host, cfg.App.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
