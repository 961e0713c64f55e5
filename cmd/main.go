package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"bookshelf-service/internal/api"
	"bookshelf-service/internal/config"
	"bookshelf-service/internal/consumer"
	"bookshelf-service/internal/database"
	"bookshelf-service/internal/repository"
	"bookshelf-service/internal/service"
)

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if cfg.Debug {
		level = zerolog.DebugLevel
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger().Level(level)
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
}

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Service stopped with error")
	}
}

func run() error {
	cfg := config.Load()

	logger := newLogger(cfg)
	log.Logger = logger
	service.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	var rdb *redis.Client
	if cfg.CacheEnabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis not reachable, reads fall back to the database")
		}
	}

	var events service.EventWriter
	if cfg.EventsEnabled() {
		kafkaWriter := config.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaWriter.Close()
		events = kafkaWriter
	}

	bookRepo := repository.NewBookRepository(db)
	userRepo := repository.NewUserRepository(db)
	bookService := service.NewBookService(*bookRepo, rdb, cfg.CacheTTL, events)
	userService := service.NewUserService(*userRepo, rdb, cfg.CacheTTL, events)

	e := api.NewRouter(cfg, logger, bookService, userService)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	// peers only matter when there is a shared cache to keep honest
	if cfg.EventsEnabled() && cfg.CacheEnabled() {
		reader := config.NewKafkaReader(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID)
		defer reader.Close()
		c := consumer.NewConsumer(reader, bookService, userService)
		g.Go(func() error {
			return c.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("Server shut down.")
	return nil
}
