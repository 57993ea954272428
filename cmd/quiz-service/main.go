package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quickquiz/internal/config"
	"quickquiz/internal/database"
	"quickquiz/internal/httpapi"
	"quickquiz/internal/logger"
	"quickquiz/internal/quiz"
	"quickquiz/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	addr := flag.String("addr", cfg.HTTP.Addr, "HTTP listen address")
	driver := flag.String("store", cfg.Store.Driver, "store driver: sqlite, postgres or memory")
	sqlitePath := flag.String("sqlite-path", cfg.Store.SQLitePath, "SQLite database file")
	seedFile := flag.String("seed", cfg.Store.SeedFile, "seed file (.json or .xlsx) imported into the store at startup")
	flag.Parse()

	cfg.HTTP.Addr = *addr
	cfg.Store.Driver = *driver
	cfg.Store.SQLitePath = *sqlitePath
	cfg.Store.SeedFile = *seedFile
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	log := logger.Setup(cfg.Log.Level, cfg.Log.Format)
	log.Info().
		Str("env", cfg.Env).
		Str("addr", cfg.HTTP.Addr).
		Str("store", cfg.Store.Driver).
		Msg("starting quiz-service")

	open, err := database.OpenerFor(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid store configuration")
	}
	// The store connects on the first request and is reused afterwards.
	store := database.NewHandle(open, log)

	if cfg.Store.SeedFile != "" {
		seedCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		report, err := seed.ImportFile(seedCtx, store, cfg.Store.SeedFile, log)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.Store.SeedFile).Msg("seed store")
		}
		if report.FailedRows > 0 {
			log.Warn().Int("failed", report.FailedRows).Msg("some seed rows were rejected")
		}
	} else if cfg.Store.Driver == config.DriverMemory {
		log.Warn().Msg("memory store started without -seed; it will serve no questions")
	}

	service := quiz.NewService(store, store, log)
	server := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: httpapi.NewRouter(service, log, httpapi.RouterOptions{
			LogBodyBytes: cfg.Log.BodyBytes,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("quiz-service listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}
	if err := store.Close(); err != nil {
		log.Error().Err(err).Msg("store close error")
	}

	log.Info().Msg("shutdown complete")
}
