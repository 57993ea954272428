package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"quickquiz/internal/config"
	"quickquiz/internal/database"
	"quickquiz/internal/logger"
	"quickquiz/internal/opentdb"
	"quickquiz/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	file := flag.String("file", "", "seed file (.json or .xlsx)")
	trivia := flag.Int("opentdb", 0, "fetch this many multiple-choice questions from OpenTriviaDB")
	driver := flag.String("store", cfg.Store.Driver, "store driver: sqlite or postgres")
	sqlitePath := flag.String("sqlite-path", cfg.Store.SQLitePath, "SQLite database file")
	flag.Parse()

	log := logger.Setup(cfg.Log.Level, cfg.Log.Format)

	if (*file == "") == (*trivia <= 0) {
		fmt.Fprintln(os.Stderr, "error: exactly one of -file or -opentdb is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg.Store.Driver = *driver
	cfg.Store.SQLitePath = *sqlitePath
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid store configuration")
	}
	if cfg.Store.Driver == config.DriverMemory {
		log.Fatal().Msg("seeding the memory store has no lasting effect; use quiz-service -seed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var rows []seed.Row
	if *file != "" {
		rows, err = seed.LoadFile(*file)
		if err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("load seed file")
		}
	} else {
		client := opentdb.NewClient(&http.Client{Timeout: 15 * time.Second})
		raw, err := client.FetchQuestions(ctx, *trivia)
		if err != nil {
			log.Fatal().Err(err).Msg("fetch opentdb questions")
		}
		rows = seed.FromOpenTDB(raw)
	}

	open, err := database.OpenerFor(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid store configuration")
	}
	store := database.NewHandle(open, log)

	report, err := seed.Import(ctx, store, rows, log)
	if err != nil {
		log.Error().Err(err).Msg("seed import failed")
	}
	if closeErr := store.Close(); closeErr != nil {
		log.Error().Err(closeErr).Msg("store close error")
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(report)

	if err != nil || report.FailedRows > 0 {
		os.Exit(1)
	}
}
