package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"quickquiz/internal/config"
	"quickquiz/internal/quiz"
	"quickquiz/internal/quiz/postgres"
	"quickquiz/internal/quiz/sqlite"
)

// Opener connects to a store. It is called lazily by Handle.
type Opener func(ctx context.Context) (quiz.Store, error)

// Handle is a process-wide store connection that is opened on first use and
// reused afterwards. A failed open is not remembered, so the next call tries
// again.
type Handle struct {
	open Opener
	log  zerolog.Logger

	mu    sync.Mutex
	store quiz.Store
}

var _ quiz.Store = (*Handle)(nil)

func NewHandle(open Opener, log zerolog.Logger) *Handle {
	return &Handle{open: open, log: log}
}

// Ensure returns the live store, opening it if needed.
func (h *Handle) Ensure(ctx context.Context) (quiz.Store, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.store != nil {
		return h.store, nil
	}

	store, err := h.open(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("store connect failed")
		return nil, fmt.Errorf("%w: %v", quiz.ErrUnavailable, err)
	}

	h.store = store
	h.log.Info().Msg("store connected")
	return store, nil
}

func (h *Handle) SampleQuestions(ctx context.Context, size int) ([]quiz.Question, error) {
	store, err := h.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	return store.SampleQuestions(ctx, size)
}

func (h *Handle) GetQuestion(ctx context.Context, id string) (quiz.Question, error) {
	store, err := h.Ensure(ctx)
	if err != nil {
		return quiz.Question{}, err
	}
	return store.GetQuestion(ctx, id)
}

func (h *Handle) GetAnswer(ctx context.Context, questionID string) (quiz.Answer, error) {
	store, err := h.Ensure(ctx)
	if err != nil {
		return quiz.Answer{}, err
	}
	return store.GetAnswer(ctx, questionID)
}

func (h *Handle) GetAnswers(ctx context.Context, questionIDs []string) ([]quiz.Answer, error) {
	store, err := h.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	return store.GetAnswers(ctx, questionIDs)
}

func (h *Handle) SaveItems(ctx context.Context, items []quiz.Item) error {
	store, err := h.Ensure(ctx)
	if err != nil {
		return err
	}
	return store.SaveItems(ctx, items)
}

// Close releases the store if it was ever opened. A later call reopens it.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.store == nil {
		return nil
	}
	err := h.store.Close()
	h.store = nil
	return err
}

// OpenerFor picks the store driver named in cfg.
func OpenerFor(cfg *config.Config, log zerolog.Logger) (Opener, error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		path := cfg.Store.SQLitePath
		return func(ctx context.Context) (quiz.Store, error) {
			return sqlite.Open(ctx, path)
		}, nil
	case config.DriverPostgres:
		if cfg.DB.URL == "" {
			return nil, config.ErrMissingDatabaseURL
		}
		dsn := cfg.DB.URL
		pool := postgres.PoolConfig{
			MaxConns:        cfg.DB.MaxConns,
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		}
		return func(ctx context.Context) (quiz.Store, error) {
			return postgres.NewStore(ctx, dsn, pool, log)
		}, nil
	case config.DriverMemory:
		store := quiz.NewMemoryStore()
		return func(context.Context) (quiz.Store, error) {
			return store, nil
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStoreDriver, cfg.Store.Driver)
	}
}
