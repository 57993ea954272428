package database

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"quickquiz/internal/config"
	"quickquiz/internal/quiz"
)

type countingOpener struct {
	calls atomic.Int32
	fail  atomic.Bool
	store quiz.Store
}

func (o *countingOpener) open(context.Context) (quiz.Store, error) {
	o.calls.Add(1)
	if o.fail.Load() {
		return nil, errors.New("connection refused")
	}
	return o.store, nil
}

func TestHandleOpensOnce(t *testing.T) {
	opener := &countingOpener{store: quiz.NewMemoryStore()}
	handle := NewHandle(opener.open, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := handle.SampleQuestions(context.Background(), 5); err != nil {
				t.Errorf("SampleQuestions failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := opener.calls.Load(); got != 1 {
		t.Fatalf("expected one open, got %d", got)
	}
}

func TestHandleRetriesAfterFailedOpen(t *testing.T) {
	opener := &countingOpener{store: quiz.NewMemoryStore()}
	opener.fail.Store(true)
	handle := NewHandle(opener.open, zerolog.Nop())

	_, err := handle.GetAnswer(context.Background(), quiz.MakeQuestionID("q", nil))
	if !errors.Is(err, quiz.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	opener.fail.Store(false)
	_, err = handle.GetAnswer(context.Background(), quiz.MakeQuestionID("q", nil))
	if !errors.Is(err, quiz.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from the live store, got %v", err)
	}
	if got := opener.calls.Load(); got != 2 {
		t.Fatalf("expected two open attempts, got %d", got)
	}
}

func TestHandleCloseAllowsReopen(t *testing.T) {
	opener := &countingOpener{store: quiz.NewMemoryStore()}
	handle := NewHandle(opener.open, zerolog.Nop())

	if err := handle.Close(); err != nil {
		t.Fatalf("Close before open failed: %v", err)
	}
	if _, err := handle.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if err := handle.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := handle.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure after close failed: %v", err)
	}
	if got := opener.calls.Load(); got != 2 {
		t.Fatalf("expected two opens, got %d", got)
	}
}

func TestOpenerForSQLite(t *testing.T) {
	cfg := &config.Config{Store: config.Store{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "quiz.db"),
	}}

	open, err := OpenerFor(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenerFor failed: %v", err)
	}
	handle := NewHandle(open, zerolog.Nop())
	t.Cleanup(func() { _ = handle.Close() })

	questions, err := handle.SampleQuestions(context.Background(), 5)
	if err != nil {
		t.Fatalf("SampleQuestions failed: %v", err)
	}
	if len(questions) != 0 {
		t.Fatalf("expected empty store, got %d questions", len(questions))
	}
}

func TestOpenerForPostgresWithoutURL(t *testing.T) {
	cfg := &config.Config{Store: config.Store{Driver: config.DriverPostgres}}
	if _, err := OpenerFor(cfg, zerolog.Nop()); !errors.Is(err, config.ErrMissingDatabaseURL) {
		t.Fatalf("expected ErrMissingDatabaseURL, got %v", err)
	}
}

func TestOpenerForUnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.Store{Driver: "mongo"}}
	if _, err := OpenerFor(cfg, zerolog.Nop()); !errors.Is(err, config.ErrUnknownStoreDriver) {
		t.Fatalf("expected ErrUnknownStoreDriver, got %v", err)
	}
}
