package service

import (
	"context"
	"io"
	"sync"
	"testing"

	"GameCatalog/internal/config"
	"GameCatalog/internal/database"
	"GameCatalog/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel: "silent",
	}, newTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return repository.NewStore(db)
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func ptr[T any](v T) *T { return &v }

// recordingNotifier 记录收到的变更通知
type recordingNotifier struct {
	mu      sync.Mutex
	changes []string
}

func (n *recordingNotifier) NotifyChange(kind string, id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, kind)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.changes)
}

type fixture struct {
	store      *repository.Store
	games      *GameService
	players    *PlayerService
	categories *CategoryService
	notifier   *recordingNotifier
}

func newFixture(t *testing.T, playerPolicy, categoryPolicy string) *fixture {
	t.Helper()
	store := newTestStore(t)
	notifier := &recordingNotifier{}
	logger := newTestLogger()
	return &fixture{
		store:      store,
		games:      NewGameService(store, notifier, logger),
		players:    NewPlayerService(store, playerPolicy, notifier, logger),
		categories: NewCategoryService(store, categoryPolicy, notifier, logger),
		notifier:   notifier,
	}
}

func (f *fixture) ctx() context.Context { return context.Background() }
