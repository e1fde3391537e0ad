package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shapedtime/neomovies/internal/config"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("key not found")

// Keys persisted by the auth flow.
const (
	KeyToken               = "token"
	KeyUserName            = "userName"
	KeyUserEmail           = "userEmail"
	KeyPendingVerification = "pendingVerification"
)

// Store is client-local persistent key/value storage.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(keys ...string) error
	Close() error
}

// Open creates the store selected by cfg.Driver.
func Open(cfg config.StorageConfig) (Store, error) {
	slog.Debug("Opening local storage", "driver", cfg.Driver, "path", cfg.Path)

	switch cfg.Driver {
	case config.DriverBadger, "":
		return NewBadger(cfg.Path)
	case config.DriverSQLite:
		return NewSQLite(cfg.Path)
	case config.DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

var _ Store = &Memory{}

// Memory is an in-process Store. Nothing survives a restart.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.values, k)
	}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }
