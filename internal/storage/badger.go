package storage

import (
	"errors"
	"log/slog"
	"path"

	"github.com/dgraph-io/badger/v3"

	"github.com/shapedtime/neomovies/internal/logging"
)

var _ Store = &Badger{}

const localRootKey = "/local/"

// Badger is the default on-disk Store.
type Badger struct {
	db *badger.DB
}

func NewBadger(dir string) (*Badger, error) {
	l := slog.With("component", "local-storage")

	opts := badger.DefaultOptions(dir).
		WithLogger(&logging.Badger{L: l}).
		WithValueLogFileSize(1<<26 - 1)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	err = db.RunValueLogGC(0.5)
	if err != nil && err != badger.ErrNoRewrite {
		db.Close()
		return nil, err
	}

	return &Badger{db: db}, nil
}

func (b *Badger) Get(key string) (string, error) {
	var out string
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(storeKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			out = string(v)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	return out, err
}

func (b *Badger) Set(key, value string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(storeKey(key), []byte(value))
	})
	if err != nil {
		return err
	}

	return b.db.Sync()
}

func (b *Badger) Delete(keys ...string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		for _, k := range keys {
			if err := txn.Delete(storeKey(k)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return b.db.Sync()
}

func (b *Badger) Close() error {
	return b.db.Close()
}

func storeKey(key string) []byte {
	return []byte(path.Join(localRootKey, key))
}
