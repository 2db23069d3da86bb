// Package store provides durable backends for the submission tracker's
// single storage key.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/tabsye/waitlist/config"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("store: unknown driver")

// Store is a tracker.Storage that holds resources until closed.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Close() error
}

// Open builds the backend selected by cfg.Driver.
func Open(cfg config.Store) (Store, error) {
	switch cfg.Driver {
	case config.StoreMemory:
		return NewMemory(), nil
	case config.StoreFile:
		return NewFile(cfg.Path), nil
	case config.StoreBuntDB:
		return OpenBuntDB(cfg.Path, cfg.Key)
	case config.StoreRedis:
		return OpenRedis(RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.Key,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
