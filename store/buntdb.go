package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/buntdb"
)

// BuntDB keeps the blob under one key of an embedded buntdb database.
// Pass ":memory:" as path for a non-persistent database.
type BuntDB struct {
	db  *buntdb.DB
	key string
}

// OpenBuntDB opens (or creates) the database at path.
func OpenBuntDB(path, key string) (*BuntDB, error) {
	if key == "" {
		return nil, errors.New("store: buntdb key cannot be empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: create dir for %s: %w", path, err)
		}
	}
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: open buntdb %s: %w", path, err)
	}
	return &BuntDB{db: db, key: key}, nil
}

func (b *BuntDB) Load(ctx context.Context) ([]byte, error) {
	var val string
	err := b.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(b.key)
		if err != nil {
			return err
		}
		val = v
		return nil
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: buntdb get %s: %w", b.key, err)
	}
	return []byte(val), nil
}

func (b *BuntDB) Save(ctx context.Context, data []byte) error {
	err := b.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(b.key, string(data), nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("store: buntdb set %s: %w", b.key, err)
	}
	return nil
}

func (b *BuntDB) Close() error {
	return b.db.Close()
}
