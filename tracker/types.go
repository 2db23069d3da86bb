package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind tags the contact value a waitlist signup is identified by.
type Kind string

// Contact kinds.
const (
	KindEmail  Kind = "email"
	KindMobile Kind = "mobile"
)

// StorageKey is the storage identifier the tracker owns.
const StorageKey = "waitlist-submissions"

// RetentionWindow is how long a recorded submission is honored.
const RetentionWindow = 24 * time.Hour

// Valid reports whether k is one of the known contact kinds.
func (k Kind) Valid() bool {
	return k == KindEmail || k == KindMobile
}

// ParseKind converts user input ("email", " Mobile ") into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("tracker: unknown contact kind %q", s)
	}
	return k, nil
}

// Record is one persisted submission. The JSON layout is shared with every
// reader of the storage key and must not change.
type Record struct {
	Key       string `json:"key"`
	Timestamp int64  `json:"timestamp"` // milliseconds since Unix epoch
}

// Storage persists the tracker's blob under a single key.
//
// Load returns (nil, nil) when nothing has been stored yet.
type Storage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// ErrNoStorage is reported to the Logger when a Tracker has no Storage.
var ErrNoStorage = errors.New("tracker: no storage configured")

type noStorage struct{}

func (noStorage) Load(context.Context) ([]byte, error) { return nil, ErrNoStorage }
func (noStorage) Save(context.Context, []byte) error   { return ErrNoStorage }

// Logger receives degraded-mode events. *logger.Logger satisfies it.
type Logger interface {
	Warn(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{}) {}
