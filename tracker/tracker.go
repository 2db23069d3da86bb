package tracker

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Tracker remembers which contact values were already submitted to the
// waitlist, so the form can short-circuit duplicates before calling the
// remote API. It is advisory: the remote API owns the real duplicate check.
//
// The tracker holds no state between calls. Every call loads the blob,
// drops records older than RetentionWindow (writing the pruned set back
// when anything was dropped), then answers or mutates. Concurrent writers
// are last-write-wins.
//
// Storage failures never reach the caller. An unreadable or corrupt blob
// reads as "no records"; a failed write is dropped. Both are reported to
// the Logger passed with WithLogger.
type Tracker struct {
	store Storage
	now   func() time.Time
	log   Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithLogger sets the diagnostic hook for degraded-mode events.
func WithLogger(l Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

// New creates a Tracker persisting through store. A nil store behaves like
// storage that is always unavailable.
func New(store Storage, opts ...Option) *Tracker {
	if store == nil {
		store = noStorage{}
	}
	t := &Tracker{
		store: store,
		now:   time.Now,
		log:   nopLogger{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Has reports whether value was submitted as kind within the retention
// window. It may rewrite the store to purge expired records.
func (t *Tracker) Has(ctx context.Context, kind Kind, value string) bool {
	if !kind.Valid() {
		t.log.Warn("has: unknown contact kind %q", kind)
		return false
	}
	key := Key(kind, value)
	for _, r := range t.load(ctx) {
		if r.Key == key {
			return true
		}
	}
	return false
}

// Add records value as submitted now. Re-adding a known value refreshes its
// timestamp; other records keep theirs.
func (t *Tracker) Add(ctx context.Context, kind Kind, value string) {
	if !kind.Valid() {
		t.log.Warn("add: unknown contact kind %q", kind)
		return
	}
	key := Key(kind, value)
	records := t.load(ctx)

	now := t.now().UnixMilli()
	found := false
	for i := range records {
		if records[i].Key == key {
			records[i].Timestamp = now
			found = true
			break
		}
	}
	if !found {
		records = append(records, Record{Key: key, Timestamp: now})
	}
	t.save(ctx, records)
}

// Records returns the records still inside the retention window, in
// insertion order.
func (t *Tracker) Records(ctx context.Context) []Record {
	return t.load(ctx)
}

// load decodes the blob, keeps live records and eagerly writes the pruned
// set back when anything was dropped.
func (t *Tracker) load(ctx context.Context) []Record {
	data, err := t.store.Load(ctx)
	if err != nil {
		t.log.Warn("load %s: %v", StorageKey, err)
		return []Record{}
	}
	if len(data) == 0 {
		return []Record{}
	}

	var entries []jsoniter.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		t.log.Warn("decode %s: %v", StorageKey, err)
		return []Record{}
	}

	now := t.now()
	live := make([]Record, 0, len(entries))
	seen := make(map[string]int, len(entries))
	malformed := 0
	for _, entry := range entries {
		r, ok := decodeRecord(entry)
		if !ok {
			malformed++
			continue
		}
		if !t.alive(r, now) {
			continue
		}
		if i, ok := seen[r.Key]; ok {
			if r.Timestamp > live[i].Timestamp {
				live[i].Timestamp = r.Timestamp
			}
			continue
		}
		seen[r.Key] = len(live)
		live = append(live, r)
	}
	if malformed > 0 {
		t.log.Warn("decode %s: dropped %d malformed record(s)", StorageKey, malformed)
	}

	if len(live) != len(entries) {
		t.save(ctx, live)
	}
	return live
}

// decodeRecord reads one persisted entry on its own, so a bad entry never
// takes its neighbours down with it. The key must be a string and the
// timestamp must convert to an integer.
func decodeRecord(entry jsoniter.RawMessage) (Record, bool) {
	var fields map[string]interface{}
	if err := json.Unmarshal(entry, &fields); err != nil {
		return Record{}, false
	}
	key, ok := fields["key"].(string)
	if !ok {
		return Record{}, false
	}
	ts, err := cast.ToInt64E(fields["timestamp"])
	if err != nil {
		return Record{}, false
	}
	return Record{Key: key, Timestamp: ts}, true
}

func (t *Tracker) alive(r Record, now time.Time) bool {
	if r.Key == "" || r.Timestamp <= 0 {
		return false
	}
	age := now.Sub(time.UnixMilli(r.Timestamp))
	return age < RetentionWindow
}

func (t *Tracker) save(ctx context.Context, records []Record) {
	data, err := json.Marshal(records)
	if err != nil {
		t.log.Warn("encode %s: %v", StorageKey, err)
		return
	}
	if err := t.store.Save(ctx, data); err != nil {
		t.log.Warn("save %s: %v", StorageKey, err)
	}
}
