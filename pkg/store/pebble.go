package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/cockroachdb/pebble"

	"kiarachat/pkg/logger"
	"kiarachat/pkg/models"
)

// ErrUnavailable is returned by every operation while the backing pebble
// database is not open. Callers decide whether to surface or degrade.
var ErrUnavailable = errors.New("store not open")

// Store is the append-only conversation store. It owns a single pebble
// handle with an open-once/close-on-shutdown lifecycle; the application
// opens it at startup, injects it where needed and closes it on exit.
type Store struct {
	db   *pebble.DB
	path string
	// seq reduces key collisions when turns share a millisecond timestamp.
	seq uint64
}

// New returns a Store bound to the given path without opening it.
func New(path string) *Store {
	return &Store{path: path}
}

// Open opens (or creates) the pebble database. Failure leaves the store in
// a degraded state where writes and reads return ErrUnavailable; the caller
// chooses whether that is fatal.
func (s *Store) Open() error {
	logger.Info("opening_pebble_db", "path", s.path)
	db, err := pebble.Open(s.path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", "path", s.path, "error", err)
		return fmt.Errorf("open pebble at %s: %w", s.path, err)
	}
	s.db = db
	logger.Info("pebble_opened", "path", s.path)
	return nil
}

// Close closes the pebble database if open.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return err
	}
	s.db = nil
	logger.Info("pebble_closed")
	return nil
}

// Ready reports whether the store is opened and usable.
func (s *Store) Ready() bool {
	return s != nil && s.db != nil
}

// Path returns the on-disk database directory.
func (s *Store) Path() string { return s.path }

// turnPrefix is the keyspace for grouped turns scoped to one identity.
func turnPrefix(identity string) string {
	return "chat:" + identity + ":turn:"
}

func turnKey(identity string, ts int64, seq uint64) string {
	// zero-padded ms timestamp keeps keys sorted by creation time
	return fmt.Sprintf("%s%020d-%06d", turnPrefix(identity), ts, seq)
}

// AppendTurn appends one immutable turn. Turns are never edited in place;
// the single pebble Set is the only consistency boundary relied upon.
func (s *Store) AppendTurn(turn models.Turn) error {
	if !s.Ready() {
		appendFailures.Inc()
		return ErrUnavailable
	}
	data, err := json.Marshal(turn)
	if err != nil {
		appendFailures.Inc()
		return fmt.Errorf("marshal turn: %w", err)
	}
	key := turnKey(turn.UserIP, turn.TS, atomic.AddUint64(&s.seq, 1))
	if err := s.db.Set([]byte(key), data, pebble.Sync); err != nil {
		appendFailures.Inc()
		logger.Error("append_turn_failed", "identity", turn.UserIP, "key", key, "error", err)
		return fmt.Errorf("append turn: %w", err)
	}
	turnsAppended.Inc()
	logger.Info("turn_appended", "identity", turn.UserIP, "key", key, "segments", len(turn.AssistantMessages))
	return nil
}

// QueryRecent returns turns for one identity with created-at >= since
// (unix ms), ordered by creation time descending and bounded to limit.
func (s *Store) QueryRecent(identity string, since int64, limit int) ([]models.Turn, error) {
	if !s.Ready() {
		return nil, ErrUnavailable
	}
	queries.Inc()
	prefix := []byte(turnPrefix(identity))
	lower := []byte(fmt.Sprintf("%s%020d", turnPrefix(identity), since))

	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer iter.Close()

	var out []models.Turn
	for iter.SeekGE(lower); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		var t models.Turn
		if err := json.Unmarshal(iter.Value(), &t); err != nil {
			logger.Warn("skipping_invalid_turn", "key", string(iter.Key()), "error", err)
			continue
		}
		if t.TS < since {
			continue
		}
		out = append(out, t)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}

	// iteration is ascending; keep the newest `limit` and flip to descending
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// PurgeOlderThan deletes turns created before cutoff (unix ms) across all
// identities, up to batch keys per call. It returns the number of turns
// deleted; callers loop until zero. dryRun counts without deleting.
func (s *Store) PurgeOlderThan(cutoff int64, batch int, dryRun bool) (int, error) {
	if !s.Ready() {
		return 0, ErrUnavailable
	}
	if batch <= 0 {
		batch = 500
	}
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return 0, fmt.Errorf("purge scan: %w", err)
	}
	defer iter.Close()

	prefix := []byte("chat:")
	var doomed [][]byte
	for iter.SeekGE(prefix); iter.Valid() && len(doomed) < batch; iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		var t models.Turn
		if err := json.Unmarshal(iter.Value(), &t); err != nil {
			continue
		}
		if t.TS != 0 && t.TS < cutoff {
			doomed = append(doomed, append([]byte(nil), iter.Key()...))
		}
	}
	if err := iter.Error(); err != nil {
		return 0, fmt.Errorf("purge scan: %w", err)
	}
	if dryRun {
		return len(doomed), nil
	}
	for _, k := range doomed {
		if err := s.db.Delete(k, pebble.Sync); err != nil {
			return 0, fmt.Errorf("purge delete: %w", err)
		}
	}
	if len(doomed) > 0 {
		logger.Info("turns_purged", "count", len(doomed), "cutoff_ms", cutoff)
	}
	return len(doomed), nil
}

// set writes a raw key/value pair. Used by the migration and by tests to
// seed legacy-shaped records.
func (s *Store) set(key string, value []byte) error {
	if !s.Ready() {
		return ErrUnavailable
	}
	return s.db.Set([]byte(key), value, pebble.Sync)
}

// SeedRaw exposes raw writes for tests and offline tooling.
func (s *Store) SeedRaw(key string, value []byte) error { return s.set(key, value) }
