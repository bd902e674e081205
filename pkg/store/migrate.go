package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/cockroachdb/pebble"

	"kiarachat/pkg/logger"
	"kiarachat/pkg/models"
	"kiarachat/pkg/utils"
)

// legacyPrefix is the keyspace of pre-grouping records: one assistant
// message per record, shape {user_message, assistant_message, timestamp}.
const legacyPrefix = "chat:msg:"

// MigratedIdentity marks turns produced by the migration, which predates
// identity capture.
const MigratedIdentity = "migrated_data"

// legacyRecord is the pre-grouping persisted shape.
type legacyRecord struct {
	UserMessage      string `json:"user_message"`
	AssistantMessage string `json:"assistant_message"`
	TS               int64  `json:"timestamp"`
}

type groupKey struct {
	userMessage string
	ts          int64
}

// MigrateLegacy groups legacy single-message records into turns and removes
// them. Grouping key is exact equality of user_message and the millisecond
// timestamp, matching the shape's original migration; two genuinely distinct
// turns colliding on both will merge. Re-running against already-migrated
// data is a no-op.
func (s *Store) MigrateLegacy() (int, error) {
	if !s.Ready() {
		return 0, ErrUnavailable
	}
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return 0, fmt.Errorf("migration scan: %w", err)
	}

	prefix := []byte(legacyPrefix)
	groups := make(map[groupKey][]legacyRecord)
	var keys [][]byte
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		var rec legacyRecord
		if err := json.Unmarshal(iter.Value(), &rec); err != nil || rec.AssistantMessage == "" {
			// not a legacy-shaped record; leave untouched
			continue
		}
		gk := groupKey{userMessage: rec.UserMessage, ts: rec.TS}
		groups[gk] = append(groups[gk], rec)
		keys = append(keys, append([]byte(nil), iter.Key()...))
	}
	scanErr := iter.Error()
	_ = iter.Close()
	if scanErr != nil {
		return 0, fmt.Errorf("migration scan: %w", scanErr)
	}
	if len(groups) == 0 {
		logger.Info("migration_noop")
		return 0, nil
	}

	// deterministic ordering across runs
	ordered := make([]groupKey, 0, len(groups))
	for gk := range groups {
		ordered = append(ordered, gk)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].ts != ordered[j].ts {
			return ordered[i].ts < ordered[j].ts
		}
		return ordered[i].userMessage < ordered[j].userMessage
	})

	migrated := 0
	for _, gk := range ordered {
		recs := groups[gk]
		msgs := make([]models.AssistantMessage, 0, len(recs))
		for _, r := range recs {
			msgs = append(msgs, models.AssistantMessage{Message: r.AssistantMessage, TS: r.TS})
		}
		turn := models.Turn{
			ID:                utils.GenTurnID(),
			UserMessage:       gk.userMessage,
			AssistantMessages: msgs,
			UserIP:            MigratedIdentity,
			TS:                gk.ts,
		}
		data, err := json.Marshal(turn)
		if err != nil {
			return migrated, fmt.Errorf("marshal migrated turn: %w", err)
		}
		key := turnKey(MigratedIdentity, gk.ts, atomic.AddUint64(&s.seq, 1))
		if err := s.db.Set([]byte(key), data, pebble.Sync); err != nil {
			return migrated, fmt.Errorf("write migrated turn: %w", err)
		}
		migrated++
		migratedTurns.Inc()
	}

	// legacy records are removed only after every grouped turn is written
	for _, k := range keys {
		if err := s.db.Delete(k, pebble.Sync); err != nil {
			return migrated, fmt.Errorf("delete legacy record: %w", err)
		}
	}
	logger.Info("migration_completed", "legacy_records", len(keys), "turns", migrated)
	return migrated, nil
}
