package store

import (
	"encoding/json"
	"fmt"
	"testing"
)

func seedLegacy(t *testing.T, s *Store, i int, user, reply string, ts int64) {
	t.Helper()
	rec := legacyRecord{UserMessage: user, AssistantMessage: reply, TS: ts}
	b, _ := json.Marshal(rec)
	key := fmt.Sprintf("%s%020d-%06d", legacyPrefix, ts, i)
	if err := s.SeedRaw(key, b); err != nil {
		t.Fatalf("seed legacy record: %v", err)
	}
}

func TestMigrateLegacyGroupsByMessageAndTimestamp(t *testing.T) {
	s := openTestStore(t)

	// one logical turn split across three legacy records, plus an unrelated one
	seedLegacy(t, s, 1, "Hi", "Hey cutie!", 1000)
	seedLegacy(t, s, 2, "Hi", "Kaise ho aap?", 1000)
	seedLegacy(t, s, 3, "Hi", "Aaj ka plan kya hai?", 1000)
	seedLegacy(t, s, 4, "Bye", "Chalo, milte hain!", 2000)

	n, err := s.MigrateLegacy()
	if err != nil {
		t.Fatalf("MigrateLegacy: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 grouped turns, got %d", n)
	}

	turns, err := s.QueryRecent(MigratedIdentity, 0, 50)
	if err != nil {
		t.Fatalf("QueryRecent: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns under %s, got %d", MigratedIdentity, len(turns))
	}
	// descending order: Bye (2000) first
	if turns[0].UserMessage != "Bye" || len(turns[0].AssistantMessages) != 1 {
		t.Fatalf("unexpected first turn: %+v", turns[0])
	}
	if turns[1].UserMessage != "Hi" || len(turns[1].AssistantMessages) != 3 {
		t.Fatalf("unexpected grouped turn: %+v", turns[1])
	}
	if turns[1].UserIP != MigratedIdentity {
		t.Fatalf("migrated turn should carry the sentinel identity, got %q", turns[1].UserIP)
	}
}

func TestMigrateLegacyIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	seedLegacy(t, s, 1, "Hi", "Hey!", 1000)
	seedLegacy(t, s, 2, "Hi", "Kaise ho?", 1000)

	if _, err := s.MigrateLegacy(); err != nil {
		t.Fatalf("first MigrateLegacy: %v", err)
	}
	first, _ := s.QueryRecent(MigratedIdentity, 0, 50)

	// second run must be a no-op: legacy records are gone
	n, err := s.MigrateLegacy()
	if err != nil {
		t.Fatalf("second MigrateLegacy: %v", err)
	}
	if n != 0 {
		t.Fatalf("second run should migrate nothing, got %d", n)
	}
	second, _ := s.QueryRecent(MigratedIdentity, 0, 50)
	if len(first) != len(second) {
		t.Fatalf("second run changed data: %d vs %d turns", len(first), len(second))
	}
}

func TestMigrateLegacyCollisionMerges(t *testing.T) {
	// known fragility kept from the original migration: distinct turns with
	// identical text and identical ms timestamp merge into one
	s := openTestStore(t)
	seedLegacy(t, s, 1, "Hi", "first reply", 1000)
	seedLegacy(t, s, 2, "Hi", "second reply", 1000)

	if _, err := s.MigrateLegacy(); err != nil {
		t.Fatalf("MigrateLegacy: %v", err)
	}
	turns, _ := s.QueryRecent(MigratedIdentity, 0, 50)
	if len(turns) != 1 {
		t.Fatalf("colliding records should merge into one turn, got %d", len(turns))
	}
	if len(turns[0].AssistantMessages) != 2 {
		t.Fatalf("merged turn should carry both replies: %+v", turns[0])
	}
}
