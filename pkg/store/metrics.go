package store

import (
	"io/fs"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	turnsAppended = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kiarachat_store_turns_appended_total",
		Help: "Turns successfully appended to the conversation store.",
	})
	appendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kiarachat_store_append_failures_total",
		Help: "Turn appends that failed; the chat response is still served.",
	})
	queries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kiarachat_store_queries_total",
		Help: "History queries served by the conversation store.",
	})
	migratedTurns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kiarachat_store_migrated_turns_total",
		Help: "Grouped turns produced by the legacy-record migration.",
	})
)

// DiskSize returns the best-effort on-disk size of the store directory in
// bytes. Used by the health endpoint's diagnostics.
func (s *Store) DiskSize() uint64 {
	if s == nil || s.path == "" {
		return 0
	}
	var total uint64
	_ = filepath.WalkDir(s.path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if fi, err := d.Info(); err == nil {
			total += uint64(fi.Size())
		}
		return nil
	})
	return total
}
