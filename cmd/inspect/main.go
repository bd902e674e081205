package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cockroachdb/pebble"

	"kiarachat/pkg/models"
)

// inspect dumps stored conversation turns from a database directory. It
// opens the store read-only, so it is safe to run against a copied snapshot
// but not against the live directory itself.
func main() {
	var dbPath string
	var identity string
	flag.StringVar(&dbPath, "db", "./.database", "Pebble DB path")
	flag.StringVar(&identity, "identity", "", "only dump turns for this client identity")
	flag.Parse()

	db, err := pebble.Open(dbPath, &pebble.Options{ReadOnly: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", dbPath, err)
		os.Exit(1)
	}
	defer db.Close()

	prefix := "chat:"
	if identity != "" {
		prefix = "chat:" + identity + ":turn:"
	}

	iter, err := db.NewIter(&pebble.IterOptions{LowerBound: []byte(prefix)})
	if err != nil {
		fmt.Fprintf(os.Stderr, "iterator: %v\n", err)
		os.Exit(1)
	}
	defer iter.Close()

	count := 0
	for iter.First(); iter.Valid(); iter.Next() {
		key := string(iter.Key())
		if len(key) < len(prefix) || key[:len(prefix)] != prefix {
			break
		}
		var turn models.Turn
		if err := json.Unmarshal(iter.Value(), &turn); err != nil {
			fmt.Printf("%s\t<unparseable: %v>\n", key, err)
			continue
		}
		ts := time.UnixMilli(turn.TS).UTC().Format(time.RFC3339)
		fmt.Printf("%s\t%s\tuser=%q\tassistant_messages=%d\n", key, ts, turn.UserMessage, len(turn.AssistantMessages))
		count++
	}
	fmt.Printf("%d turns\n", count)
}
