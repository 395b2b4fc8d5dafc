// Command viewer prints the persisted chat history as a table without going
// through the relay. It opens the store read-only, so it can run next to a
// live server.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" required:"true"`
	Limit          int    `envconfig:"VIEWER_LIMIT" default:"50"`
	Colours        bool   `envconfig:"VIEWER_COLOURS" default:"true"`
}

// storedMessage mirrors the repository's on-disk encoding. Kept local so the
// viewer stays independent of the server wiring.
type storedMessage struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Text     string `json:"text"`
	At       int64  `json:"at"`
}

func main() {
	_ = godotenv.Load()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// BypassLockGuard allows opening while the relay holds the lock.
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	messages, err := lastMessages(db, config.Limit)
	if err != nil {
		log.Fatalf("Failed to read messages: %v", err)
	}

	if config.Colours {
		color.Green.Printf("%d most recent messages\n", len(messages))
	} else {
		fmt.Printf("%d most recent messages\n", len(messages))
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Time", "Username", "Text"})
	for _, message := range messages {
		table.Append([]string{
			fmt.Sprintf("%d", message.ID),
			time.Unix(0, message.At).UTC().Format(time.RFC3339),
			message.Username,
			message.Text,
		})
	}
	table.Render()
}

// lastMessages scans the message keyspace backwards and returns the newest
// entries oldest-first, like the relay's history replay.
func lastMessages(db *badger.DB, limit int) ([]storedMessage, error) {
	var newestFirst []storedMessage
	err := db.View(func(txn *badger.Txn) error {
		prefix := []byte("msg:")
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		seekKey := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if len(newestFirst) == limit {
				break
			}
			err := it.Item().Value(func(val []byte) error {
				var message storedMessage
				if err := json.Unmarshal(val, &message); err != nil {
					return err
				}
				newestFirst = append(newestFirst, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lo.Reverse(newestFirst), nil
}
