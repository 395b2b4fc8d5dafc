// Package internal holds operator-facing plumbing that is not part of the
// relay's public surface, currently the badger inspection page.
package internal

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/dgraph-io/badger/v4"
)

//go:embed inspect.html
var templatesFS embed.FS

const (
	messagePrefix  = "msg:"
	maxInspectRows = 100
)

type InspectRow struct {
	Key      string
	Username string
	Text     string
	At       string
}

type StatsProvider func() map[string]any

type PageData struct {
	Items []InspectRow
	Stats map[string]any
}

// StartDebugServer exposes a read-only /inspect page over the message
// keyspace, newest first, plus whatever stats the provider reports.
// It is an operator tool, disabled unless a debug port is configured.
func StartDebugServer(db *badger.DB, port int, statsProvider StatsProvider) {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	mux.HandleFunc("/inspect", func(w http.ResponseWriter, r *http.Request) {
		data := PageData{Stats: make(map[string]any)}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		_ = db.View(func(txn *badger.Txn) error {
			prefix := []byte(messagePrefix)
			options := badger.DefaultIteratorOptions
			options.Reverse = true
			it := txn.NewIterator(options)
			defer it.Close()

			seekKey := append(append([]byte{}, prefix...), 0xFF)
			for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
				if len(data.Items) == maxInspectRows {
					break
				}
				item := it.Item()
				key := string(item.Key())
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapRow(key, val))
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	go func() {
		_ = http.ListenAndServe(fmt.Sprintf("localhost:%d", port), mux)
	}()
}

func mapRow(key string, val []byte) InspectRow {
	row := InspectRow{Key: key, Text: fmt.Sprintf("%d raw bytes", len(val))}

	var stored struct {
		Username string `json:"username"`
		Text     string `json:"text"`
		At       int64  `json:"at"`
	}
	if err := json.Unmarshal(val, &stored); err != nil {
		return row
	}
	row.Username = stored.Username
	row.Text = stored.Text
	row.At = time.Unix(0, stored.At).UTC().Format(time.RFC3339)
	return row
}
