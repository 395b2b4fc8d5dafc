package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// gcDiscardRatio asks badger to rewrite a value log file once at least half
// of it is stale.
const gcDiscardRatio = 0.5

// StorageGCWorker periodically runs BadgerDB's value-log garbage collection.
// History retention is unbounded by design, but without GC the value log
// also keeps every overwritten and deleted entry forever.
type StorageGCWorker struct {
	db       *badger.DB
	interval time.Duration
	log      *slog.Logger
}

func NewStorageGCWorker(db *badger.DB, interval time.Duration, log *slog.Logger) *StorageGCWorker {
	return &StorageGCWorker{db: db, interval: interval, log: log}
}

func (w *StorageGCWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping storage GC worker")
			return nil
		case <-ticker.C:
			// RunValueLogGC rewrites at most one file per call; loop until
			// it reports there is nothing left to collect.
			for {
				err := w.db.RunValueLogGC(gcDiscardRatio)
				if err != nil {
					if !errors.Is(err, badger.ErrNoRewrite) {
						w.log.Warn("Value log GC failed", "error", err)
					}
					break
				}
				w.log.Debug("Value log file collected")
			}
		}
	}
}
