package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"

	"github.com/Zzzoorroo/Duo-Project/domain"
	apperrors "github.com/Zzzoorroo/Duo-Project/errors"
)

const (
	messagePrefix = "msg:"
	sequenceKey   = "seq:msg"
	// sequenceBandwidth is the lease size of the badger sequence. Ids stay
	// strictly increasing across restarts; up to bandwidth-1 ids may be
	// skipped after a crash, which does not break the ordering invariant.
	sequenceBandwidth = 128
)

// MessageRepository persists chat messages in BadgerDB.
// The key is formatted as "msg:{id_padded}" with a 20-digit zero-padded
// store-assigned id so lexicographic key order equals insertion order.
type MessageRepository struct {
	db  *badger.DB
	seq *badger.Sequence
	log *slog.Logger
}

// diskMessage is the stored representation. Timestamps are kept as
// nanoseconds since epoch so the encoding stays sortable and compact.
type diskMessage struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Text     string `json:"text"`
	At       int64  `json:"at"`
}

// StoreOptions is the badger configuration for the relay's message store.
// SyncWrites makes every commit fsync the value log, so a message
// acknowledged by StoreMessage survives a power failure, not only a clean
// shutdown.
func StoreOptions(path string) badger.Options {
	return badger.DefaultOptions(path).
		WithSyncWrites(true).
		WithLoggingLevel(badger.WARNING)
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) (*MessageRepository, error) {
	seq, err := db.GetSequence([]byte(sequenceKey), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return &MessageRepository{db: db, seq: seq, log: log}, nil
}

// Close releases the id sequence lease. The badger.DB itself is owned and
// closed by the caller.
func (m *MessageRepository) Close() error {
	return m.seq.Release()
}

// StoreMessage durably persists a new message and returns it with its
// assigned id. The write is committed synchronously: once StoreMessage
// returns nil, the message survives a process restart.
func (m *MessageRepository) StoreMessage(username, text string, at time.Time) (domain.Message, error) {
	message := domain.Message{Username: username, Text: text, At: at.UTC()}
	if err := message.Validate(); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	id, err := m.seq.Next()
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	message.ID = id

	value, err := json.Marshal(toDiskMessage(message))
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	key := fmt.Sprintf("%s%020d", messagePrefix, id)
	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return message, nil
}

// RecentMessages returns up to limit most recent messages in chronological
// (oldest-first) order, ascending by id. Thanks to the padded id in the key
// a reverse prefix scan yields exactly the newest entries; the batch is then
// reversed so replay reads oldest-first.
func (m *MessageRepository) RecentMessages(limit int) ([]domain.Message, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	var newestFirst []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(messagePrefix)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the last possible message key, then walk backwards.
		seekKey := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if len(newestFirst) == limit {
				break
			}
			err := it.Item().Value(func(value []byte) error {
				var dm diskMessage
				if err := json.Unmarshal(value, &dm); err != nil {
					return err
				}
				newestFirst = append(newestFirst, fromDiskMessage(dm))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	return lo.Reverse(newestFirst), nil
}

func toDiskMessage(message domain.Message) diskMessage {
	return diskMessage{
		ID:       message.ID,
		Username: message.Username,
		Text:     message.Text,
		At:       message.At.UnixNano(),
	}
}

func fromDiskMessage(dm diskMessage) domain.Message {
	return domain.Message{
		ID:       dm.ID,
		Username: dm.Username,
		Text:     dm.Text,
		At:       time.Unix(0, dm.At).UTC(),
	}
}
