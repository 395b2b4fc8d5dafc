package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Zzzoorroo/Duo-Project/errors"
)

func openTestRepository(t *testing.T) *MessageRepository {
	t.Helper()
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	repository, err := NewMessageRepository(db, slog.Default())
	req.NoError(err)
	t.Cleanup(func() { _ = repository.Close() })
	return repository
}

func Test_StoreMessage_Assigns_Increasing_Ids(t *testing.T) {
	req := require.New(t)
	repository := openTestRepository(t)
	at := time.Now().UTC()

	first, err := repository.StoreMessage("alice", "hello", at)
	req.NoError(err)
	second, err := repository.StoreMessage("bob", "hi there", at.Add(time.Second))
	req.NoError(err)
	third, err := repository.StoreMessage("alice", "how are you", at.Add(2*time.Second))
	req.NoError(err)

	req.Greater(second.ID, first.ID)
	req.Greater(third.ID, second.ID)
}

func Test_StoreMessage_Rejects_Empty_Fields(t *testing.T) {
	req := require.New(t)
	repository := openTestRepository(t)
	at := time.Now().UTC()

	_, err := repository.StoreMessage("", "hello", at)
	req.ErrorIs(err, apperrors.ErrStorage)

	_, err = repository.StoreMessage("alice", "   ", at)
	req.ErrorIs(err, apperrors.ErrStorage)
}

func Test_RecentMessages_Returns_All_When_Under_Limit(t *testing.T) {
	req := require.New(t)
	repository := openTestRepository(t)
	at := time.Now().UTC()

	texts := []string{"one", "two", "three"}
	for i, text := range texts {
		_, err := repository.StoreMessage("alice", text, at.Add(time.Duration(i)*time.Minute))
		req.NoError(err)
	}

	fetched, err := repository.RecentMessages(50)
	req.NoError(err)
	req.Len(fetched, len(texts))
	for i, message := range fetched {
		req.Equal(texts[i], message.Text)
	}
}

func Test_RecentMessages_Returns_Last_N_Oldest_First(t *testing.T) {
	req := require.New(t)
	repository := openTestRepository(t)
	at := time.Now().UTC()

	for i, text := range []string{"one", "two", "three", "four", "five"} {
		_, err := repository.StoreMessage("alice", text, at.Add(time.Duration(i)*time.Minute))
		req.NoError(err)
	}

	// When asking for the last two messages
	fetched, err := repository.RecentMessages(2)
	req.NoError(err)

	// Then only the newest two come back, oldest first
	req.Len(fetched, 2)
	req.Equal("four", fetched[0].Text)
	req.Equal("five", fetched[1].Text)
	req.Less(fetched[0].ID, fetched[1].ID)
}

func Test_RecentMessages_Empty_Store(t *testing.T) {
	req := require.New(t)
	repository := openTestRepository(t)

	fetched, err := repository.RecentMessages(50)
	req.NoError(err)
	req.Empty(fetched)
}

func Test_RecentMessages_Rejects_NonPositive_Limit(t *testing.T) {
	req := require.New(t)
	repository := openTestRepository(t)

	_, err := repository.RecentMessages(0)
	req.Error(err)
	_, err = repository.RecentMessages(-3)
	req.Error(err)
}

func Test_Messages_Survive_Reopen(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()

	db, err := badger.Open(badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	repository, err := NewMessageRepository(db, slog.Default())
	req.NoError(err)
	stored, err := repository.StoreMessage("alice", "durable", time.Now().UTC())
	req.NoError(err)
	req.NoError(repository.Close())
	req.NoError(db.Close())

	db, err = badger.Open(badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()
	repository, err = NewMessageRepository(db, slog.Default())
	req.NoError(err)
	defer repository.Close()

	fetched, err := repository.RecentMessages(50)
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal(stored, fetched[0])
}

func Test_StoreOptions_Fsync_On_Commit(t *testing.T) {
	req := require.New(t)
	opts := StoreOptions(t.TempDir())

	// Synced writes are what turns StoreMessage into a durable commit;
	// the default badger options leave the value log unsynced.
	req.True(opts.SyncWrites)

	db, err := badger.Open(opts)
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	repository, err := NewMessageRepository(db, slog.Default())
	req.NoError(err)
	t.Cleanup(func() { _ = repository.Close() })

	stored, err := repository.StoreMessage("alice", "fsynced", time.Now().UTC())
	req.NoError(err)

	fetched, err := repository.RecentMessages(1)
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal(stored, fetched[0])
}
