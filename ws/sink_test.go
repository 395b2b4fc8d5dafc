package ws

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Zzzoorroo/Duo-Project/domain/event"
	apperrors "github.com/Zzzoorroo/Duo-Project/errors"
)

func TestSink_Reports_Overflow_Instead_Of_Blocking(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	sink := NewSink(2)

	req.NoError(sink.Consume(ctx, event.UserTyping{Username: "alice"}))
	req.NoError(sink.Consume(ctx, event.UserTyping{Username: "alice"}))

	// Third event does not fit: the sink must refuse, never block
	err := sink.Consume(ctx, event.UserTyping{Username: "alice"})
	req.ErrorIs(err, apperrors.ErrSinkFull)
}

func TestSink_Closed_Rejects_Events(t *testing.T) {
	req := require.New(t)
	sink := NewSink(2)

	sink.Close()
	sink.Close() // idempotent

	err := sink.Consume(context.Background(), event.UserTyping{Username: "alice"})
	req.Error(err)
}

func TestSink_Delivers_In_Order(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	sink := NewSink(8)

	req.NoError(sink.Consume(ctx, event.UserTyping{Username: "first"}))
	req.NoError(sink.Consume(ctx, event.UserNotTyping{Username: "second"}))

	first := <-sink.Events()
	second := <-sink.Events()
	req.Equal(event.UserTyping{Username: "first"}, first)
	req.Equal(event.UserNotTyping{Username: "second"}, second)
}
