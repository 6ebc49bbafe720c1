package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go-leave/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// scriptedReader replays msgs and cancels the consumer once drained.
type scriptedReader struct {
	msgs      []kafkago.Message
	cancel    context.CancelFunc
	committed []int64
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *scriptedReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

type handlerFunc func(ctx context.Context, e events.LeaveLifecycleEvent) error

func (f handlerFunc) HandleLeaveEvent(ctx context.Context, e events.LeaveLifecycleEvent) error {
	return f(ctx, e)
}

func encode(e events.LeaveLifecycleEvent) []byte {
	b, _ := json.Marshal(e)
	return b
}

func TestConsumeLeaveLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &scriptedReader{
		cancel: cancel,
		msgs: []kafkago.Message{
			{Offset: 1, Value: encode(events.LeaveLifecycleEvent{EventType: events.LeaveApproved, LeaveID: "ok", Status: "approved"})},
			{Offset: 2, Value: []byte("not json")},
			{Offset: 3, Value: encode(events.LeaveLifecycleEvent{EventType: events.LeaveApproved, LeaveID: "fails", Status: "approved"})},
		},
	}

	var handled []string
	handler := handlerFunc(func(ctx context.Context, e events.LeaveLifecycleEvent) error {
		handled = append(handled, e.LeaveID)
		if e.LeaveID == "fails" {
			return errors.New("slack down")
		}
		return nil
	})

	ConsumeLeaveLifecycle(ctx, reader, handler, zap.NewNop())

	assert.Equal(t, []string{"ok", "fails"}, handled)
	assert.Equal(t, []int64{1, 2}, reader.committed, "poison message is committed, failed delivery is not")
}
