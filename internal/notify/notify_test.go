package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leave/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	sent []Message
	err  error
}

func (r *recordingSink) Send(ctx context.Context, msg Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func approvedEvent() events.LeaveLifecycleEvent {
	return events.LeaveLifecycleEvent{
		EventType: events.LeaveApproved,
		LeaveID:   "l-1",
		OwnerID:   "u-1",
		OwnerName: "Rui",
		LeaveType: "annual",
		Status:    "approved",
		StartDate: "2025-08-04",
		EndDate:   "2025-08-08",
	}
}

func at(v string) func() time.Time {
	return func() time.Time {
		d, _ := time.Parse("2006-01-02 15:04", v)
		return d
	}
}

func TestLeaveNotifier(t *testing.T) {
	ctx := context.Background()

	t.Run("approval before the leave starts", func(t *testing.T) {
		sink := &recordingSink{}
		n := NewLeaveNotifier(sink, at("2025-07-01 09:00"))

		require.NoError(t, n.HandleLeaveEvent(ctx, approvedEvent()))

		require.Len(t, sink.sent, 1)
		assert.Equal(t, KindLeaveApproved, sink.sent[0].Kind)
		assert.Contains(t, sink.sent[0].Text, "Annual Leave")
		assert.Contains(t, sink.sent[0].Text, "Rui")
	})

	t.Run("approval covering today also announces the absence", func(t *testing.T) {
		sink := &recordingSink{}
		n := NewLeaveNotifier(sink, at("2025-08-08 17:30"))

		require.NoError(t, n.HandleLeaveEvent(ctx, approvedEvent()))

		require.Len(t, sink.sent, 2)
		assert.Equal(t, KindOnLeave, sink.sent[1].Kind)
		assert.Contains(t, sink.sent[1].Text, "until 2025-08-08")
	})

	t.Run("auto-approved submission is announced", func(t *testing.T) {
		sink := &recordingSink{}
		e := approvedEvent()
		e.EventType = events.LeaveSubmitted

		require.NoError(t, NewLeaveNotifier(sink, at("2025-07-01 09:00")).HandleLeaveEvent(ctx, e))

		assert.Len(t, sink.sent, 1)
	})

	t.Run("pending and rejected events are ignored", func(t *testing.T) {
		sink := &recordingSink{}
		n := NewLeaveNotifier(sink, at("2025-08-05 09:00"))

		pending := approvedEvent()
		pending.EventType, pending.Status = events.LeaveSubmitted, "pending"
		cancelled := approvedEvent()
		cancelled.EventType, cancelled.Status = events.LeaveCancelled, "rejected"

		require.NoError(t, n.HandleLeaveEvent(ctx, pending))
		require.NoError(t, n.HandleLeaveEvent(ctx, cancelled))
		assert.Empty(t, sink.sent)
	})

	t.Run("negative sink failure is returned", func(t *testing.T) {
		sink := &recordingSink{err: errors.New("boom")}

		err := NewLeaveNotifier(sink, at("2025-07-01 09:00")).HandleLeaveEvent(ctx, approvedEvent())

		assert.EqualError(t, err, "boom")
	})

	t.Run("negative malformed dates", func(t *testing.T) {
		e := approvedEvent()
		e.StartDate = "tomorrow"

		err := NewLeaveNotifier(&recordingSink{}, nil).HandleLeaveEvent(ctx, e)

		assert.Error(t, err)
	})
}

func TestSlackSink(t *testing.T) {
	t.Run("posts text and a markdown section", func(t *testing.T) {
		var got map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			_ = json.NewDecoder(r.Body).Decode(&got)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		sink, err := NewSlackSink(srv.URL)
		require.NoError(t, err)

		require.NoError(t, sink.Send(context.Background(), Message{Kind: KindLeaveApproved, Text: "hello"}))
		assert.Equal(t, "hello", got["text"])
		assert.NotEmpty(t, got["blocks"])
	})

	t.Run("negative webhook error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		sink, err := NewSlackSink(srv.URL)
		require.NoError(t, err)

		assert.Error(t, sink.Send(context.Background(), Message{Text: "x"}))
	})

	t.Run("negative missing url", func(t *testing.T) {
		_, err := NewSlackSink("")

		assert.ErrorIs(t, err, ErrWebhookNotConfigured)
	})
}
