package notify

import (
	"context"
	"fmt"
	"time"

	"go-leave/internal/businessday"
	"go-leave/internal/events"
	"go-leave/internal/leave"
	"go-leave/internal/observability/metrics"

	"go.uber.org/zap"
)

const (
	KindLeaveApproved = "leave_approved"
	KindOnLeave       = "on_leave"
)

// LeaveNotifier turns lifecycle events into notifications. Only approvals
// are announced, plus an "on leave" line when the approved range covers
// today.
type LeaveNotifier struct {
	sink   Sink
	now    func() time.Time
	logger *zap.Logger
}

func NewLeaveNotifier(sink Sink, now func() time.Time, logger ...*zap.Logger) *LeaveNotifier {
	l := zap.L().Named("notify.leave")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notify.leave")
	}
	if now == nil {
		now = time.Now
	}
	return &LeaveNotifier{sink: sink, now: now, logger: l}
}

func (n *LeaveNotifier) HandleLeaveEvent(ctx context.Context, e events.LeaveLifecycleEvent) error {
	if !e.Approved() {
		n.logger.Debug("leave event needs no notification",
			zap.String("leave_id", e.LeaveID),
			zap.String("event_type", e.EventType),
		)
		return nil
	}
	if e.EventType != events.LeaveApproved && e.EventType != events.LeaveSubmitted {
		return nil
	}

	start, err := businessday.ParseDate(e.StartDate)
	if err != nil {
		return fmt.Errorf("leave event %s start_date: %w", e.LeaveID, err)
	}
	end, err := businessday.ParseDate(e.EndDate)
	if err != nil {
		return fmt.Errorf("leave event %s end_date: %w", e.LeaveID, err)
	}

	if err := n.send(ctx, Message{Kind: KindLeaveApproved, Text: approvedText(e)}); err != nil {
		return err
	}

	today := businessday.DateOnly(n.now())
	if !today.Before(start) && !today.After(end) {
		return n.send(ctx, Message{Kind: KindOnLeave, Text: onLeaveText(e)})
	}
	return nil
}

func (n *LeaveNotifier) send(ctx context.Context, msg Message) error {
	if err := n.sink.Send(ctx, msg); err != nil {
		metrics.ObserveNotification(msg.Kind, "error")
		return err
	}
	metrics.ObserveNotification(msg.Kind, "sent")
	return nil
}

func displayName(e events.LeaveLifecycleEvent) string {
	if e.OwnerName != "" {
		return e.OwnerName
	}
	return e.OwnerID
}

func typeLabel(t string) string {
	return leave.LeaveType(t).Label()
}

func approvedText(e events.LeaveLifecycleEvent) string {
	return fmt.Sprintf(":white_check_mark: *%s* request approved for %s (%s to %s)",
		typeLabel(e.LeaveType), displayName(e), e.StartDate, e.EndDate)
}

func onLeaveText(e events.LeaveLifecycleEvent) string {
	return fmt.Sprintf(":palm_tree: %s is on %s until %s",
		displayName(e), typeLabel(e.LeaveType), e.EndDate)
}
