package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"go-leave/internal/businessday"
	"go-leave/internal/domain"
	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/observability/metrics"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/user"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const listCacheTTL = 5 * time.Minute

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actor domain.Actor, req SubmitLeaveRequest) (SubmitResult, error)
	Decide(ctx context.Context, actor domain.Actor, id string, req DecisionRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error)
	GetAll(ctx context.Context, actor domain.Actor, filter ListFilter) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error)
	CheckTeamConflicts(ctx context.Context, actor domain.Actor, start, end string) ([]TeamConflict, error)
	CheckHolidayConflicts(ctx context.Context, actor domain.Actor, start, end string) ([]HolidayConflict, error)
}

type Option func(*service)

func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l.Named("leave.service")
		}
	}
}

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithOutbox(outbox kafka.OutboxRepository) Option {
	return func(s *service) { s.outbox = outbox }
}

func WithCache(rdb *redis.Client) Option {
	return func(s *service) { s.rdb = rdb }
}

// WithBlockOnTeamConflict makes Submit refuse requests that overlap
// approved team leave instead of only reporting them.
func WithBlockOnTeamConflict(block bool) Option {
	return func(s *service) { s.blockOnTeamConflict = block }
}

type service struct {
	db                  *sql.DB
	repo                Repository
	conflicts           *ConflictDetector
	outbox              kafka.OutboxRepository
	rdb                 *redis.Client
	sf                  *singleflight.Group
	blockOnTeamConflict bool
	now                 func() time.Time
	logger              *zap.Logger
}

func NewService(db *sql.DB, repo Repository, holidays HolidayReader, opts ...Option) Service {
	s := &service{
		db:        db,
		repo:      repo,
		conflicts: NewConflictDetector(holidays),
		sf:        &singleflight.Group{},
		now:       time.Now,
		logger:    zap.L().Named("leave.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Submit(ctx context.Context, actor domain.Actor, req SubmitLeaveRequest) (SubmitResult, error) {
	rid := contextutil.GetRequestID(ctx)
	if !actor.Authenticated() {
		return SubmitResult{}, leaveerrors.ErrAuthenticationRequired
	}

	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Warn("submit leave invalid dates",
			zap.String("request_id", rid),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return SubmitResult{}, err
	}

	leaveType := LeaveType(strings.ToLower(strings.TrimSpace(req.LeaveType)))
	if !leaveType.Valid() {
		s.logger.Warn("submit leave invalid type", zap.String("leave_type", req.LeaveType))
		return SubmitResult{}, leaveerrors.ErrInvalidLeaveType
	}

	s.logger.Debug("submit leave requested",
		zap.String("request_id", rid),
		zap.String("owner_id", actor.ID.String()),
		zap.String("leave_type", string(leaveType)),
	)

	// holidays live in their own table and never change inside this tx
	holidays, err := s.conflicts.Holidays(ctx, actor.CountryCode(), start, end)
	if err != nil {
		s.logger.Warn("submit leave holiday lookup failed, reporting none",
			zap.String("request_id", rid),
			zap.Error(err),
		)
		holidays = []HolidayConflict{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return SubmitResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	team, err := s.conflicts.Team(ctx, qtx, actor.ID, start, end)
	if err != nil {
		s.logger.Error("submit leave team conflict lookup failed", zap.String("request_id", rid), zap.Error(err))
		return SubmitResult{}, mapRepositoryError(err)
	}

	report := ConflictReport{Team: team, Holidays: holidays}
	if s.blockOnTeamConflict && len(team) > 0 {
		s.logger.Warn("submit leave blocked by team conflict",
			zap.String("owner_id", actor.ID.String()),
			zap.Int("conflicts", len(team)),
		)
		return SubmitResult{Conflicts: report}, leaveerrors.ErrLeaveOverlap.WithDetails(team)
	}

	now := s.now().UTC()
	l := &LeaveRequest{
		ID:        uuid.New(),
		OwnerID:   actor.ID,
		StartDate: start,
		EndDate:   end,
		LeaveType: leaveType,
		Status:    StatusPending,
		Notes:     normalizeNotes(req.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if actor.IsAdmin {
		approver := actor.ID
		l.Status = StatusApproved
		l.ApprovedBy = &approver
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.String("request_id", rid), zap.Error(err))
		return SubmitResult{}, mapRepositoryError(err)
	}

	l.Owner = &user.User{ID: actor.ID, Name: actor.Name}
	if err := s.enqueue(ctx, tx, events.LeaveSubmitted, actor, l); err != nil {
		return SubmitResult{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return SubmitResult{}, err
	}

	s.invalidate(ctx, l)
	metrics.ObserveTransition("submit", string(l.Status))
	metrics.ObserveConflicts("team", len(team))
	metrics.ObserveConflicts("holiday", len(holidays))

	s.logger.Info("submit leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.String("status", string(l.Status)),
		zap.Int("team_conflicts", len(team)),
		zap.Int("holiday_conflicts", len(holidays)),
	)

	return SubmitResult{Leave: mapToResponse(*l), Conflicts: report}, nil
}

func (s *service) Decide(ctx context.Context, actor domain.Actor, id string, req DecisionRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if !actor.Authenticated() {
		return LeaveResponse{}, leaveerrors.ErrAuthenticationRequired
	}
	if !actor.IsAdmin {
		s.logger.Warn("decide leave denied",
			zap.String("actor_id", actor.ID.String()),
			zap.String("leave_id", id),
		)
		return LeaveResponse{}, leaveerrors.ErrAdminRequired
	}

	outcome := Status(strings.ToLower(strings.TrimSpace(req.Outcome)))
	if outcome != StatusApproved && outcome != StatusRejected {
		return LeaveResponse{}, leaveerrors.ErrInvalidOutcome
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	s.logger.Debug("decide leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("outcome", string(outcome)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	// rejected is terminal; re-rejecting only re-sets the same fields
	if l.Status == StatusRejected && outcome != StatusRejected {
		s.logger.Warn("decide leave on rejected request",
			zap.String("leave_id", id),
			zap.String("outcome", string(outcome)),
		)
		return LeaveResponse{}, leaveerrors.ErrAlreadyRejected
	}

	changed := l.Status != outcome
	l.Status = outcome
	l.ApprovedBy = nil
	if outcome == StatusApproved {
		approver := actor.ID
		l.ApprovedBy = &approver
	}
	l.UpdatedAt = s.now().UTC()

	saved, err := s.save(ctx, qtx, l)
	if err != nil {
		return LeaveResponse{}, err
	}

	if changed {
		eventType := events.LeaveRejected
		if outcome == StatusApproved {
			eventType = events.LeaveApproved
		}
		if err := s.enqueue(ctx, tx, eventType, actor, saved); err != nil {
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.invalidate(ctx, saved)
	metrics.ObserveTransition("decide", string(saved.Status))

	s.logger.Info("decide leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("status", string(saved.Status)),
		zap.Bool("changed", changed),
	)

	return mapToResponse(*saved), nil
}

func (s *service) Cancel(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if !actor.Authenticated() {
		return LeaveResponse{}, leaveerrors.ErrAuthenticationRequired
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	s.logger.Debug("cancel leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("actor_id", actor.ID.String()),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if !actor.CanActOn(l.OwnerID) {
		s.logger.Warn("cancel leave denied",
			zap.String("actor_id", actor.ID.String()),
			zap.String("owner_id", l.OwnerID.String()),
		)
		return LeaveResponse{}, leaveerrors.ErrNotOwner
	}
	if l.Status == StatusRejected {
		return LeaveResponse{}, leaveerrors.ErrAlreadyRejected
	}

	today := businessday.DateOnly(s.now())
	if businessday.DateOnly(l.StartDate).Before(today) {
		s.logger.Warn("cancel leave already started",
			zap.String("leave_id", id),
			zap.Time("start_date", l.StartDate),
		)
		return LeaveResponse{}, leaveerrors.ErrAlreadyStarted
	}

	l.Status = StatusRejected
	l.ApprovedBy = nil
	l.UpdatedAt = s.now().UTC()

	saved, err := s.save(ctx, qtx, l)
	if err != nil {
		return LeaveResponse{}, err
	}

	if err := s.enqueue(ctx, tx, events.LeaveCancelled, actor, saved); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.invalidate(ctx, saved)
	metrics.ObserveTransition("cancel", string(saved.Status))

	s.logger.Info("cancel leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("actor_id", actor.ID.String()),
	)

	return mapToResponse(*saved), nil
}

func (s *service) GetAll(ctx context.Context, actor domain.Actor, filter ListFilter) ([]LeaveResponse, error) {
	if !actor.Authenticated() {
		return nil, leaveerrors.ErrAuthenticationRequired
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, leaveerrors.ErrInvalidStatusFilter
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, leaveerrors.ErrInvalidDateRange
	}

	cacheKey := ""
	switch {
	case actor.IsAdmin && filter.IsZero():
		cacheKey = GetLeaveListAllKey()
	case !actor.IsAdmin:
		own := actor.ID
		filter.OwnerID = &own
		if filter.Status == "" && filter.From == nil && filter.To == nil {
			cacheKey = GetLeaveListKey(own)
		}
	}

	if cacheKey == "" {
		return s.list(ctx, filter)
	}

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []LeaveResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		resp, err := s.list(ctx, filter)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, data, listCacheTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]LeaveResponse), nil
}

func (s *service) list(ctx context.Context, filter ListFilter) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("list leaves failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	resp := make([]LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		resp = append(resp, mapToResponse(l))
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error) {
	if !actor.Authenticated() {
		return LeaveResponse{}, leaveerrors.ErrAuthenticationRequired
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if !actor.CanActOn(l.OwnerID) {
		return LeaveResponse{}, leaveerrors.ErrNotOwner
	}

	return mapToResponse(*l), nil
}

func (s *service) CheckTeamConflicts(ctx context.Context, actor domain.Actor, start, end string) ([]TeamConflict, error) {
	if !actor.Authenticated() {
		return nil, leaveerrors.ErrAuthenticationRequired
	}
	from, to, err := parseRange(start, end)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.conflicts.Team(ctx, s.repo, actor.ID, from, to)
	if err != nil {
		s.logger.Error("team conflict check failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return conflicts, nil
}

func (s *service) CheckHolidayConflicts(ctx context.Context, actor domain.Actor, start, end string) ([]HolidayConflict, error) {
	if !actor.Authenticated() {
		return nil, leaveerrors.ErrAuthenticationRequired
	}
	from, to, err := parseRange(start, end)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.conflicts.Holidays(ctx, actor.CountryCode(), from, to)
	if err != nil {
		s.logger.Error("holiday conflict check failed", zap.Error(err))
		return nil, err
	}
	return conflicts, nil
}

// save writes the lifecycle columns and reloads the row with its owner.
func (s *service) save(ctx context.Context, qtx Repository, l *LeaveRequest) (*LeaveRequest, error) {
	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("update leave failed", zap.String("leave_id", l.ID.String()), zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	saved, err := qtx.FindByID(ctx, l.ID.String())
	if err != nil {
		s.logger.Error("reload leave failed", zap.String("leave_id", l.ID.String()), zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return saved, nil
}

func (s *service) enqueue(ctx context.Context, tx *sql.Tx, eventType string, actor domain.Actor, l *LeaveRequest) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	event, err := kafka.NewOutboxEvent(rid, "leave_request", l.ID.String(), eventType, events.LeaveLifecycleTopic,
		events.LeaveLifecycleEvent{
			EventType:  eventType,
			RequestID:  rid,
			LeaveID:    l.ID.String(),
			OwnerID:    l.OwnerID.String(),
			OwnerName:  l.OwnerName(),
			ActorID:    actor.ID.String(),
			LeaveType:  string(l.LeaveType),
			Status:     string(l.Status),
			StartDate:  l.StartDate.Format(businessday.DateLayout),
			EndDate:    l.EndDate.Format(businessday.DateLayout),
			OccurredAt: s.now().UTC(),
		},
	)
	if err != nil {
		s.logger.Error("marshal leave event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("leave outbox persist failed",
			zap.String("leave_id", l.ID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// invalidate drops read views touched by a committed change. Failures only
// leave a stale entry until its TTL, so they are logged and swallowed.
func (s *service) invalidate(ctx context.Context, l *LeaveRequest) {
	if s.rdb == nil {
		return
	}

	keys := []string{
		GetLeaveListKey(l.OwnerID),
		GetLeaveListAllKey(),
		GetBalanceKey(l.OwnerID, l.StartDate.Year()),
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Error("failed to invalidate leave caches",
			zap.Strings("keys", keys),
			zap.Error(err),
		)
	}
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	from, err := businessday.ParseDate(strings.TrimSpace(start))
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	to, err := businessday.ParseDate(strings.TrimSpace(end))
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return from, to, nil
}

func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	v := strings.TrimSpace(*notes)
	if v == "" {
		return nil
	}
	return &v
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:             l.ID.String(),
		OwnerID:        l.OwnerID.String(),
		OwnerName:      l.OwnerName(),
		StartDate:      l.StartDate.Format(businessday.DateLayout),
		EndDate:        l.EndDate.Format(businessday.DateLayout),
		CalendarDays:   businessday.CalendarDays(l.StartDate, l.EndDate),
		LeaveType:      string(l.LeaveType),
		LeaveTypeLabel: l.LeaveType.Label(),
		Status:         string(l.Status),
		Notes:          l.Notes,
		CreatedAt:      l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      l.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	return resp
}
