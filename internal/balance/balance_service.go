package balance

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/businessday"
	"go-leave/internal/domain"
	"go-leave/internal/leave"
	"go-leave/internal/observability/metrics"
	usererrors "go-leave/internal/user/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultAnnualAllocation = 25

	snapshotCacheTTL = 10 * time.Minute
	minYear          = 1970
	maxYear          = 9999
)

// LeaveReader is the query the aggregator needs from the leave store.
type LeaveReader interface {
	FindByOwnerAndTypeStartingBetween(ctx context.Context, ownerID uuid.UUID, leaveType leave.LeaveType, from, to time.Time, statuses ...leave.Status) ([]leave.LeaveRequest, error)
}

type HolidayCalendar interface {
	DateSet(ctx context.Context, country string, from, to time.Time) (businessday.DateSet, error)
}

type UserDirectory interface {
	ResolveActor(ctx context.Context, userID string) (domain.Actor, error)
}

type Service interface {
	// ComputeBalance aggregates annual leave starting in year for userID.
	ComputeBalance(ctx context.Context, userID string, year int) (Snapshot, error)
	// GetBalance is ComputeBalance behind the owner-or-admin check. An empty
	// userID means the actor's own balance.
	GetBalance(ctx context.Context, actor domain.Actor, userID string, year int) (Snapshot, error)
}

type Option func(*service)

func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l.Named("balance.service")
		}
	}
}

func WithCache(rdb *redis.Client) Option {
	return func(s *service) { s.rdb = rdb }
}

// WithAllocation overrides the yearly annual-leave entitlement.
func WithAllocation(days int) Option {
	return func(s *service) {
		if days >= 0 {
			s.allocation = days
		}
	}
}

type service struct {
	leaves     LeaveReader
	holidays   HolidayCalendar
	users      UserDirectory
	rdb        *redis.Client
	sf         *singleflight.Group
	allocation int
	logger     *zap.Logger
}

func NewService(leaves LeaveReader, holidays HolidayCalendar, users UserDirectory, opts ...Option) Service {
	s := &service{
		leaves:     leaves,
		holidays:   holidays,
		users:      users,
		sf:         &singleflight.Group{},
		allocation: DefaultAnnualAllocation,
		logger:     zap.L().Named("balance.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) GetBalance(ctx context.Context, actor domain.Actor, userID string, year int) (Snapshot, error) {
	if !actor.Authenticated() {
		return Snapshot{}, balanceerrors.ErrAuthenticationRequired
	}
	if userID == "" {
		userID = actor.ID.String()
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return Snapshot{}, balanceerrors.ErrInvalidUserID
	}
	if !actor.CanActOn(id) {
		s.logger.Warn("balance read denied",
			zap.String("actor_id", actor.ID.String()),
			zap.String("user_id", userID),
		)
		return Snapshot{}, balanceerrors.ErrNotOwner
	}

	return s.ComputeBalance(ctx, id.String(), year)
}

func (s *service) ComputeBalance(ctx context.Context, userID string, year int) (Snapshot, error) {
	if year < minYear || year > maxYear {
		return Snapshot{}, balanceerrors.ErrInvalidYear
	}

	owner, err := s.users.ResolveActor(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, usererrors.ErrUserNotFound):
			return Snapshot{}, balanceerrors.ErrUserNotFound
		case errors.Is(err, usererrors.ErrInvalidUserID):
			return Snapshot{}, balanceerrors.ErrInvalidUserID
		}
		return Snapshot{}, err
	}

	cacheKey := leave.GetBalanceKey(owner.ID, year)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var snap Snapshot
			if json.Unmarshal([]byte(cached), &snap) == nil {
				metrics.ObserveBalanceCache(true)
				return snap, nil
			}
		}
	}
	metrics.ObserveBalanceCache(false)

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		snap, complete, err := s.compute(ctx, owner, year)
		if err != nil {
			return nil, err
		}

		// a snapshot computed without the holiday calendar is served but not kept
		if complete && s.rdb != nil {
			if data, err := json.Marshal(snap); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, data, snapshotCacheTTL).Err(); err != nil {
					s.logger.Warn("cache balance snapshot failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}
		return snap, nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	return v.(Snapshot), nil
}

func (s *service) compute(ctx context.Context, owner domain.Actor, year int) (Snapshot, bool, error) {
	from, to := businessday.YearBounds(year)

	rows, err := s.leaves.FindByOwnerAndTypeStartingBetween(ctx, owner.ID, leave.LeaveTypeAnnual, from, to,
		leave.StatusApproved, leave.StatusPending)
	if err != nil {
		s.logger.Error("balance leave lookup failed",
			zap.String("user_id", owner.ID.String()),
			zap.Int("year", year),
			zap.Error(err),
		)
		return Snapshot{}, false, err
	}

	holidays, complete := s.holidaySet(ctx, owner.CountryCode(), from, spanEnd(to, rows))

	snap := Snapshot{
		UserID:          owner.ID.String(),
		Year:            year,
		Country:         owner.Country,
		TotalAllocation: s.allocation,
	}
	for _, l := range rows {
		days := businessday.Count(l.StartDate, l.EndDate, holidays)
		switch l.Status {
		case leave.StatusApproved:
			snap.UsedDays += days
		case leave.StatusPending:
			snap.PendingDays += days
		}
	}
	snap.RemainingDays = max(0, snap.TotalAllocation-snap.UsedDays)

	s.logger.Debug("balance computed",
		zap.String("user_id", snap.UserID),
		zap.Int("year", year),
		zap.Int("requests", len(rows)),
		zap.Int("used_days", snap.UsedDays),
		zap.Int("pending_days", snap.PendingDays),
	)

	return snap, complete, nil
}

// holidaySet loads the exclusion set for country. A lookup failure degrades
// to a plain weekday count and reports the set as incomplete.
func (s *service) holidaySet(ctx context.Context, country string, from, to time.Time) (businessday.DateSet, bool) {
	if country == "" || s.holidays == nil {
		return businessday.NewDateSet(), true
	}

	set, err := s.holidays.DateSet(ctx, country, from, to)
	if err != nil {
		s.logger.Warn("balance holiday lookup failed, counting weekdays only",
			zap.String("country", country),
			zap.Error(err),
		)
		return businessday.NewDateSet(), false
	}
	return set, true
}

// spanEnd stretches the holiday window to cover requests that start in the
// year but run past December 31.
func spanEnd(yearEnd time.Time, rows []leave.LeaveRequest) time.Time {
	end := yearEnd
	for _, l := range rows {
		if d := businessday.DateOnly(l.EndDate); d.After(end) {
			end = d
		}
	}
	return end
}
