package balance_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-leave/internal/balance"
	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/businessday"
	"go-leave/internal/domain"
	"go-leave/internal/leave"
	leaveMock "go-leave/internal/leave/mock"
	usererrors "go-leave/internal/user/errors"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeCalendar struct {
	set   businessday.DateSet
	err   error
	calls int
	to    time.Time
}

func (f *fakeCalendar) DateSet(ctx context.Context, country string, from, to time.Time) (businessday.DateSet, error) {
	f.calls++
	f.to = to
	if f.err != nil {
		return nil, f.err
	}
	return f.set, nil
}

type fakeDirectory map[string]domain.Actor

func (f fakeDirectory) ResolveActor(ctx context.Context, userID string) (domain.Actor, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return domain.Actor{}, usererrors.ErrInvalidUserID
	}
	a, ok := f[userID]
	if !ok {
		return domain.Actor{}, usererrors.ErrUserNotFound
	}
	return a, nil
}

func day(v string) time.Time {
	d, _ := time.Parse("2006-01-02", v)
	return d
}

func annual(owner uuid.UUID, start, end string, st leave.Status) leave.LeaveRequest {
	return leave.LeaveRequest{
		ID:        uuid.New(),
		OwnerID:   owner,
		StartDate: day(start),
		EndDate:   day(end),
		LeaveType: leave.LeaveTypeAnnual,
		Status:    st,
	}
}

type balanceDeps struct {
	repo      *leaveMock.MockRepository
	calendar  *fakeCalendar
	redismock redismock.ClientMock
	owner     domain.Actor
	service   balance.Service
}

func setupBalanceTest(t *testing.T, opts ...balance.Option) *balanceDeps {
	ctrl := gomock.NewController(t)
	repo := leaveMock.NewMockRepository(ctrl)
	rdb, redisMock := redismock.NewClientMock()

	pt := "PT"
	owner := domain.Actor{ID: uuid.New(), Name: "Rui", Country: &pt}
	calendar := &fakeCalendar{set: businessday.NewDateSet()}
	users := fakeDirectory{owner.ID.String(): owner}

	svc := balance.NewService(repo, calendar, users, append([]balance.Option{balance.WithCache(rdb)}, opts...)...)
	return &balanceDeps{repo: repo, calendar: calendar, redismock: redisMock, owner: owner, service: svc}
}

func expectYearQuery(deps *balanceDeps, year int, rows []leave.LeaveRequest) {
	from, to := businessday.YearBounds(year)
	deps.repo.EXPECT().
		FindByOwnerAndTypeStartingBetween(gomock.Any(), deps.owner.ID, leave.LeaveTypeAnnual, from, to,
			leave.StatusApproved, leave.StatusPending).
		Return(rows, nil)
}

func TestBalanceService_ComputeBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("twenty used days leave five remaining", func(t *testing.T) {
		deps := setupBalanceTest(t)
		id := deps.owner.ID

		deps.redismock.ExpectGet(leave.GetBalanceKey(id, 2025)).RedisNil()
		expectYearQuery(deps, 2025, []leave.LeaveRequest{
			annual(id, "2025-03-03", "2025-03-07", leave.StatusApproved),
			annual(id, "2025-03-10", "2025-03-14", leave.StatusApproved),
			annual(id, "2025-06-02", "2025-06-06", leave.StatusApproved),
			annual(id, "2025-09-01", "2025-09-05", leave.StatusApproved),
		})

		snap, err := deps.service.ComputeBalance(ctx, id.String(), 2025)

		require.NoError(t, err)
		assert.Equal(t, 25, snap.TotalAllocation)
		assert.Equal(t, 20, snap.UsedDays)
		assert.Equal(t, 0, snap.PendingDays)
		assert.Equal(t, 5, snap.RemainingDays)
	})

	t.Run("overdrawn allocation floors at zero", func(t *testing.T) {
		deps := setupBalanceTest(t)
		id := deps.owner.ID

		deps.redismock.ExpectGet(leave.GetBalanceKey(id, 2025)).RedisNil()
		expectYearQuery(deps, 2025, []leave.LeaveRequest{
			annual(id, "2025-03-03", "2025-03-14", leave.StatusApproved),
			annual(id, "2025-06-02", "2025-06-13", leave.StatusApproved),
			annual(id, "2025-10-06", "2025-10-17", leave.StatusApproved),
		})

		snap, err := deps.service.ComputeBalance(ctx, id.String(), 2025)

		require.NoError(t, err)
		assert.Equal(t, 30, snap.UsedDays)
		assert.Equal(t, 0, snap.RemainingDays)
	})

	t.Run("holidays and weekends are not debited and pending is reported apart", func(t *testing.T) {
		deps := setupBalanceTest(t, balance.WithAllocation(22))
		id := deps.owner.ID
		deps.calendar.set = businessday.NewDateSet(day("2025-06-10"), day("2026-01-01"))

		deps.redismock.ExpectGet(leave.GetBalanceKey(id, 2025)).RedisNil()
		expectYearQuery(deps, 2025, []leave.LeaveRequest{
			annual(id, "2025-06-07", "2025-06-13", leave.StatusApproved),
			annual(id, "2025-12-29", "2026-01-02", leave.StatusPending),
		})

		snap, err := deps.service.ComputeBalance(ctx, id.String(), 2025)

		require.NoError(t, err)
		assert.Equal(t, 4, snap.UsedDays)
		assert.Equal(t, 4, snap.PendingDays)
		assert.Equal(t, 18, snap.RemainingDays)
		assert.Equal(t, day("2026-01-02"), deps.calendar.to, "holiday window covers requests running past December")
		require.NotNil(t, snap.Country)
		assert.Equal(t, "PT", *snap.Country)
	})

	t.Run("user without country counts plain weekdays", func(t *testing.T) {
		deps := setupBalanceTest(t)
		deps.owner.Country = nil
		svc := balance.NewService(deps.repo, deps.calendar, fakeDirectory{deps.owner.ID.String(): deps.owner})

		expectYearQuery(deps, 2025, []leave.LeaveRequest{
			annual(deps.owner.ID, "2025-12-24", "2025-12-26", leave.StatusApproved),
		})

		snap, err := svc.ComputeBalance(ctx, deps.owner.ID.String(), 2025)

		require.NoError(t, err)
		assert.Equal(t, 3, snap.UsedDays)
		assert.Equal(t, 0, deps.calendar.calls)
	})

	t.Run("holiday lookup failure degrades to weekday count", func(t *testing.T) {
		deps := setupBalanceTest(t)
		deps.calendar.err = errors.New("db down")
		id := deps.owner.ID

		deps.redismock.ExpectGet(leave.GetBalanceKey(id, 2025)).RedisNil()
		expectYearQuery(deps, 2025, []leave.LeaveRequest{
			annual(id, "2025-12-22", "2025-12-26", leave.StatusApproved),
		})

		snap, err := deps.service.ComputeBalance(ctx, id.String(), 2025)

		require.NoError(t, err)
		assert.Equal(t, 5, snap.UsedDays)
		assert.NoError(t, deps.redismock.ExpectationsWereMet(), "degraded snapshot must not be cached")
	})

	t.Run("cache hit skips the store", func(t *testing.T) {
		deps := setupBalanceTest(t)
		id := deps.owner.ID
		cached, _ := json.Marshal(balance.Snapshot{UserID: id.String(), Year: 2025, TotalAllocation: 25, UsedDays: 7, RemainingDays: 18})

		deps.redismock.ExpectGet(leave.GetBalanceKey(id, 2025)).SetVal(string(cached))

		snap, err := deps.service.ComputeBalance(ctx, id.String(), 2025)

		require.NoError(t, err)
		assert.Equal(t, 7, snap.UsedDays)
		assert.Equal(t, 18, snap.RemainingDays)
	})

	t.Run("negative store failure", func(t *testing.T) {
		deps := setupBalanceTest(t)
		from, to := businessday.YearBounds(2025)

		deps.redismock.ExpectGet(leave.GetBalanceKey(deps.owner.ID, 2025)).RedisNil()
		deps.repo.EXPECT().
			FindByOwnerAndTypeStartingBetween(gomock.Any(), deps.owner.ID, leave.LeaveTypeAnnual, from, to, gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection reset"))

		_, err := deps.service.ComputeBalance(ctx, deps.owner.ID.String(), 2025)

		assert.EqualError(t, err, "connection reset")
	})

	t.Run("negative unknown user", func(t *testing.T) {
		deps := setupBalanceTest(t)

		_, err := deps.service.ComputeBalance(ctx, uuid.NewString(), 2025)

		assert.ErrorIs(t, err, balanceerrors.ErrUserNotFound)
	})

	t.Run("negative year out of range", func(t *testing.T) {
		deps := setupBalanceTest(t)

		_, err := deps.service.ComputeBalance(ctx, deps.owner.ID.String(), 0)

		assert.ErrorIs(t, err, balanceerrors.ErrInvalidYear)
	})
}

func TestBalanceService_GetBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("empty user id reads the caller's own balance", func(t *testing.T) {
		deps := setupBalanceTest(t)

		deps.redismock.ExpectGet(leave.GetBalanceKey(deps.owner.ID, 2025)).RedisNil()
		expectYearQuery(deps, 2025, nil)

		snap, err := deps.service.GetBalance(ctx, deps.owner, "", 2025)

		require.NoError(t, err)
		assert.Equal(t, deps.owner.ID.String(), snap.UserID)
		assert.Equal(t, 25, snap.RemainingDays)
	})

	t.Run("admin reads another user's balance", func(t *testing.T) {
		deps := setupBalanceTest(t)
		admin := domain.Actor{ID: uuid.New(), IsAdmin: true}

		deps.redismock.ExpectGet(leave.GetBalanceKey(deps.owner.ID, 2025)).RedisNil()
		expectYearQuery(deps, 2025, nil)

		_, err := deps.service.GetBalance(ctx, admin, deps.owner.ID.String(), 2025)

		require.NoError(t, err)
	})

	t.Run("negative member reading someone else", func(t *testing.T) {
		deps := setupBalanceTest(t)
		other := domain.Actor{ID: uuid.New()}

		_, err := deps.service.GetBalance(ctx, other, deps.owner.ID.String(), 2025)

		assert.ErrorIs(t, err, balanceerrors.ErrNotOwner)
	})

	t.Run("negative malformed user id", func(t *testing.T) {
		deps := setupBalanceTest(t)

		_, err := deps.service.GetBalance(ctx, deps.owner, "abc", 2025)

		assert.ErrorIs(t, err, balanceerrors.ErrInvalidUserID)
	})

	t.Run("negative anonymous", func(t *testing.T) {
		deps := setupBalanceTest(t)

		_, err := deps.service.GetBalance(ctx, domain.Actor{}, "", 2025)

		assert.ErrorIs(t, err, balanceerrors.ErrAuthenticationRequired)
	})
}
