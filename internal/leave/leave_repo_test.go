package leave

import (
	"context"
	"testing"
	"time"

	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/shared/testdb"
	"go-leave/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func date(v string) time.Time {
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		panic(err)
	}
	return d
}

func seedUser(t *testing.T, db *gorm.DB, name string) user.User {
	t.Helper()
	u := user.User{ID: uuid.New(), Name: name, Email: uuid.NewString() + "@example.com", Role: "member"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedLeave(t *testing.T, repo Repository, owner uuid.UUID, start, end string, lt LeaveType, st Status) LeaveRequest {
	t.Helper()
	l := LeaveRequest{
		ID:        uuid.New(),
		OwnerID:   owner,
		StartDate: date(start),
		EndDate:   date(end),
		LeaveType: lt,
		Status:    st,
	}
	require.NoError(t, repo.Create(context.Background(), &l))
	return l
}

func TestRepository_FindApprovedOverlapping(t *testing.T) {
	db := testdb.Open(t, &user.User{}, &LeaveRequest{})
	repo := NewRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "Alice")
	bob := seedUser(t, db, "Bob")
	carol := seedUser(t, db, "Carol")

	seedLeave(t, repo, alice.ID, "2025-07-10", "2025-07-12", LeaveTypeAnnual, StatusApproved)
	seedLeave(t, repo, carol.ID, "2025-07-15", "2025-07-15", LeaveTypeSick, StatusApproved)
	seedLeave(t, repo, carol.ID, "2025-07-11", "2025-07-14", LeaveTypeAnnual, StatusPending)
	seedLeave(t, repo, carol.ID, "2025-07-11", "2025-07-14", LeaveTypeAnnual, StatusRejected)

	t.Run("overlapping approved leave is reported with its owner", func(t *testing.T) {
		rows, err := repo.FindApprovedOverlapping(ctx, bob.ID, date("2025-07-11"), date("2025-07-15"))

		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, alice.ID, rows[0].OwnerID)
		assert.Equal(t, "Alice", rows[0].OwnerName())
		assert.Equal(t, carol.ID, rows[1].OwnerID, "touching end date counts")
	})

	t.Run("adjacent range does not overlap", func(t *testing.T) {
		rows, err := repo.FindApprovedOverlapping(ctx, bob.ID, date("2025-07-13"), date("2025-07-14"))

		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("caller's own leave is excluded", func(t *testing.T) {
		rows, err := repo.FindApprovedOverlapping(ctx, alice.ID, date("2025-07-11"), date("2025-07-12"))

		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestRepository_LifecycleUpdate(t *testing.T) {
	db := testdb.Open(t, &user.User{}, &LeaveRequest{})
	repo := NewRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "Rui")
	admin := seedUser(t, db, "Ana")
	l := seedLeave(t, repo, owner.ID, "2025-08-04", "2025-08-08", LeaveTypeAnnual, StatusPending)

	locked, err := repo.FindByIDForUpdate(ctx, l.ID.String())
	require.NoError(t, err)

	locked.Status = StatusApproved
	locked.ApprovedBy = &admin.ID
	locked.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, locked))

	got, err := repo.FindByID(ctx, l.ID.String())
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, admin.ID, *got.ApprovedBy)
	assert.Equal(t, "Rui", got.OwnerName())

	got.Status = StatusRejected
	got.ApprovedBy = nil
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.FindByID(ctx, l.ID.String())
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, again.Status)
	assert.Nil(t, again.ApprovedBy)
}

func TestRepository_WithTx(t *testing.T) {
	db := testdb.Open(t, &user.User{}, &LeaveRequest{})
	repo := NewRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "Rui")

	sqlDB, err := db.DB()
	require.NoError(t, err)

	t.Run("rolled back create is discarded", func(t *testing.T) {
		tx, err := sqlDB.BeginTx(ctx, nil)
		require.NoError(t, err)

		l := LeaveRequest{ID: uuid.New(), OwnerID: owner.ID, StartDate: date("2025-09-01"), EndDate: date("2025-09-02"), LeaveType: LeaveTypeSick, Status: StatusPending}
		require.NoError(t, repo.WithTx(tx).Create(ctx, &l))
		require.NoError(t, tx.Rollback())

		_, err = repo.FindByID(ctx, l.ID.String())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("committed create is visible", func(t *testing.T) {
		tx, err := sqlDB.BeginTx(ctx, nil)
		require.NoError(t, err)

		l := LeaveRequest{ID: uuid.New(), OwnerID: owner.ID, StartDate: date("2025-09-01"), EndDate: date("2025-09-02"), LeaveType: LeaveTypeSick, Status: StatusPending}
		require.NoError(t, repo.WithTx(tx).Create(ctx, &l))
		require.NoError(t, tx.Commit())

		got, err := repo.FindByID(ctx, l.ID.String())
		require.NoError(t, err)
		assert.Equal(t, LeaveTypeSick, got.LeaveType)
	})
}

func TestRepository_Constraints(t *testing.T) {
	db := testdb.Open(t, &user.User{}, &LeaveRequest{})
	repo := NewRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "Rui")

	t.Run("end before start is rejected by the store", func(t *testing.T) {
		l := LeaveRequest{ID: uuid.New(), OwnerID: owner.ID, StartDate: date("2025-09-05"), EndDate: date("2025-09-01"), LeaveType: LeaveTypeAnnual, Status: StatusPending}

		err := repo.Create(ctx, &l)

		require.Error(t, err)
		assert.ErrorIs(t, mapRepositoryError(err), leaveerrors.ErrInvalidDateRange)
	})

	t.Run("unknown owner is rejected by the store", func(t *testing.T) {
		l := LeaveRequest{ID: uuid.New(), OwnerID: uuid.New(), StartDate: date("2025-09-01"), EndDate: date("2025-09-01"), LeaveType: LeaveTypeAnnual, Status: StatusPending}

		err := repo.Create(ctx, &l)

		require.Error(t, err)
		assert.ErrorIs(t, mapRepositoryError(err), leaveerrors.ErrUnknownOwner)
	})
}

func TestRepository_FindAllAndBalanceQuery(t *testing.T) {
	db := testdb.Open(t, &user.User{}, &LeaveRequest{})
	repo := NewRepository(db)
	ctx := context.Background()

	rui := seedUser(t, db, "Rui")
	ana := seedUser(t, db, "Ana")

	seedLeave(t, repo, rui.ID, "2025-03-03", "2025-03-07", LeaveTypeAnnual, StatusApproved)
	seedLeave(t, repo, rui.ID, "2025-05-05", "2025-05-06", LeaveTypeAnnual, StatusPending)
	seedLeave(t, repo, rui.ID, "2025-06-02", "2025-06-02", LeaveTypeAnnual, StatusRejected)
	seedLeave(t, repo, rui.ID, "2025-04-01", "2025-04-02", LeaveTypeSick, StatusApproved)
	seedLeave(t, repo, rui.ID, "2024-12-30", "2025-01-03", LeaveTypeAnnual, StatusApproved)
	seedLeave(t, repo, ana.ID, "2025-03-03", "2025-03-04", LeaveTypeAnnual, StatusApproved)

	t.Run("filters by owner and status", func(t *testing.T) {
		approved := StatusApproved
		rows, err := repo.FindAll(ctx, ListFilter{OwnerID: &rui.ID, Status: approved})

		require.NoError(t, err)
		assert.Len(t, rows, 3)
		for _, r := range rows {
			assert.Equal(t, rui.ID, r.OwnerID)
			assert.Equal(t, StatusApproved, r.Status)
		}
	})

	t.Run("date window keeps overlapping requests", func(t *testing.T) {
		from, to := date("2025-03-05"), date("2025-04-01")
		rows, err := repo.FindAll(ctx, ListFilter{From: &from, To: &to})

		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("annual requests starting in the year", func(t *testing.T) {
		rows, err := repo.FindByOwnerAndTypeStartingBetween(ctx, rui.ID, LeaveTypeAnnual,
			date("2025-01-01"), date("2025-12-31"), StatusApproved, StatusPending)

		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, date("2025-03-03"), rows[0].StartDate.UTC())
		assert.Equal(t, StatusPending, rows[1].Status)
	})
}

func TestLeaveType_Label(t *testing.T) {
	assert.Equal(t, "Annual Leave", LeaveTypeAnnual.Label())
	assert.Equal(t, "Public Holiday", LeaveTypePublic.Label())
	assert.Equal(t, "unpaid", LeaveType("unpaid").Label())
	assert.False(t, LeaveType("unpaid").Valid())
	assert.True(t, StatusRejected.Valid())
	assert.False(t, Status("cancelled").Valid())
}
