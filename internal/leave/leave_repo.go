package leave

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	// FindByIDForUpdate locks the row until the surrounding tx ends.
	FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error)
	Update(ctx context.Context, l *LeaveRequest) error
	FindAll(ctx context.Context, f ListFilter) ([]LeaveRequest, error)
	// FindApprovedOverlapping returns approved requests of owners other than
	// excludeOwner whose closed interval meets [start, end].
	FindApprovedOverlapping(ctx context.Context, excludeOwner uuid.UUID, start, end time.Time) ([]LeaveRequest, error)
	FindByOwnerAndTypeStartingBetween(ctx context.Context, ownerID uuid.UUID, leaveType LeaveType, from, to time.Time, statuses ...Status) ([]LeaveRequest, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx runs every query of the returned repository on tx, the same way
// gorm.DB.Begin binds its statements to a transaction.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	gtx := r.db.Session(&gorm.Session{NewDB: true, Context: context.Background()})
	gtx.Statement.ConnPool = tx
	return &repository{db: gtx}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Owner").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).
		Model(l).
		Select("status", "approved_by", "updated_at").
		Updates(l).Error
}

func (r *repository) FindAll(ctx context.Context, f ListFilter) ([]LeaveRequest, error) {
	db := r.db.WithContext(ctx).Preload("Owner")

	if f.OwnerID != nil {
		db = db.Where("owner_id = ?", *f.OwnerID)
	}
	if f.Status != "" {
		db = db.Where("status = ?", string(f.Status))
	}
	if f.From != nil {
		db = db.Where("end_date >= ?", *f.From)
	}
	if f.To != nil {
		db = db.Where("start_date <= ?", *f.To)
	}

	var leaves []LeaveRequest
	err := db.Order("start_date DESC").Order("created_at DESC").Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindApprovedOverlapping(ctx context.Context, excludeOwner uuid.UUID, start, end time.Time) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("status = ?", string(StatusApproved)).
		Where("owner_id <> ?", excludeOwner).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Order("start_date ASC").
		Order("id ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByOwnerAndTypeStartingBetween(
	ctx context.Context,
	ownerID uuid.UUID,
	leaveType LeaveType,
	from, to time.Time,
	statuses ...Status,
) ([]LeaveRequest, error) {
	db := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Where("leave_type = ?", string(leaveType)).
		Where("start_date >= ? AND start_date <= ?", from, to)

	if len(statuses) > 0 {
		values := make([]string, 0, len(statuses))
		for _, st := range statuses {
			values = append(values, string(st))
		}
		db = db.Where("status IN ?", values)
	}

	var leaves []LeaveRequest
	err := db.Order("start_date ASC").Find(&leaves).Error
	return leaves, err
}
