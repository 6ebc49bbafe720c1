package holiday

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=holiday_repo.go -destination=mock/holiday_repo_mock.go -package=mock
type Repository interface {
	UpsertBatch(ctx context.Context, rows []PublicHoliday) error
	Find(ctx context.Context, q HolidayQuery) ([]PublicHoliday, error)
	FindByCountryAndDate(ctx context.Context, country string, date time.Time) (*PublicHoliday, error)
	Delete(ctx context.Context, h *PublicHoliday) error
}

const upsertBatchSize = 500

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// UpsertBatch inserts rows or, on (country, date) collision, refreshes the
// descriptive columns and updated_at. id, year and created_at are left alone.
func (r *repository) UpsertBatch(ctx context.Context, rows []PublicHoliday) error {
	if len(rows) == 0 {
		return nil
	}

	for i := 0; i < len(rows); i += upsertBatchSize {
		end := i + upsertBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[i:end]

		res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "country"},
				{Name: "date"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"name", "local_name", "type", "updated_at"}),
		}).Create(&chunk)
		if res.Error != nil {
			return res.Error
		}
	}
	return nil
}

func (r *repository) Find(ctx context.Context, q HolidayQuery) ([]PublicHoliday, error) {
	db := r.db.WithContext(ctx).Model(&PublicHoliday{})

	if q.Country != "" {
		db = db.Where("country = ?", q.Country)
	}
	if q.From != nil {
		db = db.Where("date >= ?", *q.From)
	}
	if q.To != nil {
		db = db.Where("date <= ?", *q.To)
	}
	if len(q.Years) > 0 {
		db = db.Where("year IN ?", q.Years)
	}

	var rows []PublicHoliday
	err := db.Order("date ASC").Order("country ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByCountryAndDate(ctx context.Context, country string, date time.Time) (*PublicHoliday, error) {
	var h PublicHoliday
	err := r.db.WithContext(ctx).
		Where("country = ? AND date = ?", country, date).
		First(&h).Error
	return &h, err
}

func (r *repository) Delete(ctx context.Context, h *PublicHoliday) error {
	return r.db.WithContext(ctx).Delete(h).Error
}
