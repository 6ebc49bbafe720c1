package holiday

import (
	"time"

	"github.com/google/uuid"
)

// PublicHoliday is one cached provider row. (country, date) is unique; the
// upsert in Repository.UpsertBatch relies on that index.
type PublicHoliday struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Country   string    `gorm:"type:varchar(2);not null;uniqueIndex:uq_public_holidays_country_date,priority:1;index:idx_public_holidays_country_year,priority:1"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uq_public_holidays_country_date,priority:2"`
	Name      string    `gorm:"type:varchar(255);not null"`
	LocalName *string   `gorm:"type:varchar(255)"`
	Type      string    `gorm:"type:varchar(100);not null;default:''"`
	Year      int       `gorm:"not null;index:idx_public_holidays_country_year,priority:2"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PublicHoliday) TableName() string {
	return "public_holidays"
}
