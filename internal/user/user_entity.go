package user

import (
	"time"

	"github.com/google/uuid"
)

// User is owned by the identity system; this service only reads it.
type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;type:varchar(255);not null"`
	Email     string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	Country   *string   `gorm:"column:country;type:varchar(2);index"`
	Role      string    `gorm:"column:role;type:varchar(20);not null;default:'member'"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
