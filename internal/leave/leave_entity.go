package leave

import (
	"time"

	"go-leave/internal/user"

	"github.com/google/uuid"
)

type LeaveType string

const (
	LeaveTypeAnnual    LeaveType = "annual"
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypePersonal  LeaveType = "personal"
	LeaveTypeMaternity LeaveType = "maternity"
	LeaveTypePaternity LeaveType = "paternity"
	LeaveTypePublic    LeaveType = "public"
	LeaveTypeOther     LeaveType = "other"
)

var leaveTypeLabels = map[LeaveType]string{
	LeaveTypeAnnual:    "Annual Leave",
	LeaveTypeSick:      "Sick Leave",
	LeaveTypePersonal:  "Personal Leave",
	LeaveTypeMaternity: "Maternity Leave",
	LeaveTypePaternity: "Paternity Leave",
	LeaveTypePublic:    "Public Holiday",
	LeaveTypeOther:     "Other",
}

func (t LeaveType) Valid() bool {
	_, ok := leaveTypeLabels[t]
	return ok
}

// Label is the display name; unknown types render as their raw code.
func (t LeaveType) Label() string {
	if l, ok := leaveTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	// StatusRejected is terminal. It covers both denial and cancellation.
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// LeaveRequest rows are never deleted. ApprovedBy is set iff Status is
// approved.
type LeaveRequest struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OwnerID uuid.UUID  `gorm:"type:uuid;not null;index:idx_leave_requests_owner_start,priority:1"`
	Owner   *user.User `gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT"`

	StartDate time.Time `gorm:"type:date;not null;index:idx_leave_requests_owner_start,priority:2;index:idx_leave_requests_status_dates,priority:2;check:chk_leave_requests_dates,start_date <= end_date"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leave_requests_status_dates,priority:3"`
	LeaveType LeaveType `gorm:"type:varchar(20);not null"`
	Status    Status    `gorm:"type:varchar(20);not null;index:idx_leave_requests_status_dates,priority:1"`
	Notes     *string   `gorm:"type:text"`

	ApprovedBy *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func (l LeaveRequest) OwnerName() string {
	if l.Owner == nil {
		return ""
	}
	return l.Owner.Name
}
