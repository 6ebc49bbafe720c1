package leave

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	LeaveListKeyPrefix = "leave:list:"
	leaveListAllKey    = LeaveListKeyPrefix + "all"
)

// GetLeaveListKey is the cached unfiltered read view of one owner.
func GetLeaveListKey(ownerID uuid.UUID) string {
	return LeaveListKeyPrefix + ownerID.String()
}

func GetLeaveListAllKey() string {
	return leaveListAllKey
}

// GetBalanceKey names the cached PTO snapshot of one owner and year. The
// balance package fills it; lifecycle changes drop it.
func GetBalanceKey(ownerID uuid.UUID, year int) string {
	return fmt.Sprintf("pto:balance:%s:%d", ownerID, year)
}
