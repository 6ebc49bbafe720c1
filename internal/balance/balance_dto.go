package balance

// Snapshot is derived on demand and never persisted. Remaining ignores
// pending days; they are reported so callers can show what is in flight.
type Snapshot struct {
	UserID          string  `json:"user_id"`
	Year            int     `json:"year"`
	Country         *string `json:"country,omitempty"`
	TotalAllocation int     `json:"total_allocation"`
	UsedDays        int     `json:"used_days"`
	PendingDays     int     `json:"pending_days"`
	RemainingDays   int     `json:"remaining_days"`
}
