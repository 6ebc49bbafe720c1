package holiday

import "time"

// Record is what a holiday provider hands back for one date.
type Record struct {
	Date      time.Time
	Name      string
	LocalName *string
	Type      string
}

// HolidayQuery selects by country plus a date range, a set of years, or both.
// Empty Country means every country.
type HolidayQuery struct {
	Country string
	From    *time.Time
	To      *time.Time
	Years   []int
}

type IngestRecordRequest struct {
	Date      string  `json:"date" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	LocalName *string `json:"local_name"`
	Type      string  `json:"type"`
}

type IngestRequest struct {
	Holidays []IngestRecordRequest `json:"holidays" binding:"required,min=1,dive"`
}

type IngestResult struct {
	Country  string `json:"country"`
	Ingested int    `json:"ingested"`
}

// SyncResult reports one provider refresh. A provider failure is not an
// error: Skipped is set, Warning explains why and cached rows stay.
type SyncResult struct {
	Country  string `json:"country"`
	Year     int    `json:"year"`
	Ingested int    `json:"ingested"`
	Skipped  bool   `json:"skipped"`
	Warning  string `json:"warning,omitempty"`
}

type HolidayResponse struct {
	ID        string  `json:"id"`
	Country   string  `json:"country"`
	Date      string  `json:"date"`
	Name      string  `json:"name"`
	LocalName *string `json:"local_name,omitempty"`
	Type      string  `json:"type"`
	Year      int     `json:"year"`
	UpdatedAt string  `json:"updated_at"`
}
