package leave

import (
	"context"
	"time"

	"go-leave/internal/businessday"
	"go-leave/internal/holiday"

	"github.com/google/uuid"
)

// HolidayReader is the slice of the holiday cache the detector needs.
type HolidayReader interface {
	Query(ctx context.Context, q holiday.HolidayQuery) ([]holiday.HolidayResponse, error)
}

// ConflictDetector answers the two advisory overlap questions. Both are
// pure reads.
type ConflictDetector struct {
	holidays HolidayReader
}

func NewConflictDetector(holidays HolidayReader) *ConflictDetector {
	return &ConflictDetector{holidays: holidays}
}

// Team lists approved requests of other users meeting [start, end]; touching
// endpoints count. repo may be bound to a transaction.
func (d *ConflictDetector) Team(ctx context.Context, repo Repository, ownerID uuid.UUID, start, end time.Time) ([]TeamConflict, error) {
	rows, err := repo.FindApprovedOverlapping(ctx, ownerID, businessday.DateOnly(start), businessday.DateOnly(end))
	if err != nil {
		return nil, err
	}

	out := make([]TeamConflict, 0, len(rows))
	for _, l := range rows {
		out = append(out, TeamConflict{
			LeaveID:   l.ID.String(),
			OwnerID:   l.OwnerID.String(),
			OwnerName: l.OwnerName(),
			StartDate: l.StartDate.Format(businessday.DateLayout),
			EndDate:   l.EndDate.Format(businessday.DateLayout),
			LeaveType: string(l.LeaveType),
		})
	}
	return out, nil
}

// Holidays lists country's cached holidays in [start, end]. No country means
// no calendar, which is not an error.
func (d *ConflictDetector) Holidays(ctx context.Context, country string, start, end time.Time) ([]HolidayConflict, error) {
	out := []HolidayConflict{}
	if country == "" || d.holidays == nil {
		return out, nil
	}

	from, to := businessday.DateOnly(start), businessday.DateOnly(end)
	rows, err := d.holidays.Query(ctx, holiday.HolidayQuery{Country: country, From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	for _, h := range rows {
		out = append(out, HolidayConflict{
			Country:   h.Country,
			Date:      h.Date,
			Name:      h.Name,
			LocalName: h.LocalName,
		})
	}
	return out, nil
}
