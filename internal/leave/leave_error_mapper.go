package leave

import (
	"errors"
	"strings"

	leaveerrors "go-leave/internal/leave/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23514":
			return leaveerrors.ErrInvalidDateRange
		case "23503":
			return leaveerrors.ErrUnknownOwner
		case "22P02":
			return leaveerrors.ErrInvalidLeaveID
		}
	}

	// sqlite reports constraint failures only as text
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "check constraint failed"):
		return leaveerrors.ErrInvalidDateRange
	case strings.Contains(msg, "foreign key constraint failed"):
		return leaveerrors.ErrUnknownOwner
	}

	return err
}
