package leaveerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrAuthenticationRequired = apperror.New(
		apperror.CodeUnauthorized,
		"authentication required",
		http.StatusUnauthorized,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"leave_type must be one of: annual, sick, personal, maternity, paternity, public, other",
		http.StatusBadRequest,
	)
	ErrInvalidOutcome = apperror.New(
		apperror.CodeInvalidInput,
		"outcome must be one of: approved, rejected",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"status must be one of: pending, approved, rejected",
		http.StatusBadRequest,
	)
	ErrUnknownOwner = apperror.New(
		apperror.CodeInvalidInput,
		"leave owner does not exist",
		http.StatusBadRequest,
	)
	ErrAdminRequired = apperror.New(
		apperror.CodeForbidden,
		"admin capability required",
		http.StatusForbidden,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"only the owner or an admin can act on this leave request",
		http.StatusForbidden,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrAlreadyRejected = apperror.New(
		apperror.CodeInvalidState,
		"leave request is already rejected",
		http.StatusConflict,
	)
	ErrAlreadyStarted = apperror.New(
		apperror.CodeInvalidState,
		"leave request has already started",
		http.StatusConflict,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave overlaps approved team leave",
		http.StatusConflict,
	)
)
