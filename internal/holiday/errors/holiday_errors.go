package holidayerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidCountry = apperror.New(
		apperror.CodeInvalidInput,
		"country must be an ISO 3166-1 alpha-2 code",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"from must be on or before to",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"invalid year",
		http.StatusBadRequest,
	)
	ErrInvalidRecord = apperror.New(
		apperror.CodeInvalidInput,
		"holiday record requires a date and a name",
		http.StatusBadRequest,
	)
	ErrHolidayNotFound = apperror.New(
		apperror.CodeNotFound,
		"holiday not found",
		http.StatusNotFound,
	)
	ErrAdminRequired = apperror.New(
		apperror.CodeForbidden,
		"admin capability required",
		http.StatusForbidden,
	)
	ErrUpstreamUnavailable = apperror.New(
		apperror.CodeUpstreamUnavailable,
		"holiday provider unavailable, cached holidays kept",
		http.StatusServiceUnavailable,
	)
)
