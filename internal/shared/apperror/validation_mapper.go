package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// start_date -> Start Date
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError turns the first validator failure into an INVALID_INPUT
// AppError naming the offending field.
func MapValidationError(err error) *AppError {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		field := formatFieldName(e.Field())
		details := map[string]string{"field": e.Field(), "rule": e.Tag()}

		switch e.Tag() {
		case "required":
			return RequiredField(field).WithDetails(details)
		case "oneof":
			return New(
				CodeInvalidInput,
				field+" must be one of: "+strings.ReplaceAll(e.Param(), " ", ", "),
				http.StatusBadRequest,
			).WithDetails(details)
		default:
			return InvalidField(field).WithDetails(details)
		}
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}
