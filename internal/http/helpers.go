package http

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"smartbudget/internal/core"
	"smartbudget/internal/ledger"
	applog "smartbudget/internal/log"
)

// formatEuros formats cents as a Euro currency string (e.g., "€12.34").
func formatEuros(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	euros := cents / 100
	rem := cents % 100
	s := strconv.FormatInt(euros, 10) + "." + fmt.Sprintf("%02d", rem)
	if neg {
		return "-€" + s
	}
	return "€" + s
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// templateFuncs are available to every page template.
var templateFuncs = template.FuncMap{
	"euros": func(m core.Money) string { return formatEuros(m.Cents) },
	"date":  func(d core.Date) string { return d.String() },
}

// isValidationError reports whether err comes from user input.
func isValidationError(err error) bool {
	var fe *FieldError
	switch {
	case errors.As(err, &fe),
		errors.Is(err, core.ErrZeroDate),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrCategoryTooLong),
		errors.Is(err, core.ErrUnknownCategory),
		errors.Is(err, core.ErrInvalidEntryType):
		return true
	}
	return false
}

// writeServiceError maps service errors onto status codes and logs the
// ones that are not the caller's fault.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, ErrInvalidID):
		NotFoundError("Entry not found").Write(w)
	case errors.Is(err, ledger.ErrCategoryExists):
		ConflictError("Category already exists.").Write(w)
	case isValidationError(err):
		UnprocessableEntityError("Invalid data: " + err.Error()).Write(w)
	default:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.FieldOperation, op,
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err)
		InternalServerError("Something went wrong, please try again").Write(w)
	}
}
