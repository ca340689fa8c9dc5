// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data:
// the dashboard filter, the entry form and path identifiers.

package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"smartbudget/internal/core"
)

// ErrInvalidID is returned for a malformed {id} path segment.
var ErrInvalidID = errors.New("invalid entry id")

// FieldError reports which form or query field failed to parse.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ParseFilter reads the dashboard filter from query values. Empty values
// match everything; dates are YYYY-MM-DD and inclusive.
func ParseFilter(query url.Values) (core.Filter, error) {
	f := core.Filter{
		Category: sanitizeInput(query.Get("category")),
	}

	if v := strings.TrimSpace(query.Get("type")); v != "" {
		t, err := core.ParseEntryType(v)
		if err != nil {
			return core.Filter{}, &FieldError{Field: "type", Err: err}
		}
		f.Type = t
	}
	if v := strings.TrimSpace(query.Get("start_date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Filter{}, &FieldError{Field: "start_date", Err: err}
		}
		f.From = d
	}
	if v := strings.TrimSpace(query.Get("end_date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Filter{}, &FieldError{Field: "end_date", Err: err}
		}
		f.To = d
	}

	return f, nil
}

// FilterValues encodes f back into query values. It is the inverse of
// ParseFilter and doubles as a stable cache key.
func FilterValues(f core.Filter) url.Values {
	v := url.Values{}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if f.Type != "" {
		v.Set("type", string(f.Type))
	}
	if !f.From.IsZero() {
		v.Set("start_date", f.From.String())
	}
	if !f.To.IsZero() {
		v.Set("end_date", f.To.String())
	}
	return v
}

// ParseEntryForm builds an entry from the date, category, amount and type
// form fields. The entry is validated before it is returned.
func ParseEntryForm(form url.Values) (core.Entry, error) {
	date, err := core.ParseDate(form.Get("date"))
	if err != nil {
		return core.Entry{}, &FieldError{Field: "date", Err: err}
	}

	cents, err := core.ParseDecimalToCents(form.Get("amount"))
	if err != nil {
		return core.Entry{}, &FieldError{Field: "amount", Err: err}
	}

	typ, err := core.ParseEntryType(form.Get("type"))
	if err != nil {
		return core.Entry{}, &FieldError{Field: "type", Err: err}
	}

	e := core.Entry{
		Date:     date,
		Category: sanitizeInput(form.Get("category")),
		Amount:   core.Money{Cents: cents},
		Type:     typ,
	}
	if err := core.ValidateCategoryName(e.Category); err != nil {
		return core.Entry{}, &FieldError{Field: "category", Err: err}
	}
	return e, nil
}

// ParseEntryID reads the {id} path value.
func ParseEntryID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *ResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Invalid request format")
	}
	return nil
}
