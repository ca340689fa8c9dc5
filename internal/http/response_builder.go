// Package http provides HTTP server and handler implementations.
//
// This file implements the Builder Pattern for constructing responses.
// It provides a fluent API for status, headers, bodies, downloads and
// post/redirect/get redirects carrying a notice code.

package http

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
)

// ResponseBuilder provides a fluent API for building responses.
type ResponseBuilder struct {
	statusCode int
	body       []byte
	headers    map[string]string
	err        error
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the response body as bytes.
func (b *ResponseBuilder) Body(content []byte) *ResponseBuilder {
	b.body = content
	return b
}

// BodyString sets the response body as a string.
func (b *ResponseBuilder) BodyString(content string) *ResponseBuilder {
	b.body = []byte(content)
	return b
}

// BodyHTML sets the response body as HTML content.
func (b *ResponseBuilder) BodyHTML(html string) *ResponseBuilder {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = []byte(html)
	return b
}

// JSON encodes v as the response body. An encoding failure turns the
// response into a 500.
func (b *ResponseBuilder) JSON(v any) *ResponseBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		b.err = fmt.Errorf("encode response: %w", err)
		return b
	}
	b.headers["Content-Type"] = "application/json"
	b.body = data
	return b
}

// Attachment marks the response as a file download.
func (b *ResponseBuilder) Attachment(filename, contentType string) *ResponseBuilder {
	b.headers["Content-Type"] = contentType
	b.headers["Content-Disposition"] = "attachment; filename=" + filename
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	if b.err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// NotificationType represents the type of notification to display.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

// Notice is a one-shot message shown on the page a form redirects to.
type Notice struct {
	Type    NotificationType
	Message string
}

// Notice codes passed in the notice query parameter after a redirect.
const (
	NoticeEntryAdded    = "entry_added"
	NoticeEntryUpdated  = "entry_updated"
	NoticeEntryDeleted  = "entry_deleted"
	NoticeCategoryAdded = "category_added"
)

var notices = map[string]Notice{
	NoticeEntryAdded:    {Type: NotificationSuccess, Message: "Entry added successfully!"},
	NoticeEntryUpdated:  {Type: NotificationSuccess, Message: "Entry updated successfully."},
	NoticeEntryDeleted:  {Type: NotificationSuccess, Message: "Entry deleted successfully."},
	NoticeCategoryAdded: {Type: NotificationSuccess, Message: "Category added!"},
}

// LookupNotice resolves a notice code. Unknown codes yield false.
func LookupNotice(code string) (Notice, bool) {
	n, ok := notices[code]
	return n, ok
}

// RedirectWithNotice builds a 303 See Other to path carrying the notice code.
func RedirectWithNotice(path, code string) *ResponseBuilder {
	target := path
	if code != "" {
		target += "?" + url.Values{"notice": {code}}.Encode()
	}
	return NewResponse().
		Status(http.StatusSeeOther).
		Header("Location", target)
}

// ErrorResponse creates a standard error response with HTML formatting.
// The message is HTML-escaped for safety.
func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	escapedMsg := template.HTMLEscapeString(message)
	return NewResponse().
		Status(statusCode).
		BodyHTML(`<div class="error">` + escapedMsg + `</div>`)
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// UnprocessableEntityError creates a 422 Unprocessable Entity error response.
func UnprocessableEntityError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

// ConflictError creates a 409 Conflict error response.
func ConflictError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusConflict, message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}
