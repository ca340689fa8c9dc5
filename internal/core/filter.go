package core

import "strings"

// Filter narrows a list of entries. Zero fields match everything; From and To
// are inclusive.
type Filter struct {
	Category string
	Type     EntryType
	From     Date
	To       Date
}

// Match reports whether e passes every set criterion.
func (f Filter) Match(e Entry) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if !f.From.IsZero() && e.Date.Before(f.From.Time) {
		return false
	}
	if !f.To.IsZero() && e.Date.After(f.To.Time) {
		return false
	}
	return true
}

// Apply returns the entries matching f, preserving order.
func (f Filter) Apply(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// IsEmpty reports whether no criterion is set.
func (f Filter) IsEmpty() bool {
	return strings.TrimSpace(f.Category) == "" && f.Type == "" && f.From.IsZero() && f.To.IsZero()
}
