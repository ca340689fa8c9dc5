package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

// MaxCategoryLen mirrors the width of the category column, in characters.
const MaxCategoryLen = 50

type (
	EntryType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Entry is a single income or expense line of the budget.
	Entry struct {
		ID       int64
		Date     Date
		Category string
		Amount   Money
		Type     EntryType
	}

	Category struct {
		ID   int64
		Name string
	}
)

var (
	ErrZeroDate         = errors.New("date cannot be zero")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyCategory    = errors.New("empty category")
	ErrCategoryTooLong  = errors.New("category too long (max 50 characters)")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrInvalidEntryType = errors.New("invalid entry type")
)

// DefaultCategories are seeded into every fresh backend.
var DefaultCategories = []string{"Food", "Rent", "Utilities", "Salary", "Entertainment", "Other"}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a date in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(time.DateOnly)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ParseEntryType accepts "income" or "expense" in any case.
func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(strings.ToLower(strings.TrimSpace(s)))
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

func (t EntryType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidEntryType
	}
}

// ValidateCategoryName checks a category name as typed by the user.
func ValidateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyCategory
	}
	if utf8.RuneCountInString(name) > MaxCategoryLen {
		return ErrCategoryTooLong
	}
	return nil
}

func (e Entry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := ValidateCategoryName(e.Category); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	return e.Type.Validate()
}

// IsExpense reports whether the entry counts towards spending.
func (e Entry) IsExpense() bool {
	return e.Type == Expense
}
