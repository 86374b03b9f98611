package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

type (
	// Date is a calendar date in ISO YYYY-MM-DD form. Lexical order on valid
	// dates matches chronological order, so range filters and recency checks
	// compare the raw strings.
	Date string

	Money struct {
		Cents int64 `json:"cents"`
	}

	Expense struct {
		ID          string `json:"id"`
		Amount      Money  `json:"amount"`
		Category    string `json:"category"`
		Date        Date   `json:"date"`
		Description string `json:"description"`
	}

	Salary struct {
		ID          string `json:"id"`
		Amount      Money  `json:"amount"`
		Date        Date   `json:"date"`
		Description string `json:"description"`
	}

	Category struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Icon  string `json:"icon,omitempty"`
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyName        = errors.New("empty name")
)

// NewDate builds a Date from calendar components.
func NewDate(year, month, day int) Date {
	return Date(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format(DateLayout))
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// MonthOf returns the YYYY-MM key of an instant.
func MonthOf(t time.Time) string {
	return t.Format("2006-01")
}

func (d Date) Validate() error {
	if _, err := time.Parse(DateLayout, string(d.DayKey())); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// DayKey returns the date portion only, truncating any embedded time suffix.
// Distinct-day counting in the summary works on day keys.
func (d Date) DayKey() Date {
	if i := strings.IndexByte(string(d), 'T'); i >= 0 {
		return d[:i]
	}
	return d
}

// InMonth reports whether the date falls in the given YYYY-MM month.
func (d Date) InMonth(month string) bool {
	return strings.HasPrefix(string(d), month)
}

// MonthKey returns the YYYY-MM portion of the date.
func (d Date) MonthKey() string {
	if len(d) >= 7 {
		return string(d[:7])
	}
	return string(d)
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (s Salary) Validate() error {
	if err := s.Date.Validate(); err != nil {
		return err
	}
	if err := s.Amount.Validate(); err != nil {
		return err
	}
	if len(s.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	return nil
}
