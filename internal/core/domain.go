package core

import (
	"errors"
	"time"
)

const (
	Debit  Direction = "DEBIT"
	Credit Direction = "CREDIT"
)

type (
	// Direction tells whether money left or entered the account.
	Direction string

	Date struct {
		time.Time
	}

	// Transaction is one financial event from an imported export.
	// Amount is always a non-negative magnitude; the sign lives in Direction.
	// Category is empty until categorization assigns one.
	Transaction struct {
		Date        Date
		Description string
		Amount      float64
		Direction   Direction
		Account     string
		Mode        string
		Category    string
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

// SignedAmount is negative for debits and positive for credits.
func (t Transaction) SignedAmount() float64 {
	if t.Direction == Credit {
		return t.Amount
	}
	return -t.Amount
}

// IsOutflow reports whether the transaction is spend (negative signed amount).
func (t Transaction) IsOutflow() bool {
	return t.SignedAmount() < 0
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time to its calendar date, keeping the location.
func DateOf(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())}
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// MonthKey returns the calendar-month label, e.g. "2025-08".
func (d Date) MonthKey() string {
	return d.Time.Format("2006-01")
}

// ISO returns the date formatted as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Time.Format("2006-01-02")
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// SameDay reports whether two dates fall on the same calendar day.
func (d Date) SameDay(other Date) bool {
	return d.Year() == other.Year() && d.Month() == other.Month() && d.Day() == other.Day()
}
