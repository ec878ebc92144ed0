package entity

import (
	"math"
	"time"
)

// Hour and rate bounds for a billable entry
const (
	MaxHours       = 24
	MaxRatePerHour = 99999
)

// LineItem represents one dated hours-times-rate billable entry
type LineItem struct {
	ID          int64     `json:"id"`
	ClaimID     int64     `json:"claim_id"`
	Date        time.Time `json:"date"`
	Hours       float64   `json:"hours"`
	RatePerHour float64   `json:"rate_per_hour"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Amount is hours times rate rounded half away from zero to the nearest
// whole currency unit. No fractional cents are retained; the rounding
// must stay exact to avoid one-cent disputes.
func (li *LineItem) Amount() int64 {
	return int64(math.Round(li.Hours * li.RatePerHour))
}
