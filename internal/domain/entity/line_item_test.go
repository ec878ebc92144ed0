package entity

import (
	"testing"
	"time"
)

func TestLineItem_Amount(t *testing.T) {
	tests := []struct {
		name     string
		hours    float64
		rate     float64
		expected int64
	}{
		{"exact product", 3, 20.00, 60},
		{"fraction below half rounds down", 2.5, 33.33, 83}, // 83.325
		{"half rounds away from zero", 1, 20.5, 21},
		{"just under half", 1, 20.4999, 20},
		{"zero hours", 0, 500, 0},
		{"full day at max rate", 24, 99999, 2399976},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			li := &LineItem{Hours: tt.hours, RatePerHour: tt.rate}
			if got := li.Amount(); got != tt.expected {
				t.Errorf("Amount() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestClaim_Totals(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	claim := &Claim{
		LineItems: []*LineItem{
			{Date: day, Hours: 3, RatePerHour: 20},
			{Date: day, Hours: 2.5, RatePerHour: 33.33},
		},
	}

	if got := claim.TotalAmount(); got != 143 {
		t.Errorf("TotalAmount() = %d, want 143", got)
	}
	if got := claim.TotalHours(); got != 5.5 {
		t.Errorf("TotalHours() = %v, want 5.5", got)
	}
}

func TestClaim_TotalAmount_Empty(t *testing.T) {
	claim := &Claim{}
	if got := claim.TotalAmount(); got != 0 {
		t.Errorf("TotalAmount() on empty claim = %d, want 0", got)
	}
}
