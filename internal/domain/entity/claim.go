package entity

import (
	"time"

	"github.com/mjvanrooyen/claimflow/internal/domain/workflow"
)

// Claim represents a lecturer's monthly expense claim
type Claim struct {
	ID                int64           `json:"id"`
	LecturerName      string          `json:"lecturer_name"`
	ModuleCode        string          `json:"module_code"`
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	LecturerUserID    string          `json:"lecturer_user_id"`
	CoordinatorUserID string          `json:"coordinator_user_id,omitempty"`
	ManagerUserID     string          `json:"manager_user_id,omitempty"`
	Status            workflow.Status `json:"status"`
	SubmittedAt       time.Time       `json:"submitted_at"`
	ReviewedAt        *time.Time      `json:"reviewed_at,omitempty"`

	LineItems []*LineItem           `json:"line_items,omitempty"`
	Documents []*SupportingDocument `json:"documents,omitempty"`
}

// TotalAmount is the sum of line-item amounts in whole currency units.
// Recomputed, never stored.
func (c *Claim) TotalAmount() int64 {
	var total int64
	for _, li := range c.LineItems {
		total += li.Amount()
	}
	return total
}

// TotalHours is the sum of line-item hours
func (c *Claim) TotalHours() float64 {
	var total float64
	for _, li := range c.LineItems {
		total += li.Hours
	}
	return total
}
