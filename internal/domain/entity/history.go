package entity

import (
	"time"

	"github.com/mjvanrooyen/claimflow/internal/domain/workflow"
)

// StatusHistory is one audit entry. Rows are append-only: once written
// they are never updated, and only disappear when the parent claim is
// deleted.
type StatusHistory struct {
	ID        int64           `json:"id"`
	ClaimID   int64           `json:"claim_id"`
	From      workflow.Status `json:"from"`
	To        workflow.Status `json:"to"`
	ChangedAt time.Time       `json:"changed_at"`
	ChangedBy string          `json:"changed_by,omitempty"`
}
