package port

import (
	"context"
	"time"

	"github.com/mjvanrooyen/claimflow/internal/domain/entity"
	"github.com/mjvanrooyen/claimflow/internal/domain/workflow"
)

// ClaimRepository defines persistence operations for Claim
type ClaimRepository interface {
	Create(ctx context.Context, claim *entity.Claim) error

	// GetByID returns (nil, nil) when the claim does not exist
	GetByID(ctx context.Context, id int64) (*entity.Claim, error)

	// List returns all claims ordered by period, newest first
	List(ctx context.Context) ([]*entity.Claim, error)

	// ListByStatuses returns claims in any of the given statuses,
	// ordered by status then period descending
	ListByStatuses(ctx context.Context, statuses []workflow.Status) ([]*entity.Claim, error)

	// ListApproved returns manager-approved claims, optionally filtered
	// by year and month (zero means no filter)
	ListApproved(ctx context.Context, year, month int) ([]*entity.Claim, error)

	// UpdateStatus moves the claim from one status to another with an
	// optimistic guard on the expected current status. Returns false
	// when no row matched, i.e. a concurrent writer got there first.
	UpdateStatus(ctx context.Context, id int64, from, to workflow.Status) (bool, error)

	// RecordCoordinator stores the deciding coordinator identity
	RecordCoordinator(ctx context.Context, id int64, userID string) error

	// RecordManager stores the deciding manager identity and the review
	// timestamp (nil clears it, used on reopen)
	RecordManager(ctx context.Context, id int64, userID string, reviewedAt *time.Time) error

	// Delete removes the claim; child rows cascade. Returns false when
	// the claim did not exist.
	Delete(ctx context.Context, id int64) (bool, error)
}

// LineItemRepository defines persistence operations for LineItem
type LineItemRepository interface {
	Create(ctx context.Context, item *entity.LineItem) error
	GetByClaimID(ctx context.Context, claimID int64) ([]*entity.LineItem, error)
}

// DocumentRepository defines persistence operations for SupportingDocument
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.SupportingDocument) error
	GetByClaimID(ctx context.Context, claimID int64) ([]*entity.SupportingDocument, error)
}

// HistoryRepository defines persistence operations for StatusHistory.
// Entries are append-only; there is no update or single-row delete.
type HistoryRepository interface {
	Create(ctx context.Context, entry *entity.StatusHistory) error

	// GetByClaimID returns entries newest first, ties broken by
	// insertion order
	GetByClaimID(ctx context.Context, claimID int64) ([]*entity.StatusHistory, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
