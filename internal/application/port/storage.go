package port

import (
	"context"

	"github.com/mjvanrooyen/claimflow/internal/domain/entity"
	"github.com/mjvanrooyen/claimflow/internal/domain/workflow"
)

// BlobStorage stores document bytes outside the database. Handles are
// opaque strings recorded on SupportingDocument rows.
type BlobStorage interface {
	// Store writes the content under a name derived from originalName
	// and returns the handle
	Store(content []byte, originalName string) (string, error)

	// Delete removes the blob for the handle
	Delete(handle string) error
}

// UploadPolicy supplies the live upload constraints. Implementations read
// backing configuration at call time so operators can change policy
// without a restart; tests inject fixed values.
type UploadPolicy interface {
	AllowedExtensions() []string
	MaxSizeBytes() int64
}

// DecisionNotifier is told about manager-terminal decisions. Delivery is
// best effort; failures must not fail the transition.
type DecisionNotifier interface {
	NotifyDecision(ctx context.Context, claim *entity.Claim, decided workflow.Status) error
}
