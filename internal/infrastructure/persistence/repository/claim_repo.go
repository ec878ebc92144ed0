package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mjvanrooyen/claimflow/internal/application/port"
	"github.com/mjvanrooyen/claimflow/internal/domain/entity"
	"github.com/mjvanrooyen/claimflow/internal/domain/workflow"
	"github.com/mjvanrooyen/claimflow/internal/infrastructure/persistence/sqlite"
)

const claimColumns = `id, lecturer_name, module_code, year, month,
	lecturer_user_id, coordinator_user_id, manager_user_id,
	status, submitted_at, reviewed_at`

// ClaimRepository implements port.ClaimRepository
type ClaimRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewClaimRepository creates a new claim repository
func NewClaimRepository(db *sql.DB, logger *zap.Logger) port.ClaimRepository {
	return &ClaimRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new claim
func (r *ClaimRepository) Create(ctx context.Context, claim *entity.Claim) error {
	query := `
		INSERT INTO claims (
			lecturer_name, module_code, year, month,
			lecturer_user_id, status, submitted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		claim.LecturerName,
		claim.ModuleCode,
		claim.Year,
		claim.Month,
		claim.LecturerUserID,
		claim.Status.String(),
		claim.SubmittedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create claim", zap.Error(err))
		return fmt.Errorf("failed to create claim: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	claim.ID = id
	return nil
}

// GetByID retrieves a claim by ID; (nil, nil) when absent
func (r *ClaimRepository) GetByID(ctx context.Context, id int64) (*entity.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = ?`

	row := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id)
	claim, err := scanClaim(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get claim by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}
	return claim, nil
}

// List returns all claims ordered by period, newest first
func (r *ClaimRepository) List(ctx context.Context) ([]*entity.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims ORDER BY year DESC, month DESC, id DESC`
	return r.queryClaims(ctx, query)
}

// ListByStatuses returns claims in any of the given statuses
func (r *ClaimRepository) ListByStatuses(ctx context.Context, statuses []workflow.Status) ([]*entity.Claim, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(statuses))
	args := make([]interface{}, len(statuses))
	for i, status := range statuses {
		placeholders[i] = "?"
		args[i] = status.String()
	}

	query := `SELECT ` + claimColumns + ` FROM claims
		WHERE status IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY status, year DESC, month DESC`
	return r.queryClaims(ctx, query, args...)
}

// ListApproved returns manager-approved claims with optional period filter
func (r *ClaimRepository) ListApproved(ctx context.Context, year, month int) ([]*entity.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims
		WHERE status = ?
		AND (? = 0 OR year = ?)
		AND (? = 0 OR month = ?)
		ORDER BY lecturer_name, year, month`
	return r.queryClaims(ctx, query,
		workflow.StatusManagerApproved.String(), year, year, month, month)
}

// UpdateStatus moves the claim between statuses with an optimistic guard.
// A concurrent writer that changed the status first makes this a no-op
// reported through the bool.
func (r *ClaimRepository) UpdateStatus(ctx context.Context, id int64, from, to workflow.Status) (bool, error) {
	query := `UPDATE claims SET status = ? WHERE id = ? AND status = ?`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		to.String(), id, from.String())
	if err != nil {
		r.logger.Error("Failed to update claim status", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to update status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected == 1, nil
}

// RecordCoordinator stores the deciding coordinator identity
func (r *ClaimRepository) RecordCoordinator(ctx context.Context, id int64, userID string) error {
	query := `UPDATE claims SET coordinator_user_id = ? WHERE id = ?`

	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, userID, id); err != nil {
		r.logger.Error("Failed to record coordinator", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to record coordinator: %w", err)
	}
	return nil
}

// RecordManager stores the deciding manager identity and review time
func (r *ClaimRepository) RecordManager(ctx context.Context, id int64, userID string, reviewedAt *time.Time) error {
	query := `UPDATE claims SET manager_user_id = ?, reviewed_at = ? WHERE id = ?`

	var reviewed interface{}
	if reviewedAt != nil {
		reviewed = *reviewedAt
	}
	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, userID, reviewed, id); err != nil {
		r.logger.Error("Failed to record manager decision", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to record manager decision: %w", err)
	}
	return nil
}

// Delete removes the claim; child rows cascade via foreign keys
func (r *ClaimRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx,
		`DELETE FROM claims WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete claim", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to delete claim: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected == 1, nil
}

func (r *ClaimRepository) queryClaims(ctx context.Context, query string, args ...interface{}) ([]*entity.Claim, error) {
	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query claims", zap.Error(err))
		return nil, fmt.Errorf("failed to query claims: %w", err)
	}
	defer rows.Close()

	var claims []*entity.Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClaim(row rowScanner) (*entity.Claim, error) {
	var claim entity.Claim
	var status string
	var coordinator, manager sql.NullString
	var reviewedAt sql.NullTime

	err := row.Scan(
		&claim.ID,
		&claim.LecturerName,
		&claim.ModuleCode,
		&claim.Year,
		&claim.Month,
		&claim.LecturerUserID,
		&coordinator,
		&manager,
		&status,
		&claim.SubmittedAt,
		&reviewedAt,
	)
	if err != nil {
		return nil, err
	}

	claim.Status = workflow.Status(status)
	if coordinator.Valid {
		claim.CoordinatorUserID = coordinator.String
	}
	if manager.Valid {
		claim.ManagerUserID = manager.String
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		claim.ReviewedAt = &t
	}
	return &claim, nil
}

// Verify interface compliance
var _ port.ClaimRepository = (*ClaimRepository)(nil)
