package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/mjvanrooyen/claimflow/internal/application/port"
	"github.com/mjvanrooyen/claimflow/internal/domain/entity"
	"github.com/mjvanrooyen/claimflow/internal/domain/workflow"
	"github.com/mjvanrooyen/claimflow/internal/infrastructure/persistence/sqlite"
)

// HistoryRepository implements port.HistoryRepository. The table is
// append-only: no update or single-row delete exists here; rows only go
// when the parent claim cascades away.
type HistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sql.DB, logger *zap.Logger) port.HistoryRepository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends an audit entry
func (r *HistoryRepository) Create(ctx context.Context, entry *entity.StatusHistory) error {
	query := `
		INSERT INTO claim_status_history (
			claim_id, from_status, to_status, changed_at, changed_by
		) VALUES (?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		entry.ClaimID,
		entry.From.String(),
		entry.To.String(),
		entry.ChangedAt,
		entry.ChangedBy,
	)
	if err != nil {
		r.logger.Error("Failed to create history entry", zap.Int64("claim_id", entry.ClaimID), zap.Error(err))
		return fmt.Errorf("failed to create history entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	entry.ID = id
	return nil
}

// GetByClaimID retrieves the audit trail newest first, ties broken by
// insertion order
func (r *HistoryRepository) GetByClaimID(ctx context.Context, claimID int64) ([]*entity.StatusHistory, error) {
	query := `
		SELECT id, claim_id, from_status, to_status, changed_at, changed_by
		FROM claim_status_history
		WHERE claim_id = ?
		ORDER BY changed_at DESC, id DESC
	`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, claimID)
	if err != nil {
		r.logger.Error("Failed to get history", zap.Int64("claim_id", claimID), zap.Error(err))
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var entries []*entity.StatusHistory
	for rows.Next() {
		var entry entity.StatusHistory
		var from, to string
		var changedBy sql.NullString
		err := rows.Scan(
			&entry.ID,
			&entry.ClaimID,
			&from,
			&to,
			&entry.ChangedAt,
			&changedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entry.From = workflow.Status(from)
		entry.To = workflow.Status(to)
		if changedBy.Valid {
			entry.ChangedBy = changedBy.String
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// Verify interface compliance
var _ port.HistoryRepository = (*HistoryRepository)(nil)
