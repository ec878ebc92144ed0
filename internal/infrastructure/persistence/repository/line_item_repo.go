package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/mjvanrooyen/claimflow/internal/application/port"
	"github.com/mjvanrooyen/claimflow/internal/domain/entity"
	"github.com/mjvanrooyen/claimflow/internal/infrastructure/persistence/sqlite"
)

// LineItemRepository implements port.LineItemRepository
type LineItemRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLineItemRepository creates a new line item repository
func NewLineItemRepository(db *sql.DB, logger *zap.Logger) port.LineItemRepository {
	return &LineItemRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new line item
func (r *LineItemRepository) Create(ctx context.Context, item *entity.LineItem) error {
	query := `
		INSERT INTO claim_line_items (
			claim_id, entry_date, hours, rate_per_hour, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		item.ClaimID,
		item.Date,
		item.Hours,
		item.RatePerHour,
		item.Notes,
		item.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create line item", zap.Int64("claim_id", item.ClaimID), zap.Error(err))
		return fmt.Errorf("failed to create line item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	item.ID = id
	return nil
}

// GetByClaimID retrieves all line items for a claim in entry order
func (r *LineItemRepository) GetByClaimID(ctx context.Context, claimID int64) ([]*entity.LineItem, error) {
	query := `
		SELECT id, claim_id, entry_date, hours, rate_per_hour, notes, created_at
		FROM claim_line_items
		WHERE claim_id = ?
		ORDER BY entry_date, id
	`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, claimID)
	if err != nil {
		r.logger.Error("Failed to get line items", zap.Int64("claim_id", claimID), zap.Error(err))
		return nil, fmt.Errorf("failed to get line items: %w", err)
	}
	defer rows.Close()

	var items []*entity.LineItem
	for rows.Next() {
		var item entity.LineItem
		var notes sql.NullString
		err := rows.Scan(
			&item.ID,
			&item.ClaimID,
			&item.Date,
			&item.Hours,
			&item.RatePerHour,
			&notes,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		if notes.Valid {
			item.Notes = notes.String
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// Verify interface compliance
var _ port.LineItemRepository = (*LineItemRepository)(nil)
