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

// DocumentRepository implements port.DocumentRepository
type DocumentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *sql.DB, logger *zap.Logger) port.DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new document metadata row
func (r *DocumentRepository) Create(ctx context.Context, doc *entity.SupportingDocument) error {
	query := `
		INSERT INTO supporting_documents (
			claim_id, file_name, content_type, size_bytes, storage_handle, uploaded_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		doc.ClaimID,
		doc.FileName,
		doc.ContentType,
		doc.SizeBytes,
		doc.StorageHandle,
		doc.UploadedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create document", zap.Int64("claim_id", doc.ClaimID), zap.Error(err))
		return fmt.Errorf("failed to create document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	doc.ID = id
	return nil
}

// GetByClaimID retrieves document metadata for a claim, oldest first
func (r *DocumentRepository) GetByClaimID(ctx context.Context, claimID int64) ([]*entity.SupportingDocument, error) {
	query := `
		SELECT id, claim_id, file_name, content_type, size_bytes, storage_handle, uploaded_at
		FROM supporting_documents
		WHERE claim_id = ?
		ORDER BY uploaded_at, id
	`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, claimID)
	if err != nil {
		r.logger.Error("Failed to get documents", zap.Int64("claim_id", claimID), zap.Error(err))
		return nil, fmt.Errorf("failed to get documents: %w", err)
	}
	defer rows.Close()

	var docs []*entity.SupportingDocument
	for rows.Next() {
		var doc entity.SupportingDocument
		err := rows.Scan(
			&doc.ID,
			&doc.ClaimID,
			&doc.FileName,
			&doc.ContentType,
			&doc.SizeBytes,
			&doc.StorageHandle,
			&doc.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// Verify interface compliance
var _ port.DocumentRepository = (*DocumentRepository)(nil)
