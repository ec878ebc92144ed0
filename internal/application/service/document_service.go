package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mjvanrooyen/claimflow/internal/application/port"
	"github.com/mjvanrooyen/claimflow/internal/domain/entity"
	"github.com/mjvanrooyen/claimflow/internal/domain/workflow"
)

// UploadInput carries one uploaded file
type UploadInput struct {
	FileName    string
	ContentType string
	Content     []byte
}

// DocumentService manages supporting documents
type DocumentService interface {
	// Upload validates the file against the live upload policy, stores
	// the bytes, then records the metadata row
	Upload(ctx context.Context, claimID int64, actor workflow.Actor, input UploadInput) (*entity.SupportingDocument, error)

	// ListForClaim returns document metadata for a claim
	ListForClaim(ctx context.Context, claimID int64) ([]*entity.SupportingDocument, error)
}

type documentServiceImpl struct {
	claimRepo    port.ClaimRepository
	documentRepo port.DocumentRepository
	blobs        port.BlobStorage
	policy       port.UploadPolicy
	logger       Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	claimRepo port.ClaimRepository,
	documentRepo port.DocumentRepository,
	blobs port.BlobStorage,
	policy port.UploadPolicy,
	logger Logger,
) DocumentService {
	return &documentServiceImpl{
		claimRepo:    claimRepo,
		documentRepo: documentRepo,
		blobs:        blobs,
		policy:       policy,
		logger:       logger,
	}
}

// Upload checks policy before any byte is persisted. The blob is written
// first and the metadata row after; if the metadata write fails the blob
// is removed again so no half-recorded document survives.
func (s *documentServiceImpl) Upload(ctx context.Context, claimID int64, actor workflow.Actor, input UploadInput) (*entity.SupportingDocument, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, ErrNotFound
	}
	if claim.LecturerUserID != actor.ID || !actor.Is(workflow.RoleLecturer) {
		return nil, ErrForbidden
	}
	if !claim.Status.IsEditable() {
		return nil, ErrForbidden
	}

	if verr := s.validateFile(input); verr.HasViolations() {
		return nil, verr
	}

	handle, err := s.blobs.Store(input.Content, input.FileName)
	if err != nil {
		s.logger.Error("Failed to store uploaded file", "claim_id", claimID, "error", err)
		return nil, fmt.Errorf("store file: %w", err)
	}

	doc := &entity.SupportingDocument{
		ClaimID:       claimID,
		FileName:      filepath.Base(input.FileName),
		ContentType:   input.ContentType,
		SizeBytes:     int64(len(input.Content)),
		StorageHandle: handle,
		UploadedAt:    time.Now().UTC(),
	}

	if err := s.documentRepo.Create(ctx, doc); err != nil {
		s.logger.Error("Failed to record document metadata", "claim_id", claimID, "error", err)
		if delErr := s.blobs.Delete(handle); delErr != nil {
			// Orphaned blob; accepted as a rare leak
			s.logger.Error("Failed to remove orphaned file", "handle", handle, "error", delErr)
		}
		return nil, fmt.Errorf("record document: %w", err)
	}

	s.logger.Info("Document uploaded",
		"claim_id", claimID,
		"file", doc.FileName,
		"size", doc.SizeBytes)
	return doc, nil
}

func (s *documentServiceImpl) ListForClaim(ctx context.Context, claimID int64) ([]*entity.SupportingDocument, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, ErrNotFound
	}
	return s.documentRepo.GetByClaimID(ctx, claimID)
}

// validateFile applies the upload policy read at call time
func (s *documentServiceImpl) validateFile(input UploadInput) *ValidationError {
	verr := NewValidationError()

	if len(input.Content) == 0 {
		verr.Add("file", "is empty")
		return verr
	}

	ext := strings.ToLower(filepath.Ext(input.FileName))
	allowed := false
	for _, candidate := range s.policy.AllowedExtensions() {
		if ext == strings.ToLower(candidate) {
			allowed = true
			break
		}
	}
	if !allowed {
		verr.Add("file", fmt.Sprintf("extension %q is not allowed", ext))
	}

	if max := s.policy.MaxSizeBytes(); int64(len(input.Content)) > max {
		verr.Add("file", fmt.Sprintf("exceeds the maximum size of %d bytes", max))
	}

	return verr
}
