package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mjvanrooyen/claimflow/internal/application/port"
	"github.com/mjvanrooyen/claimflow/internal/domain/entity"
	"github.com/mjvanrooyen/claimflow/internal/domain/workflow"
)

// Claim period bounds
const (
	MinClaimYear = 2020
	MaxClaimYear = 2100
)

// reviewQueueStatuses are the statuses shown to reviewers
var reviewQueueStatuses = []workflow.Status{
	workflow.StatusSubmitted,
	workflow.StatusUnderReview,
	workflow.StatusCoordinatorApproved,
	workflow.StatusCoordinatorRejected,
}

// CreateClaimInput carries the fields a lecturer supplies for a new claim
type CreateClaimInput struct {
	LecturerName string `json:"lecturer_name"`
	ModuleCode   string `json:"module_code"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
}

// AddLineItemInput carries the fields for a new billable entry
type AddLineItemInput struct {
	Date        time.Time `json:"date"`
	Hours       float64   `json:"hours"`
	RatePerHour float64   `json:"rate_per_hour"`
	Notes       string    `json:"notes"`
}

// ClaimService manages claims and their line items
type ClaimService interface {
	// Create starts a new Draft claim owned by the acting lecturer
	Create(ctx context.Context, actor workflow.Actor, input CreateClaimInput) (*entity.Claim, error)

	// Get returns the claim with line items and documents loaded
	Get(ctx context.Context, claimID int64) (*entity.Claim, error)

	// List returns all claims with line items, newest period first
	List(ctx context.Context) ([]*entity.Claim, error)

	// ReviewQueue returns claims awaiting a coordinator or manager
	ReviewQueue(ctx context.Context) ([]*entity.Claim, error)

	// AddLineItem appends a billable entry to a claim the actor owns
	// while it is still editable
	AddLineItem(ctx context.Context, claimID int64, actor workflow.Actor, input AddLineItemInput) (*entity.LineItem, error)

	// Delete removes a claim and everything it owns. Stored blobs are
	// deleted best effort; database rows always go.
	Delete(ctx context.Context, claimID int64, actor workflow.Actor) error
}

type claimServiceImpl struct {
	claimRepo    port.ClaimRepository
	lineItemRepo port.LineItemRepository
	documentRepo port.DocumentRepository
	txManager    port.TransactionManager
	blobs        port.BlobStorage
	logger       Logger
}

// NewClaimService creates a new ClaimService
func NewClaimService(
	claimRepo port.ClaimRepository,
	lineItemRepo port.LineItemRepository,
	documentRepo port.DocumentRepository,
	txManager port.TransactionManager,
	blobs port.BlobStorage,
	logger Logger,
) ClaimService {
	return &claimServiceImpl{
		claimRepo:    claimRepo,
		lineItemRepo: lineItemRepo,
		documentRepo: documentRepo,
		txManager:    txManager,
		blobs:        blobs,
		logger:       logger,
	}
}

func validateCreateClaim(input CreateClaimInput) *ValidationError {
	verr := NewValidationError()
	if strings.TrimSpace(input.LecturerName) == "" {
		verr.Add("lecturer_name", "is required")
	}
	if strings.TrimSpace(input.ModuleCode) == "" {
		verr.Add("module_code", "is required")
	}
	if input.Year < MinClaimYear || input.Year > MaxClaimYear {
		verr.Add("year", fmt.Sprintf("must be between %d and %d", MinClaimYear, MaxClaimYear))
	}
	if input.Month < 1 || input.Month > 12 {
		verr.Add("month", "must be between 1 and 12")
	}
	return verr
}

func validateLineItem(input AddLineItemInput) *ValidationError {
	verr := NewValidationError()
	if input.Date.IsZero() {
		verr.Add("date", "is required")
	}
	if input.Hours < 0 || input.Hours > entity.MaxHours {
		verr.Add("hours", fmt.Sprintf("must be between 0 and %d", entity.MaxHours))
	}
	if input.RatePerHour < 0 || input.RatePerHour > entity.MaxRatePerHour {
		verr.Add("rate_per_hour", fmt.Sprintf("must be between 0 and %d", entity.MaxRatePerHour))
	}
	return verr
}

func (s *claimServiceImpl) Create(ctx context.Context, actor workflow.Actor, input CreateClaimInput) (*entity.Claim, error) {
	if !actor.Is(workflow.RoleLecturer) {
		return nil, ErrForbidden
	}
	if verr := validateCreateClaim(input); verr.HasViolations() {
		return nil, verr
	}

	claim := &entity.Claim{
		LecturerName:   strings.TrimSpace(input.LecturerName),
		ModuleCode:     strings.TrimSpace(input.ModuleCode),
		Year:           input.Year,
		Month:          input.Month,
		LecturerUserID: actor.ID,
		Status:         workflow.StatusDraft,
		SubmittedAt:    time.Now().UTC(),
	}

	if err := s.claimRepo.Create(ctx, claim); err != nil {
		s.logger.Error("Failed to create claim", "error", err)
		return nil, err
	}

	s.logger.Info("Claim created", "claim_id", claim.ID, "lecturer", actor.ID)
	return claim, nil
}

func (s *claimServiceImpl) Get(ctx context.Context, claimID int64) (*entity.Claim, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, ErrNotFound
	}

	if err := s.loadChildren(ctx, claim); err != nil {
		return nil, err
	}
	return claim, nil
}

func (s *claimServiceImpl) List(ctx context.Context) ([]*entity.Claim, error) {
	claims, err := s.claimRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, claim := range claims {
		items, err := s.lineItemRepo.GetByClaimID(ctx, claim.ID)
		if err != nil {
			return nil, err
		}
		claim.LineItems = items
	}
	return claims, nil
}

func (s *claimServiceImpl) ReviewQueue(ctx context.Context) ([]*entity.Claim, error) {
	claims, err := s.claimRepo.ListByStatuses(ctx, reviewQueueStatuses)
	if err != nil {
		return nil, err
	}
	for _, claim := range claims {
		items, err := s.lineItemRepo.GetByClaimID(ctx, claim.ID)
		if err != nil {
			return nil, err
		}
		claim.LineItems = items
	}
	return claims, nil
}

func (s *claimServiceImpl) AddLineItem(ctx context.Context, claimID int64, actor workflow.Actor, input AddLineItemInput) (*entity.LineItem, error) {
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

	// All violations reported at once; nothing partial is ever stored
	if verr := validateLineItem(input); verr.HasViolations() {
		return nil, verr
	}

	item := &entity.LineItem{
		ClaimID:     claimID,
		Date:        input.Date,
		Hours:       input.Hours,
		RatePerHour: input.RatePerHour,
		Notes:       strings.TrimSpace(input.Notes),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.lineItemRepo.Create(ctx, item); err != nil {
		s.logger.Error("Failed to add line item", "claim_id", claimID, "error", err)
		return nil, err
	}

	s.logger.Info("Line item added", "claim_id", claimID, "amount", item.Amount())
	return item, nil
}

// Delete removes the database rows in one transaction, then deletes the
// stored blobs. Blob deletion failures are logged and swallowed; database
// consistency wins over storage-space reclamation.
func (s *claimServiceImpl) Delete(ctx context.Context, claimID int64, actor workflow.Actor) error {
	if !actor.Is(workflow.RoleManager) {
		return ErrForbidden
	}

	var docs []*entity.SupportingDocument

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		claim, err := s.claimRepo.GetByID(txCtx, claimID)
		if err != nil {
			return err
		}
		if claim == nil {
			return ErrNotFound
		}

		docs, err = s.documentRepo.GetByClaimID(txCtx, claimID)
		if err != nil {
			return err
		}

		ok, err := s.claimRepo.Delete(txCtx, claimID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, doc := range docs {
		if doc.StorageHandle == "" {
			continue
		}
		if err := s.blobs.Delete(doc.StorageHandle); err != nil {
			s.logger.Error("Failed to delete stored file",
				"claim_id", claimID,
				"handle", doc.StorageHandle,
				"error", err)
		}
	}

	s.logger.Info("Claim deleted", "claim_id", claimID, "actor", actor.ID)
	return nil
}

func (s *claimServiceImpl) loadChildren(ctx context.Context, claim *entity.Claim) error {
	items, err := s.lineItemRepo.GetByClaimID(ctx, claim.ID)
	if err != nil {
		return err
	}
	docs, err := s.documentRepo.GetByClaimID(ctx, claim.ID)
	if err != nil {
		return err
	}
	claim.LineItems = items
	claim.Documents = docs
	return nil
}
