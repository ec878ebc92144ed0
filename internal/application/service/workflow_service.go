package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mjvanrooyen/claimflow/internal/application/port"
	"github.com/mjvanrooyen/claimflow/internal/domain/entity"
	"github.com/mjvanrooyen/claimflow/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// TransitionResult reports a successful status change
type TransitionResult struct {
	ClaimID int64           `json:"claim_id"`
	From    workflow.Status `json:"from"`
	To      workflow.Status `json:"to"`
}

// WorkflowService applies status transitions and keeps the audit trail
type WorkflowService interface {
	// ApplyTransition moves the claim to the requested status if the
	// engine allows it for the actor, recording exactly one history
	// entry in the same transaction
	ApplyTransition(ctx context.Context, claimID int64, actor workflow.Actor, requested workflow.Status) (*TransitionResult, error)

	// CoordinatorDecision records a coordinator recommendation
	CoordinatorDecision(ctx context.Context, claimID int64, actor workflow.Actor, approve bool) (*TransitionResult, error)

	// ManagerDecision records the final manager decision
	ManagerDecision(ctx context.Context, claimID int64, actor workflow.Actor, approve bool) (*TransitionResult, error)

	// HistoryFor returns the audit trail, newest first
	HistoryFor(ctx context.Context, claimID int64) ([]*entity.StatusHistory, error)
}

type workflowServiceImpl struct {
	engine       *workflow.Engine
	claimRepo    port.ClaimRepository
	lineItemRepo port.LineItemRepository
	historyRepo  port.HistoryRepository
	txManager    port.TransactionManager
	notifier     port.DecisionNotifier
	logger       Logger
}

// NewWorkflowService creates a new WorkflowService. notifier may be nil
// when outbound notifications are disabled.
func NewWorkflowService(
	engine *workflow.Engine,
	claimRepo port.ClaimRepository,
	lineItemRepo port.LineItemRepository,
	historyRepo port.HistoryRepository,
	txManager port.TransactionManager,
	notifier port.DecisionNotifier,
	logger Logger,
) WorkflowService {
	return &workflowServiceImpl{
		engine:       engine,
		claimRepo:    claimRepo,
		lineItemRepo: lineItemRepo,
		historyRepo:  historyRepo,
		txManager:    txManager,
		notifier:     notifier,
		logger:       logger,
	}
}

// ApplyTransition runs the load / check / mutate / audit sequence inside
// one transaction. The status update carries an optimistic guard on the
// observed status, so two racing decisions cannot both win from the same
// starting point.
func (s *workflowServiceImpl) ApplyTransition(ctx context.Context, claimID int64, actor workflow.Actor, requested workflow.Status) (*TransitionResult, error) {
	var result *TransitionResult
	var decided *entity.Claim

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		claim, err := s.claimRepo.GetByID(txCtx, claimID)
		if err != nil {
			return fmt.Errorf("load claim: %w", err)
		}
		if claim == nil {
			return ErrNotFound
		}

		from := claim.Status
		if err := s.engine.Check(actor.Roles, from, requested); err != nil {
			return err
		}

		ok, err := s.claimRepo.UpdateStatus(txCtx, claimID, from, requested)
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		if !ok {
			return ErrConflict
		}

		now := time.Now().UTC()
		switch {
		case requested == workflow.StatusCoordinatorApproved || requested == workflow.StatusCoordinatorRejected:
			if err := s.claimRepo.RecordCoordinator(txCtx, claimID, actor.ID); err != nil {
				return fmt.Errorf("record coordinator: %w", err)
			}
		case requested.IsTerminal():
			reviewedAt := now
			if err := s.claimRepo.RecordManager(txCtx, claimID, actor.ID, &reviewedAt); err != nil {
				return fmt.Errorf("record manager: %w", err)
			}
		case from.IsTerminal():
			// Reopen: the terminal decision no longer stands
			if err := s.claimRepo.RecordManager(txCtx, claimID, actor.ID, nil); err != nil {
				return fmt.Errorf("clear review time: %w", err)
			}
		}

		entry := &entity.StatusHistory{
			ClaimID:   claimID,
			From:      from,
			To:        requested,
			ChangedAt: now,
			ChangedBy: actor.ID,
		}
		if err := s.historyRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		claim.Status = requested
		decided = claim
		result = &TransitionResult{ClaimID: claimID, From: from, To: requested}
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Claim status changed",
		"claim_id", claimID,
		"from", result.From.String(),
		"to", result.To.String(),
		"actor", actor.ID)

	if requested.IsTerminal() && s.notifier != nil {
		// The notification reports the claim total, so the line items
		// must be on the claim before it goes out. A failed load skips
		// the mail rather than reporting a zero total.
		items, err := s.lineItemRepo.GetByClaimID(ctx, claimID)
		if err != nil {
			s.logger.Error("Failed to load line items for notification", "claim_id", claimID, "error", err)
			return result, nil
		}
		decided.LineItems = items
		if err := s.notifier.NotifyDecision(ctx, decided, requested); err != nil {
			s.logger.Error("Decision notification failed", "claim_id", claimID, "error", err)
		}
	}

	return result, nil
}

// CoordinatorDecision maps the approve flag onto the recommendation
// statuses and runs it through the engine like any other transition
func (s *workflowServiceImpl) CoordinatorDecision(ctx context.Context, claimID int64, actor workflow.Actor, approve bool) (*TransitionResult, error) {
	target := workflow.StatusCoordinatorRejected
	if approve {
		target = workflow.StatusCoordinatorApproved
	}
	return s.ApplyTransition(ctx, claimID, actor, target)
}

// ManagerDecision maps the approve flag onto the terminal statuses
func (s *workflowServiceImpl) ManagerDecision(ctx context.Context, claimID int64, actor workflow.Actor, approve bool) (*TransitionResult, error) {
	target := workflow.StatusManagerRejected
	if approve {
		target = workflow.StatusManagerApproved
	}
	return s.ApplyTransition(ctx, claimID, actor, target)
}

// HistoryFor is a pure query; no side effects
func (s *workflowServiceImpl) HistoryFor(ctx context.Context, claimID int64) ([]*entity.StatusHistory, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, ErrNotFound
	}
	return s.historyRepo.GetByClaimID(ctx, claimID)
}
