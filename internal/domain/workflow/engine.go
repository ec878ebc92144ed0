package workflow

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a status transition is not allowed
// for the acting roles from the current status
var ErrInvalidTransition = errors.New("invalid status transition")

// TransitionError carries the denied transition for diagnostic display.
// It never mutates anything; callers surface it as a Forbidden outcome.
type TransitionError struct {
	From  Status
	To    Status
	Roles []Role
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition %s -> %s not permitted for roles %v", e.From, e.To, e.Roles)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// rule permits any role member to move a claim from any status in from
// to any status in to
type rule struct {
	role Role
	from []Status
	to   []Status
}

// The full transition table. Coordinator decisions are revisable
// recommendations; manager decisions are final apart from an explicit
// reopen. Nothing maps Draft onto an approval or rejection directly.
var rules = []rule{
	// Lecturer: submit a draft, or pull a submission back
	{RoleLecturer, []Status{StatusDraft}, []Status{StatusSubmitted}},
	{RoleLecturer, []Status{StatusSubmitted}, []Status{StatusDraft}},

	// Coordinator: take a submission into review
	{RoleCoordinator, []Status{StatusSubmitted}, []Status{StatusUnderReview}},
	// Coordinator: record or revise a recommendation while reviewing
	{RoleCoordinator,
		[]Status{StatusUnderReview, StatusCoordinatorApproved, StatusCoordinatorRejected},
		[]Status{StatusCoordinatorApproved, StatusCoordinatorRejected}},

	// Manager: final decision, with or without a coordinator recommendation
	{RoleManager,
		[]Status{StatusUnderReview, StatusCoordinatorApproved, StatusCoordinatorRejected},
		[]Status{StatusManagerApproved, StatusManagerRejected}},
	// Manager: reopen a finalized claim
	{RoleManager,
		[]Status{StatusManagerApproved, StatusManagerRejected},
		[]Status{StatusUnderReview}},
}

// Engine is the pure status-transition decision table. It performs no I/O
// and holds no state, so a single value can be shared freely.
type Engine struct{}

// NewEngine creates a transition engine
func NewEngine() *Engine {
	return &Engine{}
}

// Allowed returns true if any held role permits moving from one status to
// the other
func (e *Engine) Allowed(roles RoleSet, from, to Status) bool {
	for _, r := range rules {
		if !roles.Has(r.role) {
			continue
		}
		if containsStatus(r.from, from) && containsStatus(r.to, to) {
			return true
		}
	}
	return false
}

// Check returns nil if the transition is allowed, otherwise a
// *TransitionError describing the denial
func (e *Engine) Check(roles RoleSet, from, to Status) error {
	if e.Allowed(roles, from, to) {
		return nil
	}
	return &TransitionError{From: from, To: to, Roles: roles.Roles()}
}

// PermittedTargets returns every status the given roles may move a claim
// to from the current status
func (e *Engine) PermittedTargets(roles RoleSet, from Status) []Status {
	seen := make(map[Status]bool)
	var targets []Status
	for _, r := range rules {
		if !roles.Has(r.role) || !containsStatus(r.from, from) {
			continue
		}
		for _, to := range r.to {
			if !seen[to] {
				seen[to] = true
				targets = append(targets, to)
			}
		}
	}
	return targets
}

func containsStatus(list []Status, s Status) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}
