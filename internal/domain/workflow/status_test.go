package workflow

import "testing"

func TestStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusDraft, false},
		{StatusSubmitted, false},
		{StatusUnderReview, false},
		{StatusCoordinatorApproved, false},
		{StatusCoordinatorRejected, false},
		{StatusManagerApproved, true},
		{StatusManagerRejected, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.expected {
				t.Errorf("Status.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatus_IsEditable(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusDraft, true},
		{StatusSubmitted, true},
		{StatusUnderReview, false},
		{StatusCoordinatorApproved, false},
		{StatusCoordinatorRejected, false},
		{StatusManagerApproved, false},
		{StatusManagerRejected, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsEditable(); got != tt.expected {
				t.Errorf("Status.IsEditable() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Status
		ok       bool
	}{
		{"canonical", "DRAFT", StatusDraft, true},
		{"canonical terminal", "MANAGER_APPROVED", StatusManagerApproved, true},
		{"legacy approved", "APPROVED", StatusManagerApproved, true},
		{"legacy rejected", "REJECTED", StatusManagerRejected, true},
		{"unknown", "PENDING", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseStatus(tt.input)
			if ok != tt.ok || got != tt.expected {
				t.Errorf("ParseStatus(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestStatus_Legacy(t *testing.T) {
	if got := StatusManagerApproved.Legacy(); got != "APPROVED" {
		t.Errorf("Legacy() = %v, want APPROVED", got)
	}
	if got := StatusManagerRejected.Legacy(); got != "REJECTED" {
		t.Errorf("Legacy() = %v, want REJECTED", got)
	}
	if got := StatusUnderReview.Legacy(); got != "UNDER_REVIEW" {
		t.Errorf("Legacy() = %v, want UNDER_REVIEW", got)
	}
}

func TestParseRole(t *testing.T) {
	if _, ok := ParseRole("LECTURER"); !ok {
		t.Error("ParseRole(LECTURER) should succeed")
	}
	if _, ok := ParseRole("STUDENT"); ok {
		t.Error("ParseRole(STUDENT) should fail")
	}
}

func TestRoleSet_Has(t *testing.T) {
	set := NewRoleSet(RoleLecturer, RoleManager, Role("BOGUS"))

	if !set.Has(RoleLecturer) || !set.Has(RoleManager) {
		t.Error("set should contain the valid roles it was built from")
	}
	if set.Has(RoleCoordinator) {
		t.Error("set should not contain an absent role")
	}
	if len(set) != 2 {
		t.Errorf("unknown roles must be dropped, got %d members", len(set))
	}
}
