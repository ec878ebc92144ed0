package workflow

// Status represents a claim status in the approval lifecycle
type Status string

const (
	StatusDraft               Status = "DRAFT"
	StatusSubmitted           Status = "SUBMITTED"
	StatusUnderReview         Status = "UNDER_REVIEW"
	StatusCoordinatorApproved Status = "COORDINATOR_APPROVED"
	StatusCoordinatorRejected Status = "COORDINATOR_REJECTED"
	StatusManagerApproved     Status = "MANAGER_APPROVED"
	StatusManagerRejected     Status = "MANAGER_REJECTED"
)

var validStatuses = map[Status]bool{
	StatusDraft:               true,
	StatusSubmitted:           true,
	StatusUnderReview:         true,
	StatusCoordinatorApproved: true,
	StatusCoordinatorRejected: true,
	StatusManagerApproved:     true,
	StatusManagerRejected:     true,
}

// terminalStatuses are statuses only a manager reopen can leave
var terminalStatuses = map[Status]bool{
	StatusManagerApproved: true,
	StatusManagerRejected: true,
}

// editableStatuses are statuses in which the lecturer may still change
// line items and documents
var editableStatuses = map[Status]bool{
	StatusDraft:     true,
	StatusSubmitted: true,
}

// legacyAliases maps the two-tier deployment names onto the
// manager-terminal statuses. Parse-time only; the constants never overlap.
var legacyAliases = map[string]Status{
	"APPROVED": StatusManagerApproved,
	"REJECTED": StatusManagerRejected,
}

// ParseStatus converts a string to a Status, accepting legacy aliases
func ParseStatus(s string) (Status, bool) {
	status := Status(s)
	if validStatuses[status] {
		return status, true
	}
	if alias, ok := legacyAliases[s]; ok {
		return alias, true
	}
	return "", false
}

// IsValid returns true if the status is a defined lifecycle status
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// IsTerminal returns true if only a manager reopen can leave the status
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}

// IsEditable returns true if the lecturer may still edit claim contents
func (s Status) IsEditable() bool {
	return editableStatuses[s]
}

// Legacy returns the two-tier name for the status where one exists,
// otherwise the canonical name
func (s Status) Legacy() string {
	switch s {
	case StatusManagerApproved:
		return "APPROVED"
	case StatusManagerRejected:
		return "REJECTED"
	}
	return string(s)
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}
