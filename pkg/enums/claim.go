package enums

import (
	"fmt"
	"strings"
)

// ClaimStatus maps to claim_requests.status.
type ClaimStatus string

const (
	ClaimStatusPending   ClaimStatus = "pending"
	ClaimStatusApproved  ClaimStatus = "approved"
	ClaimStatusRejected  ClaimStatus = "rejected"
	ClaimStatusCompleted ClaimStatus = "completed"
)

var validClaimStatuses = []ClaimStatus{
	ClaimStatusPending,
	ClaimStatusApproved,
	ClaimStatusRejected,
	ClaimStatusCompleted,
}

var claimTransitions = map[ClaimStatus][]ClaimStatus{
	ClaimStatusPending:  {ClaimStatusApproved, ClaimStatusRejected},
	ClaimStatusApproved: {ClaimStatusCompleted},
}

func (c ClaimStatus) String() string { return string(c) }

func (c ClaimStatus) IsValid() bool {
	for _, candidate := range validClaimStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether moving from c to next is allowed.
func (c ClaimStatus) CanTransitionTo(next ClaimStatus) bool {
	for _, candidate := range claimTransitions[c] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ClaimRole selects which side of a claim a listing is for.
type ClaimRole string

const (
	ClaimRoleClaimer ClaimRole = "claimer"
	ClaimRoleOwner   ClaimRole = "owner"
)

func ParseClaimRole(value string) (ClaimRole, error) {
	switch ClaimRole(strings.ToLower(strings.TrimSpace(value))) {
	case "", ClaimRoleClaimer:
		return ClaimRoleClaimer, nil
	case ClaimRoleOwner:
		return ClaimRoleOwner, nil
	}
	return "", fmt.Errorf("invalid claim role %q", value)
}

func ParseClaimStatus(value string) (ClaimStatus, error) {
	v := ClaimStatus(strings.ToLower(strings.TrimSpace(value)))
	if v.IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("invalid claim status %q", value)
}
