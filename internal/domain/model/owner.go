package model

import (
	"time"

	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
)

// Owner is a salon owner account awaiting or holding approval.
type Owner struct {
	ID             string
	Name           string
	Email          string
	SalonName      string
	ApprovalStatus domainauth.ApprovalStatus
	CreatedAt      time.Time
}

// OwnerWire is the backend representation of an owner account.
type OwnerWire struct {
	ID             *string `json:"id"`
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	SalonName      *string `json:"salon_name"`
	ApprovalStatus *string `json:"approval_status"`
	CreatedAt      *string `json:"created_at"`
}

// Resolve applies defaults. A missing approval status is treated as pending
// so that unreviewed accounts surface in the approval queue.
func (w OwnerWire) Resolve() Owner {
	approval := domainauth.ApprovalPending
	if w.ApprovalStatus != nil {
		approval = domainauth.ParseApprovalStatus(*w.ApprovalStatus)
	}
	return Owner{
		ID:             str(w.ID),
		Name:           strOr(w.Name, str(w.Email)),
		Email:          str(w.Email),
		SalonName:      str(w.SalonName),
		ApprovalStatus: approval,
		CreatedAt:      tm(w.CreatedAt),
	}
}
