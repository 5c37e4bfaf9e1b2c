package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "strings"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOwner    Role = "owner"
	RoleCustomer Role = "customer"
	RoleGuest    Role = "guest"
)

// ParseRole maps a backend role string to a Role. Unknown values map to guest.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleOwner:
		return RoleOwner
	case RoleCustomer:
		return RoleCustomer
	default:
		return RoleGuest
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleCustomer, RoleGuest:
		return true
	default:
		return false
	}
}

// ApprovalStatus tracks whether a salon owner account was accepted by an admin.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// ParseApprovalStatus maps a backend value to an ApprovalStatus.
// Empty input means the account needs no approval and is treated as approved.
func ParseApprovalStatus(s string) ApprovalStatus {
	switch ApprovalStatus(strings.ToLower(strings.TrimSpace(s))) {
	case ApprovalPending:
		return ApprovalPending
	case ApprovalRejected:
		return ApprovalRejected
	default:
		return ApprovalApproved
	}
}

// User is the profile of the signed-in principal as returned by the backend.
type User struct {
	ID             string         `json:"id"`
	DisplayName    string         `json:"display_name"`
	Email          string         `json:"email"`
	Role           Role           `json:"role"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`
}

// Valid reports whether the profile carries the minimum fields a session needs.
func (u User) Valid() bool {
	return u.ID != "" && u.Role.Valid()
}

// Session pairs the backend bearer token with the user profile.
// Token is opaque to this process.
type Session struct {
	Token string `json:"-"`
	User  User   `json:"user"`
}

// IsGuest returns true if the session role is guest.
func (s Session) IsGuest() bool { return s.User.Role == RoleGuest }

// Approved reports whether the user may use owner features.
// Non-owner roles are always approved.
func (s Session) Approved() bool {
	if s.User.Role != RoleOwner {
		return true
	}
	return s.User.ApprovalStatus == ApprovalApproved
}
