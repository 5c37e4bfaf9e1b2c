package model

import (
	"strings"
	"time"
)

// Promotion is a discount campaign run by a salon.
// Description is markdown authored by the owner.
type Promotion struct {
	ID              string
	SalonID         string
	Title           string
	Description     string
	Code            string
	DiscountPercent float64
	StartsAt        time.Time
	EndsAt          time.Time
	Active          bool
}

// Live reports whether the promotion is active and inside its date window at now.
func (p Promotion) Live(now time.Time) bool {
	if !p.Active {
		return false
	}
	if !p.StartsAt.IsZero() && now.Before(p.StartsAt) {
		return false
	}
	if !p.EndsAt.IsZero() && now.After(p.EndsAt) {
		return false
	}
	return true
}

// PromotionWire is the backend representation of a promotion.
type PromotionWire struct {
	ID              *string  `json:"id"`
	SalonID         *string  `json:"salon_id"`
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	Code            *string  `json:"code"`
	DiscountPercent *float64 `json:"discount_percent"`
	StartsAt        *string  `json:"starts_at"`
	EndsAt          *string  `json:"ends_at"`
	Active          *bool    `json:"active"`
}

// Resolve applies defaults.
func (w PromotionWire) Resolve() Promotion {
	return Promotion{
		ID:              str(w.ID),
		SalonID:         str(w.SalonID),
		Title:           strOr(w.Title, "Untitled promotion"),
		Description:     str(w.Description),
		Code:            strings.ToUpper(str(w.Code)),
		DiscountPercent: num(w.DiscountPercent),
		StartsAt:        tm(w.StartsAt),
		EndsAt:          tm(w.EndsAt),
		Active:          boolean(w.Active),
	}
}

// NewPromotion is the create request an owner submits.
type NewPromotion struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discount_percent"`
	StartsAt        string  `json:"starts_at,omitempty"`
	EndsAt          string  `json:"ends_at,omitempty"`
}
