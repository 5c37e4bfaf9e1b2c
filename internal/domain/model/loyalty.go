package model

import "time"

// LoyaltyEntry is one points movement.
type LoyaltyEntry struct {
	Date   time.Time
	Points int
	Reason string
}

// Loyalty is a customer's points balance and history.
type Loyalty struct {
	Points  int
	Tier    string
	History []LoyaltyEntry
}

// LoyaltyEntryWire is the backend representation of a points movement.
type LoyaltyEntryWire struct {
	Date   *string `json:"date"`
	Points *int    `json:"points"`
	Reason *string `json:"reason"`
}

// Resolve applies defaults.
func (w LoyaltyEntryWire) Resolve() LoyaltyEntry {
	return LoyaltyEntry{Date: tm(w.Date), Points: integer(w.Points), Reason: str(w.Reason)}
}

// LoyaltyWire is the backend representation of a loyalty summary.
type LoyaltyWire struct {
	Points  *int               `json:"points"`
	Tier    *string            `json:"tier"`
	History []LoyaltyEntryWire `json:"history"`
}

// Resolve applies defaults. A missing tier is derived from the balance.
func (w LoyaltyWire) Resolve() Loyalty {
	pts := integer(w.Points)
	return Loyalty{
		Points:  pts,
		Tier:    strOr(w.Tier, TierFor(pts)),
		History: ResolveAll[LoyaltyEntryWire, LoyaltyEntry](w.History),
	}
}

// Tier thresholds in points.
const (
	SilverPoints = 300
	GoldPoints   = 1000
)

// TierFor maps a points balance to a tier name.
func TierFor(points int) string {
	switch {
	case points >= GoldPoints:
		return "gold"
	case points >= SilverPoints:
		return "silver"
	default:
		return "bronze"
	}
}

// NextTier returns the tier above the balance and the points it starts at.
// ok is false at the top tier.
func NextTier(points int) (name string, at int, ok bool) {
	switch {
	case points >= GoldPoints:
		return "", 0, false
	case points >= SilverPoints:
		return "gold", GoldPoints, true
	default:
		return "silver", SilverPoints, true
	}
}
