package model

import "time"

// Customer is a salon client as shown in customer lists.
type Customer struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	SalonID       string
	Visits        int
	TotalSpent    float64
	LoyaltyPoints int
	LastVisit     time.Time
	CreatedAt     time.Time
}

// CustomerWire is the backend representation of a customer.
type CustomerWire struct {
	ID            *string  `json:"id"`
	Name          *string  `json:"name"`
	Email         *string  `json:"email"`
	Phone         *string  `json:"phone"`
	SalonID       *string  `json:"salon_id"`
	Visits        *int     `json:"visits"`
	TotalSpent    *float64 `json:"total_spent"`
	LoyaltyPoints *int     `json:"loyalty_points"`
	LastVisit     *string  `json:"last_visit"`
	CreatedAt     *string  `json:"created_at"`
}

// Resolve applies defaults.
func (w CustomerWire) Resolve() Customer {
	return Customer{
		ID:            str(w.ID),
		Name:          strOr(w.Name, str(w.Email)),
		Email:         str(w.Email),
		Phone:         str(w.Phone),
		SalonID:       str(w.SalonID),
		Visits:        integer(w.Visits),
		TotalSpent:    num(w.TotalSpent),
		LoyaltyPoints: integer(w.LoyaltyPoints),
		LastVisit:     tm(w.LastVisit),
		CreatedAt:     tm(w.CreatedAt),
	}
}
