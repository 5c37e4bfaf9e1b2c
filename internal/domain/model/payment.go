package model

import "time"

// Payment status values.
const (
	PaymentPaid     = "paid"
	PaymentPending  = "pending"
	PaymentRefunded = "refunded"
	PaymentFailed   = "failed"
)

// Payment is a settled or attempted charge for an appointment.
type Payment struct {
	ID            string
	AppointmentID string
	CustomerName  string
	SalonID       string
	SalonName     string
	Amount        float64
	Method        string
	Status        string
	PaidAt        time.Time
}

// PaymentWire is the backend representation of a payment.
type PaymentWire struct {
	ID            *string  `json:"id"`
	AppointmentID *string  `json:"appointment_id"`
	CustomerName  *string  `json:"customer_name"`
	SalonID       *string  `json:"salon_id"`
	SalonName     *string  `json:"salon_name"`
	Amount        *float64 `json:"amount"`
	Method        *string  `json:"method"`
	Status        *string  `json:"status"`
	PaidAt        *string  `json:"paid_at"`
}

// Resolve applies defaults.
func (w PaymentWire) Resolve() Payment {
	return Payment{
		ID:            str(w.ID),
		AppointmentID: str(w.AppointmentID),
		CustomerName:  str(w.CustomerName),
		SalonID:       str(w.SalonID),
		SalonName:     str(w.SalonName),
		Amount:        num(w.Amount),
		Method:        strOr(w.Method, "card"),
		Status:        status(w.Status),
		PaidAt:        tm(w.PaidAt),
	}
}
