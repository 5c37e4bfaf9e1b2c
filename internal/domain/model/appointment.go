package model

import (
	"strings"
	"time"
)

// AppointmentStatus is the lifecycle state of a booking.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// ParseAppointmentStatus normalizes a status string and reports whether it is known.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	st := AppointmentStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case AppointmentPending, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled:
		return st, true
	default:
		return "", false
	}
}

// CanTransition reports whether an owner may move a booking from s to next.
func (s AppointmentStatus) CanTransition(next AppointmentStatus) bool {
	switch s {
	case AppointmentPending:
		return next == AppointmentConfirmed || next == AppointmentCancelled
	case AppointmentConfirmed:
		return next == AppointmentCompleted || next == AppointmentCancelled
	default:
		return false
	}
}

// Appointment is a single booking.
type Appointment struct {
	ID              string
	CustomerID      string
	CustomerName    string
	SalonID         string
	SalonName       string
	Service         string
	StaffName       string
	StartsAt        time.Time
	DurationMinutes int
	Price           float64
	Status          AppointmentStatus
	Notes           string
}

// NextStatuses lists the transitions available from the current status.
func (a Appointment) NextStatuses() []AppointmentStatus {
	var out []AppointmentStatus
	for _, st := range []AppointmentStatus{AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled} {
		if a.Status.CanTransition(st) {
			out = append(out, st)
		}
	}
	return out
}

// AppointmentWire is the backend representation of an appointment.
type AppointmentWire struct {
	ID              *string  `json:"id"`
	CustomerID      *string  `json:"customer_id"`
	CustomerName    *string  `json:"customer_name"`
	SalonID         *string  `json:"salon_id"`
	SalonName       *string  `json:"salon_name"`
	Service         *string  `json:"service"`
	StaffName       *string  `json:"staff_name"`
	StartsAt        *string  `json:"starts_at"`
	DurationMinutes *int     `json:"duration_minutes"`
	Price           *float64 `json:"price"`
	Status          *string  `json:"status"`
	Notes           *string  `json:"notes"`
}

// Resolve applies defaults.
func (w AppointmentWire) Resolve() Appointment {
	st, ok := ParseAppointmentStatus(str(w.Status))
	if !ok {
		st = AppointmentStatus(StatusUnknown)
	}
	return Appointment{
		ID:              str(w.ID),
		CustomerID:      str(w.CustomerID),
		CustomerName:    str(w.CustomerName),
		SalonID:         str(w.SalonID),
		SalonName:       str(w.SalonName),
		Service:         str(w.Service),
		StaffName:       str(w.StaffName),
		StartsAt:        tm(w.StartsAt),
		DurationMinutes: integer(w.DurationMinutes),
		Price:           num(w.Price),
		Status:          st,
		Notes:           str(w.Notes),
	}
}

// NewAppointment is the booking request a customer submits.
type NewAppointment struct {
	SalonID  string `json:"salon_id"`
	Service  string `json:"service"`
	StartsAt string `json:"starts_at"`
	Notes    string `json:"notes,omitempty"`
}
