package model

import "time"

// Salon status values.
const (
	SalonActive   = "active"
	SalonInactive = "inactive"
	SalonPending  = "pending"
)

// ServiceOffering is one bookable service on a salon's menu.
type ServiceOffering struct {
	Name            string
	Price           float64
	DurationMinutes int
}

// Salon is a tenant location.
type Salon struct {
	ID        string
	Name      string
	City      string
	Address   string
	OwnerID   string
	OwnerName string
	Status    string
	Rating    float64
	Revenue   float64
	Services  []ServiceOffering
	CreatedAt time.Time
}

// ServiceOfferingWire is the backend representation of a service.
type ServiceOfferingWire struct {
	Name            *string  `json:"name"`
	Price           *float64 `json:"price"`
	DurationMinutes *int     `json:"duration_minutes"`
}

// SalonWire is the backend representation of a salon.
type SalonWire struct {
	ID        *string               `json:"id"`
	Name      *string               `json:"name"`
	City      *string               `json:"city"`
	Address   *string               `json:"address"`
	OwnerID   *string               `json:"owner_id"`
	OwnerName *string               `json:"owner_name"`
	Status    *string               `json:"status"`
	Rating    *float64              `json:"rating"`
	Revenue   *float64              `json:"revenue"`
	Services  []ServiceOfferingWire `json:"services"`
	CreatedAt *string               `json:"created_at"`
}

// Resolve applies defaults.
func (w SalonWire) Resolve() Salon {
	services := make([]ServiceOffering, 0, len(w.Services))
	for _, s := range w.Services {
		if str(s.Name) == "" {
			continue
		}
		services = append(services, ServiceOffering{
			Name:            str(s.Name),
			Price:           num(s.Price),
			DurationMinutes: integer(s.DurationMinutes),
		})
	}
	return Salon{
		ID:        str(w.ID),
		Name:      str(w.Name),
		City:      str(w.City),
		Address:   str(w.Address),
		OwnerID:   str(w.OwnerID),
		OwnerName: str(w.OwnerName),
		Status:    status(w.Status),
		Rating:    num(w.Rating),
		Revenue:   num(w.Revenue),
		Services:  services,
		CreatedAt: tm(w.CreatedAt),
	}
}
