package devapi

import (
	"strings"
	"sync"
)

// store holds every fixture collection behind one mutex.
type store struct {
	mu           sync.RWMutex
	users        map[string]*user
	salons       []*salon
	customers    []*customer
	appointments []*appointment
	payments     []*payment
	promotions   []*promotion
	loyalty      map[string][]loyaltyEntry
}

func newStore() *store {
	return &store{
		users:   make(map[string]*user),
		loyalty: make(map[string][]loyaltyEntry),
	}
}

func (s *store) userByEmail(email string) *user {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if strings.ToLower(u.Email) == email {
			return u
		}
	}
	return nil
}

func (s *store) salonByID(id string) *salon {
	for _, sl := range s.salons {
		if sl.ID == id {
			return sl
		}
	}
	return nil
}

func (s *store) customerByID(id string) *customer {
	for _, c := range s.customers {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *store) appointmentByID(id string) *appointment {
	for _, a := range s.appointments {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (s *store) promotionByID(id string) *promotion {
	for _, p := range s.promotions {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// filter copies the records keep accepts.
func filter[T any](items []*T, keep func(*T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, *it)
		}
	}
	return out
}
