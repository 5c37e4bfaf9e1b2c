package devapi

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Account is a seeded login printed by the dev server on startup.
type Account struct {
	Email    string
	Password string
	Role     string
	Note     string
}

// SeedAccounts lists the fixture logins.
var SeedAccounts = []Account{
	{Email: "admin@salonhub.dev", Password: "admin-pass", Role: "admin"},
	{Email: "owner@salonhub.dev", Password: "owner-pass", Role: "owner", Note: "approved"},
	{Email: "pending@salonhub.dev", Password: "owner-pass", Role: "owner", Note: "pending approval"},
	{Email: "customer@salonhub.dev", Password: "customer-pass", Role: "customer"},
}

type user struct {
	ID             string
	Name           string
	Email          string
	Role           string
	ApprovalStatus string
	PasswordHash   []byte
	SalonID        string
	CreatedAt      time.Time
}

type service struct {
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
}

type salon struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Address   string    `json:"address"`
	OwnerID   string    `json:"owner_id"`
	OwnerName string    `json:"owner_name"`
	Status    string    `json:"status"`
	Rating    float64   `json:"rating"`
	Revenue   float64   `json:"revenue"`
	Services  []service `json:"services"`
	CreatedAt string    `json:"created_at"`
}

type customer struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone,omitempty"`
	SalonID       string  `json:"salon_id"`
	Visits        int     `json:"visits"`
	TotalSpent    float64 `json:"total_spent"`
	LoyaltyPoints int     `json:"loyalty_points"`
	LastVisit     string  `json:"last_visit,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

type appointment struct {
	ID              string  `json:"id"`
	CustomerID      string  `json:"customer_id"`
	CustomerName    string  `json:"customer_name"`
	SalonID         string  `json:"salon_id"`
	SalonName       string  `json:"salon_name"`
	Service         string  `json:"service"`
	StaffName       string  `json:"staff_name,omitempty"`
	StartsAt        string  `json:"starts_at"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	Status          string  `json:"status"`
	Notes           string  `json:"notes,omitempty"`

	startsAt time.Time
}

type payment struct {
	ID            string  `json:"id"`
	AppointmentID string  `json:"appointment_id"`
	CustomerName  string  `json:"customer_name"`
	SalonID       string  `json:"salon_id"`
	SalonName     string  `json:"salon_name"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	Status        string  `json:"status"`
	PaidAt        string  `json:"paid_at"`
}

type promotion struct {
	ID              string  `json:"id"`
	SalonID         string  `json:"salon_id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discount_percent"`
	StartsAt        string  `json:"starts_at,omitempty"`
	EndsAt          string  `json:"ends_at,omitempty"`
	Active          bool    `json:"active"`
}

type loyaltyEntry struct {
	Date   string `json:"date"`
	Points int    `json:"points"`
	Reason string `json:"reason"`
}

var (
	staff    = []string{"Ava", "Ben", "Chloe", "Dmitri", "Esme"}
	surnames = []string{"Nguyen", "Okafor", "Silva", "Kowalski", "Haddad", "Lindqvist", "Moreau", "Tanaka"}
	given    = []string{"Maya", "Leo", "Priya", "Jonas", "Amara", "Felix", "Hana", "Omar", "Sofia", "Theo"}
	menu     = []service{
		{Name: "Haircut", Price: 45, DurationMinutes: 45},
		{Name: "Colour", Price: 120, DurationMinutes: 120},
		{Name: "Blow dry", Price: 35, DurationMinutes: 30},
		{Name: "Beard trim", Price: 25, DurationMinutes: 20},
		{Name: "Manicure", Price: 40, DurationMinutes: 40},
	}
)

func hashPassword(pw string, cost int) []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		panic(fmt.Sprintf("devapi: hash seed password: %v", err)) //nolint:forbidigo // Fixture setup cannot continue.
	}
	return h
}

func ts(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// seed fills the store with deterministic fixtures relative to now.
func (s *store) seed(now time.Time, cost int) {
	rng := rand.New(rand.NewPCG(7, 11))
	day := now.UTC().Truncate(24 * time.Hour)

	addUser := func(a Account, name, approval string) *user {
		u := &user{
			ID:             uuid.NewString(),
			Name:           name,
			Email:          a.Email,
			Role:           a.Role,
			ApprovalStatus: approval,
			PasswordHash:   hashPassword(a.Password, cost),
			CreatedAt:      day.AddDate(0, -3, 0),
		}
		s.users[u.ID] = u
		return u
	}
	addUser(SeedAccounts[0], "Ada Admin", "")
	owner := addUser(SeedAccounts[1], "Olive Owner", "approved")
	pending := addUser(SeedAccounts[2], "Pat Pending", "pending")
	me := addUser(SeedAccounts[3], "Cara Customer", "")

	salons := []*salon{
		{Name: "Shear Joy", City: "Portland", Address: "12 Alder St", Status: "active", Rating: 4.7},
		{Name: "Fade Factory", City: "Seattle", Address: "400 Pine St", Status: "active", Rating: 4.3},
		{Name: "Curl Up & Dye", City: "Portland", Address: "88 Burnside", Status: "inactive", Rating: 3.9},
		{Name: "The Mane Event", City: "Boise", Address: "7 Main St", Status: "pending", Rating: 0},
	}
	for i, sl := range salons {
		sl.ID = uuid.NewString()
		sl.Services = menu[:3+i%3]
		sl.CreatedAt = ts(day.AddDate(0, -6+i, 0))
		s.salons = append(s.salons, sl)
	}
	salons[0].OwnerID, salons[0].OwnerName = owner.ID, owner.Name
	owner.SalonID = salons[0].ID
	salons[3].OwnerID, salons[3].OwnerName = pending.ID, pending.Name
	pending.SalonID = salons[3].ID
	for _, o := range []struct{ name, approval string }{
		{"Rex Rejected", "rejected"},
		{"Quinn Queued", "pending"},
	} {
		u := &user{
			ID:             uuid.NewString(),
			Name:           o.name,
			Email:          strings.ToLower(strings.Fields(o.name)[0]) + "@example.com",
			Role:           "owner",
			ApprovalStatus: o.approval,
			PasswordHash:   hashPassword("owner-pass", cost),
			CreatedAt:      day.AddDate(0, 0, -rng.IntN(30)),
		}
		s.users[u.ID] = u
	}
	salons[1].OwnerName = "Fiona Fade"

	// The signed-in fixture customer books at the first salon.
	s.customers = append(s.customers, &customer{
		ID: me.ID, Name: me.Name, Email: me.Email, SalonID: salons[0].ID, CreatedAt: ts(me.CreatedAt),
	})
	for i := range 28 {
		name := given[i%len(given)] + " " + surnames[(i*3)%len(surnames)]
		s.customers = append(s.customers, &customer{
			ID:        uuid.NewString(),
			Name:      name,
			Email:     strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
			Phone:     fmt.Sprintf("555-01%02d", i),
			SalonID:   salons[i%2].ID,
			CreatedAt: ts(day.AddDate(0, 0, -90+i)),
		})
	}

	for i := range 120 {
		c := s.customers[rng.IntN(len(s.customers))]
		sl := s.salonByID(c.SalonID)
		svc := sl.Services[rng.IntN(len(sl.Services))]
		at := day.AddDate(0, 0, rng.IntN(74)-60).Add(time.Duration(9+rng.IntN(9)) * time.Hour)
		status := "completed"
		switch {
		case at.After(now):
			status = []string{"pending", "confirmed"}[i%2]
		case i%9 == 0:
			status = "cancelled"
		}
		a := &appointment{
			ID:              uuid.NewString(),
			CustomerID:      c.ID,
			CustomerName:    c.Name,
			SalonID:         sl.ID,
			SalonName:       sl.Name,
			Service:         svc.Name,
			StaffName:       staff[rng.IntN(len(staff))],
			StartsAt:        ts(at),
			DurationMinutes: svc.DurationMinutes,
			Price:           svc.Price,
			Status:          status,
			startsAt:        at,
		}
		s.appointments = append(s.appointments, a)
		if status == "completed" {
			s.complete(a)
		}
	}

	for i, sl := range salons[:2] {
		s.promotions = append(s.promotions, &promotion{
			ID:              uuid.NewString(),
			SalonID:         sl.ID,
			Title:           "Spring refresh",
			Description:     "**20% off** colour services.\n\n- Book online\n- Mention the code at checkout",
			Code:            fmt.Sprintf("SPRING%d", 20+i),
			DiscountPercent: 20,
			StartsAt:        ts(day.AddDate(0, 0, -10)),
			EndsAt:          ts(day.AddDate(0, 0, 20)),
			Active:          true,
		}, &promotion{
			ID:              uuid.NewString(),
			SalonID:         sl.ID,
			Title:           "Winter warmers",
			Description:     "Free blow dry with any cut.",
			Code:            "WINTER",
			DiscountPercent: 10,
			StartsAt:        ts(day.AddDate(0, -4, 0)),
			EndsAt:          ts(day.AddDate(0, -2, 0)),
			Active:          false,
		})
	}
}

// complete records payment, revenue, visit and loyalty points for a finished booking.
func (s *store) complete(a *appointment) {
	method := []string{"card", "cash", "card", "gift card"}[len(s.payments)%4]
	status := "paid"
	if len(s.payments)%17 == 5 {
		status = "refunded"
	}
	s.payments = append(s.payments, &payment{
		ID:            uuid.NewString(),
		AppointmentID: a.ID,
		CustomerName:  a.CustomerName,
		SalonID:       a.SalonID,
		SalonName:     a.SalonName,
		Amount:        a.Price,
		Method:        method,
		Status:        status,
		PaidAt:        a.StartsAt,
	})
	if sl := s.salonByID(a.SalonID); sl != nil && status == "paid" {
		sl.Revenue += a.Price
	}
	if c := s.customerByID(a.CustomerID); c != nil {
		c.Visits++
		c.TotalSpent += a.Price
		points := int(a.Price)
		c.LoyaltyPoints += points
		if a.StartsAt > c.LastVisit {
			c.LastVisit = a.StartsAt
		}
		s.loyalty[c.ID] = append(s.loyalty[c.ID], loyaltyEntry{
			Date: a.StartsAt, Points: points, Reason: a.Service + " at " + a.SalonName,
		})
	}
}
