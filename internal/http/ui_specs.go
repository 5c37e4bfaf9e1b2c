package httpx

import (
	"strings"
	"time"

	"github.com/salonhub/salon-admin/internal/domain/model"
	"github.com/salonhub/salon-admin/internal/view"
)

// Facet and sort parameter names shared by the list pages.
const (
	paramStatus = "status"
	paramFrom   = "from"
	paramTo     = "to"
	paramDate   = "date"
)

func options(values ...string) []view.Option {
	out := make([]view.Option, 0, len(values))
	for _, v := range values {
		out = append(out, view.Option{Value: v, Label: strings.ToUpper(v[:1]) + v[1:]})
	}
	return out
}

func salonSpec() view.Spec[model.Salon] {
	return view.Spec[model.Salon]{
		SearchFields: []func(model.Salon) string{
			func(s model.Salon) string { return s.Name },
			func(s model.Salon) string { return s.City },
			func(s model.Salon) string { return s.OwnerName },
		},
		Facets: []view.Facet[model.Salon]{
			view.Equals(paramStatus, "Status", func(s model.Salon) string { return s.Status },
				options(model.SalonActive, model.SalonPending, model.SalonInactive)...),
			view.MinNumber("min_rating", "Min rating", func(s model.Salon) float64 { return s.Rating }),
			view.MinNumber("min_revenue", "Min revenue", func(s model.Salon) float64 { return s.Revenue }),
			view.MaxNumber("max_revenue", "Max revenue", func(s model.Salon) float64 { return s.Revenue }),
		},
		Sorts: []view.SortKey[model.Salon]{
			view.ByString("name", "Name", func(s model.Salon) string { return s.Name }),
			view.ByString("city", "City", func(s model.Salon) string { return s.City }),
			view.ByNumber("rating", "Rating", func(s model.Salon) float64 { return s.Rating }).Ranking(),
			view.ByNumber("revenue", "Revenue", func(s model.Salon) float64 { return s.Revenue }).Ranking(),
			view.ByTime("created", "Joined", func(s model.Salon) time.Time { return s.CreatedAt }).Ranking(),
		},
		DefaultSort: "name",
	}
}

func ownerSpec() view.Spec[model.Owner] {
	return view.Spec[model.Owner]{
		SearchFields: []func(model.Owner) string{
			func(o model.Owner) string { return o.Name },
			func(o model.Owner) string { return o.Email },
			func(o model.Owner) string { return o.SalonName },
		},
		Facets: []view.Facet[model.Owner]{
			view.Equals(paramStatus, "Approval", func(o model.Owner) string { return string(o.ApprovalStatus) },
				options("pending", "approved", "rejected")...),
		},
		Sorts: []view.SortKey[model.Owner]{
			view.ByTime("created", "Applied", func(o model.Owner) time.Time { return o.CreatedAt }).Ranking(),
			view.ByString("name", "Name", func(o model.Owner) string { return o.Name }),
			view.ByString("salon", "Salon", func(o model.Owner) string { return o.SalonName }),
		},
		DefaultSort: "created",
	}
}

func customerSpec() view.Spec[model.Customer] {
	return view.Spec[model.Customer]{
		SearchFields: []func(model.Customer) string{
			func(c model.Customer) string { return c.Name },
			func(c model.Customer) string { return c.Email },
			func(c model.Customer) string { return c.Phone },
		},
		Facets: []view.Facet[model.Customer]{
			view.Equals("tier", "Tier", func(c model.Customer) string { return model.TierFor(c.LoyaltyPoints) },
				options("bronze", "silver", "gold")...),
			view.MinNumber("min_visits", "Min visits", func(c model.Customer) float64 { return float64(c.Visits) }),
			view.MinNumber("min_spent", "Min spent", func(c model.Customer) float64 { return c.TotalSpent }),
			view.MaxNumber("max_spent", "Max spent", func(c model.Customer) float64 { return c.TotalSpent }),
			view.FromDate(paramFrom, "Last visit from", func(c model.Customer) time.Time { return c.LastVisit }),
			view.ToDate(paramTo, "Last visit to", func(c model.Customer) time.Time { return c.LastVisit }),
		},
		Sorts: []view.SortKey[model.Customer]{
			view.ByString("name", "Name", func(c model.Customer) string { return c.Name }),
			view.ByNumber("visits", "Visits", func(c model.Customer) float64 { return float64(c.Visits) }).Ranking(),
			view.ByNumber("spent", "Total spent", func(c model.Customer) float64 { return c.TotalSpent }).Ranking(),
			view.ByTime("last_visit", "Last visit", func(c model.Customer) time.Time { return c.LastVisit }).Ranking(),
		},
		DefaultSort: "last_visit",
	}
}

func paymentSpec() view.Spec[model.Payment] {
	return view.Spec[model.Payment]{
		SearchFields: []func(model.Payment) string{
			func(p model.Payment) string { return p.CustomerName },
			func(p model.Payment) string { return p.SalonName },
			func(p model.Payment) string { return p.Method },
		},
		Facets: []view.Facet[model.Payment]{
			view.Equals(paramStatus, "Status", func(p model.Payment) string { return p.Status },
				options(model.PaymentPaid, model.PaymentPending, model.PaymentRefunded, model.PaymentFailed)...),
			view.Equals("method", "Method", func(p model.Payment) string { return p.Method },
				options("card", "cash", "wallet")...),
			view.MinNumber("min_amount", "Min amount", func(p model.Payment) float64 { return p.Amount }),
			view.MaxNumber("max_amount", "Max amount", func(p model.Payment) float64 { return p.Amount }),
			view.FromDate(paramFrom, "From", func(p model.Payment) time.Time { return p.PaidAt }),
			view.ToDate(paramTo, "To", func(p model.Payment) time.Time { return p.PaidAt }),
		},
		Sorts: []view.SortKey[model.Payment]{
			view.ByTime("paid_at", "Date", func(p model.Payment) time.Time { return p.PaidAt }).Ranking(),
			view.ByNumber("amount", "Amount", func(p model.Payment) float64 { return p.Amount }).Ranking(),
			view.ByString("customer", "Customer", func(p model.Payment) string { return p.CustomerName }),
			view.ByString("salon", "Salon", func(p model.Payment) string { return p.SalonName }),
		},
		DefaultSort: "paid_at",
	}
}

// revenueSpec narrows paid payments to a date range; the report itself is bucketed.
func revenueSpec() view.Spec[model.Payment] {
	return view.Spec[model.Payment]{
		Facets: []view.Facet[model.Payment]{
			view.FromDate(paramFrom, "From", func(p model.Payment) time.Time { return p.PaidAt }),
			view.ToDate(paramTo, "To", func(p model.Payment) time.Time { return p.PaidAt }),
		},
		Sorts: []view.SortKey[model.Payment]{
			view.ByTime("paid_at", "Date", func(p model.Payment) time.Time { return p.PaidAt }),
		},
		DefaultSort: "paid_at",
	}
}

func appointmentSpec() view.Spec[model.Appointment] {
	return view.Spec[model.Appointment]{
		SearchFields: []func(model.Appointment) string{
			func(a model.Appointment) string { return a.CustomerName },
			func(a model.Appointment) string { return a.Service },
			func(a model.Appointment) string { return a.StaffName },
		},
		Facets: []view.Facet[model.Appointment]{
			view.OnDate(paramDate, "Date", func(a model.Appointment) time.Time { return a.StartsAt }),
			view.Equals(paramStatus, "Status", func(a model.Appointment) string { return string(a.Status) },
				options(string(model.AppointmentPending), string(model.AppointmentConfirmed),
					string(model.AppointmentCompleted), string(model.AppointmentCancelled))...),
		},
		Sorts: []view.SortKey[model.Appointment]{
			view.ByTime("starts_at", "Time", func(a model.Appointment) time.Time { return a.StartsAt }),
			view.ByString("customer", "Customer", func(a model.Appointment) string { return a.CustomerName }),
			view.ByString("service", "Service", func(a model.Appointment) string { return a.Service }),
			view.ByNumber("price", "Price", func(a model.Appointment) float64 { return a.Price }).Ranking(),
		},
		DefaultSort: "starts_at",
	}
}

// myAppointmentSpec splits a customer's bookings into upcoming and past.
func myAppointmentSpec(now time.Time) view.Spec[model.Appointment] {
	when := view.Custom("when", "Show", func(a model.Appointment, v string) bool {
		switch v {
		case "upcoming":
			return !a.StartsAt.Before(now)
		case "past":
			return a.StartsAt.Before(now)
		default:
			return true
		}
	})
	when.Kind = view.KindSelect
	when.Options = options("upcoming", "past")

	return view.Spec[model.Appointment]{
		SearchFields: []func(model.Appointment) string{
			func(a model.Appointment) string { return a.SalonName },
			func(a model.Appointment) string { return a.Service },
		},
		Facets: []view.Facet[model.Appointment]{
			when,
			view.Equals(paramStatus, "Status", func(a model.Appointment) string { return string(a.Status) },
				options(string(model.AppointmentPending), string(model.AppointmentConfirmed),
					string(model.AppointmentCompleted), string(model.AppointmentCancelled))...),
		},
		Sorts: []view.SortKey[model.Appointment]{
			view.ByTime("starts_at", "Date", func(a model.Appointment) time.Time { return a.StartsAt }).Ranking(),
			view.ByString("salon", "Salon", func(a model.Appointment) string { return a.SalonName }),
			view.ByNumber("price", "Price", func(a model.Appointment) float64 { return a.Price }).Ranking(),
		},
		DefaultSort: "starts_at",
	}
}

// promotionState classifies a promotion for the status facet and badges.
func promotionState(p model.Promotion, now time.Time) string {
	switch {
	case !p.Active:
		return "inactive"
	case p.Live(now):
		return "live"
	case !p.StartsAt.IsZero() && now.Before(p.StartsAt):
		return "scheduled"
	default:
		return "expired"
	}
}

func promotionSpec(now time.Time) view.Spec[model.Promotion] {
	state := view.Custom(paramStatus, "Status", func(p model.Promotion, v string) bool {
		return promotionState(p, now) == strings.ToLower(v)
	})
	state.Kind = view.KindSelect
	state.Options = options("live", "scheduled", "expired", "inactive")

	return view.Spec[model.Promotion]{
		SearchFields: []func(model.Promotion) string{
			func(p model.Promotion) string { return p.Title },
			func(p model.Promotion) string { return p.Code },
			func(p model.Promotion) string { return p.Description },
		},
		Facets: []view.Facet[model.Promotion]{state},
		Sorts: []view.SortKey[model.Promotion]{
			view.ByTime("starts_at", "Starts", func(p model.Promotion) time.Time { return p.StartsAt }).Ranking(),
			view.ByString("title", "Title", func(p model.Promotion) string { return p.Title }),
			view.ByNumber("discount", "Discount", func(p model.Promotion) float64 { return p.DiscountPercent }).Ranking(),
		},
		DefaultSort: "starts_at",
	}
}

func loyaltySpec() view.Spec[model.LoyaltyEntry] {
	return view.Spec[model.LoyaltyEntry]{
		Sorts: []view.SortKey[model.LoyaltyEntry]{
			view.ByTime("date", "Date", func(e model.LoyaltyEntry) time.Time { return e.Date }).Ranking(),
			view.ByNumber("points", "Points", func(e model.LoyaltyEntry) float64 { return float64(e.Points) }).Ranking(),
		},
		DefaultSort: "date",
	}
}
