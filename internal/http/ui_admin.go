package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/salonhub/salon-admin/internal/apiclient"
	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
	"github.com/salonhub/salon-admin/internal/domain/model"
	"github.com/salonhub/salon-admin/internal/fetch"
	"github.com/salonhub/salon-admin/internal/view"
)

// dashboardRecent is how many rows the dashboard tables show.
const dashboardRecent = 5

func paymentAmount(p model.Payment) float64 { return p.Amount }

func isPaid(p model.Payment) bool { return strings.EqualFold(p.Status, model.PaymentPaid) }

func paidOnly(payments []model.Payment) []model.Payment {
	out := make([]model.Payment, 0, len(payments))
	for _, p := range payments {
		if isPaid(p) {
			out = append(out, p)
		}
	}
	return out
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// AdminDashboard loads every collection at once and summarizes the platform.
func (h *UIHandlers) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	api := h.backend(r)
	customers := newPageFetcher(h, r, "customers", func(ctx context.Context, _ *http.Request) ([]model.Customer, error) {
		return api.ListCustomers(ctx)
	})
	salons := newPageFetcher(h, r, "salons", func(ctx context.Context, _ *http.Request) ([]model.Salon, error) {
		return api.ListSalons(ctx)
	})
	payments := newPageFetcher(h, r, "payments", func(ctx context.Context, _ *http.Request) ([]model.Payment, error) {
		return api.ListPayments(ctx)
	})
	owners := newPageFetcher(h, r, "owners", func(ctx context.Context, _ *http.Request) ([]model.Owner, error) {
		return api.ListOwners(ctx)
	})
	appointments := newPageFetcher(h, r, "appointments", func(ctx context.Context, _ *http.Request) ([]model.Appointment, error) {
		return api.ListAppointments(ctx, apiclient.AppointmentQuery{})
	})

	res := fetch.Group(r.Context(), customers, salons, payments, owners, appointments)
	if res.Redirected() {
		h.sessionRejected(w, r, res.RedirectTo)
		return
	}

	allSalons := salons.Snapshot().Items
	activeSalons := 0
	for _, s := range allSalons {
		if s.Status == model.SalonActive {
			activeSalons++
		}
	}

	var pending []model.Owner
	for _, o := range owners.Snapshot().Items {
		if o.ApprovalStatus == domainauth.ApprovalPending {
			pending = append(pending, o)
		}
	}

	allPayments := payments.Snapshot().Items
	paid := paidOnly(allPayments)
	recent := paymentSpec().Apply(allPayments, view.State{})
	appts := appointments.Snapshot().Items

	data := NewTemplateData(r, PageMeta{Title: "Dashboard", PageTitle: "Platform overview", CurrentPage: PageAdminDashboard}).
		With("Loaded", loadedSections(res)).
		With("CustomerCount", len(customers.Snapshot().Items)).
		With("SalonCount", len(allSalons)).
		With("ActiveSalons", activeSalons).
		With("PendingOwners", firstN(pending, dashboardRecent)).
		With("PendingCount", len(pending)).
		With("Revenue", view.Sum(paid, paymentAmount)).
		With("AveragePayment", view.Average(paid, paymentAmount)).
		With("AppointmentCount", len(appts)).
		With("AppointmentsByStatus", view.CountBy(appts, func(a model.Appointment) string { return string(a.Status) })).
		With("RecentPayments", firstN(recent.Items, dashboardRecent)).
		WithBanner(groupBanner(res))
	h.renderPage(w, r, data.Build())
}

// AdminSalons lists every salon on the platform.
func (h *UIHandlers) AdminSalons(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[model.Salon]{
		Handler:  h,
		W:        w,
		R:        r,
		Resource: "salons",
		Load: func(ctx context.Context, r *http.Request) ([]model.Salon, error) {
			return h.backend(r).ListSalons(ctx)
		},
		Spec:     salonSpec(),
		PageMeta: PageMeta{Title: "Salons", CurrentPage: PageAdminSalons},
		ItemsKey: "Salons",
		EnrichData: func(b *TemplateDataBuilder, res view.Result[model.Salon]) {
			b.With("AverageRating", view.Average(res.Filtered, func(s model.Salon) float64 { return s.Rating })).
				With("TotalRevenue", view.Sum(res.Filtered, func(s model.Salon) float64 { return s.Revenue })).
				With("ByStatus", view.CountBy(res.Filtered, func(s model.Salon) string { return s.Status }))
		},
	})
}

// AdminOwners lists owner applications and their approval state.
func (h *UIHandlers) AdminOwners(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[model.Owner]{
		Handler:  h,
		W:        w,
		R:        r,
		Resource: "owners",
		Load: func(ctx context.Context, r *http.Request) ([]model.Owner, error) {
			return h.backend(r).ListOwners(ctx)
		},
		Spec:     ownerSpec(),
		PageMeta: PageMeta{Title: "Owners", PageTitle: "Owner applications", CurrentPage: PageAdminOwners},
		ItemsKey: "Owners",
		EnrichData: func(b *TemplateDataBuilder, res view.Result[model.Owner]) {
			b.With("ByStatus", view.CountBy(res.Filtered, func(o model.Owner) string { return string(o.ApprovalStatus) }))
		},
	})
}

// OwnerDecision approves or rejects an owner application.
func (h *UIHandlers) OwnerDecision(approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		api := h.backend(r)
		var err error
		msg := "Owner approved"
		if approve {
			err = api.ApproveOwner(r.Context(), id)
		} else {
			err = api.RejectOwner(r.Context(), id)
			msg = "Owner rejected"
		}
		if err == nil {
			h.logger().InfoContext(r.Context(), "owner application decided", "owner_id", id, "approved", approve)
		}
		h.finishAction(w, r, err, msg, "/admin/owners", h.AdminOwners)
	}
}

func customerPage(h *UIHandlers, w http.ResponseWriter, r *http.Request, meta PageMeta) {
	HandleList(ListHandlerOpts[model.Customer]{
		Handler:  h,
		W:        w,
		R:        r,
		Resource: "customers",
		Load: func(ctx context.Context, r *http.Request) ([]model.Customer, error) {
			return h.backend(r).ListCustomers(ctx)
		},
		Spec:     customerSpec(),
		PageMeta: meta,
		ItemsKey: "Customers",
		EnrichData: func(b *TemplateDataBuilder, res view.Result[model.Customer]) {
			spent := func(c model.Customer) float64 { return c.TotalSpent }
			b.With("TotalSpent", view.Sum(res.Filtered, spent)).
				With("AverageSpent", view.Average(res.Filtered, spent)).
				With("AverageVisits", view.Average(res.Filtered, func(c model.Customer) float64 { return float64(c.Visits) })).
				With("ByTier", view.CountBy(res.Filtered, func(c model.Customer) string { return model.TierFor(c.LoyaltyPoints) }))
		},
	})
}

// AdminCustomers lists customers across all salons.
func (h *UIHandlers) AdminCustomers(w http.ResponseWriter, r *http.Request) {
	customerPage(h, w, r, PageMeta{Title: "Customers", CurrentPage: PageAdminCustomers})
}

// AdminPayments lists payments with totals over the filtered set.
func (h *UIHandlers) AdminPayments(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[model.Payment]{
		Handler:  h,
		W:        w,
		R:        r,
		Resource: "payments",
		Load: func(ctx context.Context, r *http.Request) ([]model.Payment, error) {
			return h.backend(r).ListPayments(ctx)
		},
		Spec:     paymentSpec(),
		PageMeta: PageMeta{Title: "Payments", CurrentPage: PageAdminPayments},
		ItemsKey: "Payments",
		EnrichData: func(b *TemplateDataBuilder, res view.Result[model.Payment]) {
			paid := paidOnly(res.Filtered)
			b.With("Revenue", view.Sum(paid, paymentAmount)).
				With("AverageAmount", view.Average(res.Filtered, paymentAmount)).
				With("PaidShare", view.Ratio(float64(len(paid))*100, float64(len(res.Filtered)))).
				With("ByStatus", view.CountBy(res.Filtered, func(p model.Payment) string { return p.Status })).
				With("ByMethod", view.CountBy(res.Filtered, func(p model.Payment) string { return p.Method }))
		},
	})
}

// AdminRevenue reports paid revenue per period across the platform.
func (h *UIHandlers) AdminRevenue(w http.ResponseWriter, r *http.Request) {
	h.revenueReport(w, r, PageMeta{Title: "Revenue", PageTitle: "Revenue report", CurrentPage: PageAdminRevenue}, false)
}
