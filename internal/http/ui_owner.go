package httpx

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/salonhub/salon-admin/internal/apiclient"
	"github.com/salonhub/salon-admin/internal/domain/model"
	apperrors "github.com/salonhub/salon-admin/internal/errors"
	"github.com/salonhub/salon-admin/internal/fetch"
	"github.com/salonhub/salon-admin/internal/http/validation"
	"github.com/salonhub/salon-admin/internal/view"
)

// OwnerDashboard summarizes today's bookings and this month's takings.
func (h *UIHandlers) OwnerDashboard(w http.ResponseWriter, r *http.Request) {
	api := h.backend(r)
	now := h.now().UTC()
	today := now.Format(time.DateOnly)

	appointments := newPageFetcher(h, r, "appointments", func(ctx context.Context, _ *http.Request) ([]model.Appointment, error) {
		return api.ListAppointments(ctx, apiclient.AppointmentQuery{Date: today})
	})
	customers := newPageFetcher(h, r, "customers", func(ctx context.Context, _ *http.Request) ([]model.Customer, error) {
		return api.ListCustomers(ctx)
	})
	promotions := newPageFetcher(h, r, "promotions", func(ctx context.Context, _ *http.Request) ([]model.Promotion, error) {
		return api.ListPromotions(ctx)
	})
	payments := newPageFetcher(h, r, "payments", func(ctx context.Context, _ *http.Request) ([]model.Payment, error) {
		return api.ListPayments(ctx)
	})

	res := fetch.Group(r.Context(), appointments, customers, promotions, payments)
	if res.Redirected() {
		h.sessionRejected(w, r, res.RedirectTo)
		return
	}

	schedule := appointmentSpec().Apply(appointments.Snapshot().Items, view.State{})
	var live []model.Promotion
	for _, p := range promotions.Snapshot().Items {
		if p.Live(now) {
			live = append(live, p)
		}
	}
	monthStart := view.Month.BucketStart(now)
	var monthPaid []model.Payment
	for _, p := range paidOnly(payments.Snapshot().Items) {
		if !p.PaidAt.Before(monthStart) {
			monthPaid = append(monthPaid, p)
		}
	}
	regulars := customerSpec().Apply(customers.Snapshot().Items, view.State{Sort: "visits"})

	data := NewTemplateData(r, PageMeta{Title: "Dashboard", PageTitle: "Today at your salon", CurrentPage: PageOwnerDashboard}).
		With("Loaded", loadedSections(res)).
		With("Today", now).
		With("Schedule", schedule.Filtered).
		With("ByStatus", view.CountBy(schedule.Filtered, func(a model.Appointment) string { return string(a.Status) })).
		With("CustomerCount", len(customers.Snapshot().Items)).
		With("TopCustomers", firstN(regulars.Filtered, dashboardRecent)).
		With("LivePromotions", live).
		With("MonthRevenue", view.Sum(monthPaid, paymentAmount)).
		With("MonthPayments", len(monthPaid)).
		WithBanner(groupBanner(res))
	h.renderPage(w, r, data.Build())
}

// OwnerAppointments lists the salon's bookings. A date narrows the backend
// query as well as the local facet.
func (h *UIHandlers) OwnerAppointments(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[model.Appointment]{
		Handler:  h,
		W:        w,
		R:        r,
		Resource: "appointments",
		Load: func(ctx context.Context, r *http.Request) ([]model.Appointment, error) {
			var q apiclient.AppointmentQuery
			if d, ok := view.ParseDay(r.URL.Query().Get(paramDate)); ok {
				q.Date = d.Format(time.DateOnly)
			}
			return h.backend(r).ListAppointments(ctx, q)
		},
		Spec:     appointmentSpec(),
		PageMeta: PageMeta{Title: "Appointments", CurrentPage: PageOwnerAppointments},
		ItemsKey: "Appointments",
		EnrichData: func(b *TemplateDataBuilder, res view.Result[model.Appointment]) {
			price := func(a model.Appointment) float64 { return a.Price }
			b.With("Booked", view.Sum(res.Filtered, price)).
				With("AveragePrice", view.Average(res.Filtered, price)).
				With("ByStatus", view.CountBy(res.Filtered, func(a model.Appointment) string { return string(a.Status) }))
		},
	})
}

// UpdateAppointmentStatus moves a booking along its lifecycle.
func (h *UIHandlers) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	next, ok := model.ParseAppointmentStatus(r.PostFormValue("status"))
	var err error
	if !ok {
		err = apperrors.ValidationField("status", "Choose a valid status")
	} else {
		err = h.backend(r).UpdateAppointmentStatus(r.Context(), id, next)
	}
	if err == nil {
		h.logger().InfoContext(r.Context(), "appointment status changed", "appointment_id", id, "status", next)
	}
	h.finishAction(w, r, err, "Appointment marked "+string(next), "/owner/appointments", h.OwnerAppointments)
}

// OwnerCustomers lists the salon's customers.
func (h *UIHandlers) OwnerCustomers(w http.ResponseWriter, r *http.Request) {
	customerPage(h, w, r, PageMeta{Title: "Customers", CurrentPage: PageOwnerCustomers})
}

// promotionForm holds the raw create-promotion inputs for re-rendering.
type promotionForm map[string]string

func readPromotionForm(r *http.Request) promotionForm {
	f := promotionForm{}
	for _, k := range []string{"title", "description", "code", "discount_percent", "starts_at", "ends_at"} {
		f[k] = strings.TrimSpace(r.PostFormValue(k))
	}
	return f
}

var promoCode = regexp.MustCompile(`^[A-Za-z0-9-]{2,20}$`)

// request validates the form and converts dates to RFC 3339. The window is
// inclusive of the whole end day.
func (f promotionForm) request() (model.NewPromotion, map[string]string) {
	fv := validation.New().
		Validate("title", f["title"], validation.Required("Title", 80)).
		Validate("description", f["description"], validation.Optional("Description", 2000)).
		Validate("code", f["code"], validation.Pattern("Code", promoCode)).
		Validate("discount_percent", f["discount_percent"], validation.NumberRange("Discount", 1, 100)).
		Validate("starts_at", f["starts_at"], validation.Date("Start date")).
		Validate("ends_at", f["ends_at"], validation.Date("End date"))

	in := model.NewPromotion{
		Title:       f["title"],
		Description: f["description"],
		Code:        f["code"],
	}
	in.DiscountPercent, _ = strconv.ParseFloat(f["discount_percent"], 64)
	start, hasStart := view.ParseDay(f["starts_at"])
	end, hasEnd := view.ParseDay(f["ends_at"])
	if hasStart {
		in.StartsAt = start.Format(time.RFC3339)
	}
	if hasEnd {
		in.EndsAt = end.Add(24*time.Hour - time.Second).Format(time.RFC3339)
	}
	fv.Check(!hasStart || !hasEnd || !end.Before(start), "ends_at", "End date must be on or after the start date.")
	return in, fv.Errors()
}

func (h *UIHandlers) promotionsPage(w http.ResponseWriter, r *http.Request, form promotionForm, errs map[string]string, msg string, status int) {
	now := h.now()
	HandleList(ListHandlerOpts[model.Promotion]{
		Handler:  h,
		W:        w,
		R:        r,
		Resource: "promotions",
		Load: func(ctx context.Context, r *http.Request) ([]model.Promotion, error) {
			return h.backend(r).ListPromotions(ctx)
		},
		Spec:     promotionSpec(now),
		PageMeta: PageMeta{Title: "Promotions", CurrentPage: PageOwnerPromotions},
		ItemsKey: "Promotions",
		Status:   status,
		EnrichData: func(b *TemplateDataBuilder, res view.Result[model.Promotion]) {
			states := make(map[string]string, len(res.Items))
			for _, p := range res.Items {
				states[p.ID] = promotionState(p, now)
			}
			b.With("States", states).
				With("ByState", view.CountBy(res.Filtered, func(p model.Promotion) string { return promotionState(p, now) })).
				With("Form", form).
				WithFieldErrors(errs)
			if msg != "" {
				b.WithError(msg)
			}
		},
	})
}

// OwnerPromotions lists promotions with the create form.
func (h *UIHandlers) OwnerPromotions(w http.ResponseWriter, r *http.Request) {
	h.promotionsPage(w, r, promotionForm{}, nil, "", http.StatusOK)
}

// CreatePromotion validates the form locally, then with the backend. Errors
// re-render the form inline on the page the user submitted from.
func (h *UIHandlers) CreatePromotion(w http.ResponseWriter, r *http.Request) {
	form := readPromotionForm(r)
	in, errs := form.request()
	if len(errs) > 0 {
		h.promotionsPage(w, getClone(r, returnPath(r, "/owner/promotions")), form, errs, errMsgFixBelow, formStatus(r))
		return
	}

	created, err := h.backend(r).CreatePromotion(r.Context(), in)
	if err != nil && !apiclient.IsAuthFailure(err) {
		fieldErrs, msg := formErrors(err)
		h.promotionsPage(w, getClone(r, returnPath(r, "/owner/promotions")), form, fieldErrs, msg, formStatus(r))
		return
	}
	if err == nil {
		h.logger().InfoContext(r.Context(), "promotion created", "promotion_id", created.ID, "code", created.Code)
	}
	h.finishAction(w, r, err, "Promotion created", "/owner/promotions", h.OwnerPromotions)
}

// TogglePromotion switches a promotion on or off.
func (h *UIHandlers) TogglePromotion(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	active := r.PostFormValue("active") == "true"
	err := h.backend(r).SetPromotionActive(r.Context(), id, active)
	msg := "Promotion paused"
	if active {
		msg = "Promotion activated"
	}
	h.finishAction(w, r, err, msg, "/owner/promotions", h.OwnerPromotions)
}

// OwnerReports shows the salon's revenue series and service mix.
func (h *UIHandlers) OwnerReports(w http.ResponseWriter, r *http.Request) {
	h.revenueReport(w, r, PageMeta{Title: "Reports", PageTitle: "Salon reports", CurrentPage: PageOwnerReports}, true)
}
