package httpx

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/salonhub/salon-admin/internal/apiclient"
	"github.com/salonhub/salon-admin/internal/domain/model"
	"github.com/salonhub/salon-admin/internal/fetch"
	"github.com/salonhub/salon-admin/internal/http/validation"
	"github.com/salonhub/salon-admin/internal/view"
)

// MyAppointments lists the signed-in customer's bookings.
func (h *UIHandlers) MyAppointments(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[model.Appointment]{
		Handler:  h,
		W:        w,
		R:        r,
		Resource: "my-appointments",
		Load: func(ctx context.Context, r *http.Request) ([]model.Appointment, error) {
			return h.backend(r).ListMyAppointments(ctx)
		},
		Spec:     myAppointmentSpec(h.now()),
		PageMeta: PageMeta{Title: "My appointments", CurrentPage: PageMyAppointments},
		ItemsKey: "Appointments",
		EnrichData: func(b *TemplateDataBuilder, res view.Result[model.Appointment]) {
			var spent []model.Appointment
			for _, a := range res.Filtered {
				if a.Status == model.AppointmentCompleted {
					spent = append(spent, a)
				}
			}
			b.With("Spent", view.Sum(spent, func(a model.Appointment) float64 { return a.Price }))
		},
	})
}

// bookingForm holds the raw booking inputs for re-rendering.
type bookingForm map[string]string

func readBookingForm(r *http.Request) bookingForm {
	f := bookingForm{}
	for _, k := range []string{"salon_id", "service", "date", "time", "notes"} {
		f[k] = strings.TrimSpace(r.PostFormValue(k))
	}
	return f
}

// request validates the booking. Date and time are read in loc and sent as
// RFC 3339; the slot must be in the future.
func (f bookingForm) request(now time.Time, loc *time.Location) (model.NewAppointment, map[string]string) {
	fv := validation.New().
		Validate("salon_id", f["salon_id"], validation.Required("Salon", 64)).
		Validate("service", f["service"], validation.Required("Service", 120)).
		Validate("starts_at", f["date"], validation.Required("Date", 10), validation.Date("Date")).
		Validate("starts_at", f["time"], validation.Required("Time", 5), validation.Clock("Time")).
		Validate("notes", f["notes"], validation.Optional("Notes", 500))

	in := model.NewAppointment{SalonID: f["salon_id"], Service: f["service"], Notes: f["notes"]}
	if !fv.Has("starts_at") {
		at, err := time.ParseInLocation("2006-01-02 15:04", f["date"]+" "+f["time"], loc)
		fv.Check(err == nil && at.After(now), "starts_at", "Pick a time in the future.")
		in.StartsAt = at.Format(time.RFC3339)
	}
	return in, fv.Errors()
}

// bookPage renders the booking form with active salons. The selected salon's
// menu and live promotions appear once a salon is chosen.
func (h *UIHandlers) bookPage(w http.ResponseWriter, r *http.Request, form bookingForm, errs map[string]string, msg string, status int) {
	api := h.backend(r)
	salons := newPageFetcher(h, r, "salons", func(ctx context.Context, _ *http.Request) ([]model.Salon, error) {
		return api.ListSalons(ctx)
	})
	promotions := newPageFetcher(h, r, "promotions", func(ctx context.Context, _ *http.Request) ([]model.Promotion, error) {
		return api.ListPromotions(ctx)
	})
	res := fetch.Group(r.Context(), salons, promotions)
	if res.Redirected() {
		h.sessionRejected(w, r, res.RedirectTo)
		return
	}

	if form["salon_id"] == "" {
		form["salon_id"] = r.URL.Query().Get("salon_id")
	}
	now := h.now()
	var active []model.Salon
	var selected *model.Salon
	for _, s := range salonSpec().Apply(salons.Snapshot().Items, view.State{}).Filtered {
		if s.Status != model.SalonActive {
			continue
		}
		active = append(active, s)
		if s.ID == form["salon_id"] {
			selected = &s
		}
	}
	var offers []model.Promotion
	if selected != nil {
		for _, p := range promotions.Snapshot().Items {
			if p.SalonID == selected.ID && p.Live(now) {
				offers = append(offers, p)
			}
		}
	}

	data := NewTemplateData(r, PageMeta{Title: "Book", PageTitle: "Book an appointment", CurrentPage: PageBook}).
		With("Salons", active).
		With("Selected", selected).
		With("Offers", offers).
		With("Form", form).
		With("MinDate", now.Format(time.DateOnly)).
		WithFieldErrors(errs).
		WithBanner(groupBanner(res))
	if msg != "" {
		data.WithError(msg)
	}
	h.renderStatus(w, r, status, data.Build())
}

// BookPage renders the booking form. GET /account/book.
func (h *UIHandlers) BookPage(w http.ResponseWriter, r *http.Request) {
	h.bookPage(w, r, bookingForm{}, nil, "", http.StatusOK)
}

// BookSubmit creates the appointment and returns to the upcoming list.
func (h *UIHandlers) BookSubmit(w http.ResponseWriter, r *http.Request) {
	form := readBookingForm(r)
	in, errs := form.request(h.now(), time.Local)
	if len(errs) > 0 {
		h.bookPage(w, getClone(r, "/account/book"), form, errs, errMsgFixBelow, formStatus(r))
		return
	}

	created, err := h.backend(r).CreateAppointment(r.Context(), in)
	if err != nil {
		if apiclient.IsAuthFailure(err) {
			h.rejectSession(w, r)
			return
		}
		fieldErrs, msg := formErrors(err)
		h.bookPage(w, getClone(r, "/account/book"), form, fieldErrs, msg, formStatus(r))
		return
	}
	h.logger().InfoContext(r.Context(), "appointment booked", "appointment_id", created.ID, "salon_id", created.SalonID)
	Navigate(w, r, "/account/appointments?when=upcoming")
}

// tierProgress is how far a balance is toward the next tier.
type tierProgress struct {
	Next      string
	Remaining int
	Percent   float64
}

func progressFor(points int) *tierProgress {
	next, at, ok := model.NextTier(points)
	if !ok {
		return nil
	}
	floor := 0
	if next == "gold" {
		floor = model.SilverPoints
	}
	return &tierProgress{
		Next:      next,
		Remaining: at - points,
		Percent:   float64(points-floor) / float64(at-floor) * 100,
	}
}

// Loyalty shows the points balance, tier and paginated history.
func (h *UIHandlers) Loyalty(w http.ResponseWriter, r *http.Request) {
	f := newPageFetcher(h, r, "loyalty", func(ctx context.Context, r *http.Request) ([]model.Loyalty, error) {
		l, err := h.backend(r).GetLoyalty(ctx)
		if err != nil {
			return nil, err
		}
		return []model.Loyalty{l}, nil
	})
	snap := runFetch(r, f)
	if snap.Status == fetch.Redirect {
		h.sessionRejected(w, r, snap.RedirectTo)
		return
	}

	var account model.Loyalty
	if len(snap.Items) > 0 {
		account = snap.Items[0]
	}
	spec := loyaltySpec()
	res := spec.Apply(account.History, view.ParseState(spec, r.URL.Query()))

	data := NewTemplateData(r, PageMeta{Title: "Loyalty", PageTitle: "Loyalty rewards", CurrentPage: PageLoyalty}).
		With("Loaded", snap.Status == fetch.Success).
		With("Account", account).
		With("Progress", progressFor(account.Points)).
		With("History", res.Items).
		With("Result", res).
		With("Sorts", BuildSortLinks(r.URL.Path, spec, res.State)).
		WithPagination(res.Page, res.State).
		WithBanner(snap.Message)
	h.renderPage(w, r, data.Build())
}
