package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/salonhub/salon-admin/internal/apiclient"
	"github.com/salonhub/salon-admin/internal/domain/model"
	"github.com/salonhub/salon-admin/internal/fetch"
	"github.com/salonhub/salon-admin/internal/http/templates/core"
	"github.com/salonhub/salon-admin/internal/http/ui/viewmodel"
	"github.com/salonhub/salon-admin/internal/view"
)

const paramBy = "by"

// reportRow is one bucket with its bar width relative to the busiest bucket.
type reportRow struct {
	view.Bucket
	Share float64
}

// ServiceShare is booking volume and value for one service.
type ServiceShare struct {
	Service string
	Count   int
	Revenue float64
}

func granularityOptions(current view.Granularity) []viewmodel.FilterOption {
	out := make([]viewmodel.FilterOption, 0, 3)
	for _, g := range []view.Granularity{view.Day, view.Week, view.Month} {
		out = append(out, viewmodel.FilterOption{Value: string(g), Label: core.TitleCase(string(g)), Selected: g == current})
	}
	return out
}

func reportRows(buckets []view.Bucket) []reportRow {
	var peak float64
	for _, b := range buckets {
		peak = max(peak, b.Sum)
	}
	rows := make([]reportRow, len(buckets))
	for i, b := range buckets {
		rows[i] = reportRow{Bucket: b}
		if peak > 0 {
			rows[i].Share = b.Sum / peak * 100
		}
	}
	return rows
}

// serviceMix groups bookings that were not cancelled by service, busiest first.
func serviceMix(appts []model.Appointment) []ServiceShare {
	var kept []model.Appointment
	revenue := map[string]float64{}
	for _, a := range appts {
		if a.Status == model.AppointmentCancelled {
			continue
		}
		kept = append(kept, a)
		revenue[a.Service] += a.Price
	}
	counts := view.CountBy(kept, func(a model.Appointment) string { return a.Service })
	out := make([]ServiceShare, len(counts))
	for i, c := range counts {
		out[i] = ServiceShare{Service: c.Key, Count: c.Count, Revenue: revenue[c.Key]}
	}
	return out
}

// revenueReport buckets paid payments by day, week or month within the
// from/to range. Owners also see the service mix of their bookings.
func (h *UIHandlers) revenueReport(w http.ResponseWriter, r *http.Request, meta PageMeta, withServices bool) {
	api := h.backend(r)
	payments := newPageFetcher(h, r, "payments", func(ctx context.Context, _ *http.Request) ([]model.Payment, error) {
		return api.ListPayments(ctx)
	})
	tasks := []fetch.Task{payments}
	var appointments *fetch.Fetcher[model.Appointment]
	if withServices {
		appointments = newPageFetcher(h, r, "appointments", func(ctx context.Context, _ *http.Request) ([]model.Appointment, error) {
			return api.ListAppointments(ctx, apiclient.AppointmentQuery{})
		})
		tasks = append(tasks, appointments)
	}

	res := fetch.Group(r.Context(), tasks...)
	if res.Redirected() {
		h.sessionRejected(w, r, res.RedirectTo)
		return
	}

	spec := revenueSpec()
	st := view.ParseState(spec, r.URL.Query())
	g := view.ParseGranularity(r.URL.Query().Get(paramBy))
	paid := spec.Filter(paidOnly(payments.Snapshot().Items), st)
	buckets := view.BucketBy(paid, func(p model.Payment) time.Time { return p.PaidAt }, paymentAmount, g)

	data := NewTemplateData(r, meta).
		With("Loaded", loadedSections(res)).
		With("Rows", reportRows(buckets)).
		With("Granularity", g).
		With("Granularities", granularityOptions(g)).
		With("From", st.Filter(paramFrom)).
		With("To", st.Filter(paramTo)).
		With("Total", view.Sum(paid, paymentAmount)).
		With("Count", len(paid)).
		With("Average", view.Average(paid, paymentAmount)).
		With("ByMethod", view.CountBy(paid, func(p model.Payment) string { return p.Method })).
		WithBanner(groupBanner(res))

	if withServices {
		appts := appointments.Snapshot().Items
		within := view.Spec[model.Appointment]{
			Facets: []view.Facet[model.Appointment]{
				view.FromDate(paramFrom, "From", func(a model.Appointment) time.Time { return a.StartsAt }),
				view.ToDate(paramTo, "To", func(a model.Appointment) time.Time { return a.StartsAt }),
			},
		}.Filter(appts, st)
		data.With("Services", serviceMix(within)).
			With("ShowServices", true)
	}
	h.renderPage(w, r, data.Build())
}
