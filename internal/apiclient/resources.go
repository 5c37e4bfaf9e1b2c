package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
	"github.com/salonhub/salon-admin/internal/domain/model"
)

// Backend collections and the envelope each one is served in.
var (
	CustomersCollection      = Collection{Path: "/customers", Envelope: "data"}
	SalonsCollection         = Collection{Path: "/salons"}
	AppointmentsCollection   = Collection{Path: "/appointments", Envelope: "data.items"}
	MyAppointmentsCollection = Collection{Path: "/appointments/mine", Envelope: "data"}
	PaymentsCollection       = Collection{Path: "/payments", Envelope: "payments"}
	PromotionsCollection     = Collection{Path: "/promotions"}
	OwnersCollection         = Collection{Path: "/owners", Envelope: "data"}
)

const (
	loyaltyRecordPath     = "/loyalty/me"
	loyaltyRecordEnvelope = "data"
)

func list[W model.Resolver[T], T any](ctx context.Context, c *Client, col Collection) ([]T, error) {
	var wire []W
	if err := c.GetCollection(ctx, col, &wire); err != nil {
		return nil, err
	}
	return model.ResolveAll[W, T](wire), nil
}

// ListCustomers returns every customer visible to the caller.
func (c *Client) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return list[model.CustomerWire, model.Customer](ctx, c, CustomersCollection)
}

// ListSalons returns every salon visible to the caller.
func (c *Client) ListSalons(ctx context.Context) ([]model.Salon, error) {
	return list[model.SalonWire, model.Salon](ctx, c, SalonsCollection)
}

// AppointmentQuery narrows the appointment listing on the backend.
type AppointmentQuery struct {
	Date    string // YYYY-MM-DD
	SalonID string
}

func (q AppointmentQuery) collection() Collection {
	col := AppointmentsCollection
	v := url.Values{}
	if d := strings.TrimSpace(q.Date); d != "" {
		v.Set("date", d)
	}
	if s := strings.TrimSpace(q.SalonID); s != "" {
		v.Set("salon_id", s)
	}
	if len(v) > 0 {
		col.Path += "?" + v.Encode()
	}
	return col
}

// ListAppointments returns appointments matching q.
func (c *Client) ListAppointments(ctx context.Context, q AppointmentQuery) ([]model.Appointment, error) {
	return list[model.AppointmentWire, model.Appointment](ctx, c, q.collection())
}

// ListMyAppointments returns the signed-in customer's bookings.
func (c *Client) ListMyAppointments(ctx context.Context) ([]model.Appointment, error) {
	return list[model.AppointmentWire, model.Appointment](ctx, c, MyAppointmentsCollection)
}

// ListPayments returns every payment visible to the caller.
func (c *Client) ListPayments(ctx context.Context) ([]model.Payment, error) {
	return list[model.PaymentWire, model.Payment](ctx, c, PaymentsCollection)
}

// ListPromotions returns the caller's promotions.
func (c *Client) ListPromotions(ctx context.Context) ([]model.Promotion, error) {
	return list[model.PromotionWire, model.Promotion](ctx, c, PromotionsCollection)
}

// ListOwners returns owner accounts for admin review.
func (c *Client) ListOwners(ctx context.Context) ([]model.Owner, error) {
	return list[model.OwnerWire, model.Owner](ctx, c, OwnersCollection)
}

// GetLoyalty returns the signed-in customer's loyalty summary.
func (c *Client) GetLoyalty(ctx context.Context) (model.Loyalty, error) {
	var w model.LoyaltyWire
	if err := c.GetRecord(ctx, loyaltyRecordPath, loyaltyRecordEnvelope, &w); err != nil {
		return model.Loyalty{}, err
	}
	return w.Resolve(), nil
}

// UpdateAppointmentStatus moves a booking to a new status.
func (c *Client) UpdateAppointmentStatus(ctx context.Context, id string, status model.AppointmentStatus) error {
	return c.Patch(ctx, pathf("/appointments/%s/status", id), map[string]string{"status": string(status)}, nil)
}

// CreateAppointment books a new appointment for the signed-in customer.
func (c *Client) CreateAppointment(ctx context.Context, in model.NewAppointment) (model.Appointment, error) {
	var w model.AppointmentWire
	if err := c.Post(ctx, "/appointments", in, &w); err != nil {
		return model.Appointment{}, err
	}
	return w.Resolve(), nil
}

// ApproveOwner marks an owner account as approved.
func (c *Client) ApproveOwner(ctx context.Context, id string) error {
	return c.setOwnerApproval(ctx, id, domainauth.ApprovalApproved)
}

// RejectOwner marks an owner account as rejected.
func (c *Client) RejectOwner(ctx context.Context, id string) error {
	return c.setOwnerApproval(ctx, id, domainauth.ApprovalRejected)
}

func (c *Client) setOwnerApproval(ctx context.Context, id string, st domainauth.ApprovalStatus) error {
	return c.Patch(ctx, pathf("/owners/%s/approval", id), map[string]string{"status": string(st)}, nil)
}

// CreatePromotion creates a promotion for the owner's salon.
func (c *Client) CreatePromotion(ctx context.Context, in model.NewPromotion) (model.Promotion, error) {
	var w model.PromotionWire
	if err := c.Post(ctx, "/promotions", in, &w); err != nil {
		return model.Promotion{}, err
	}
	return w.Resolve(), nil
}

// SetPromotionActive enables or disables a promotion.
func (c *Client) SetPromotionActive(ctx context.Context, id string, active bool) error {
	return c.Patch(ctx, pathf("/promotions/%s", id), map[string]bool{"active": active}, nil)
}

// pathf substitutes escaped path segments into a path template.
func pathf(tmpl string, ids ...string) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = url.PathEscape(id)
	}
	return fmt.Sprintf(tmpl, args...)
}
