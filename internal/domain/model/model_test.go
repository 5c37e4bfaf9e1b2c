package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
)

func TestCustomerWire_ResolveDefaults(t *testing.T) {
	var w CustomerWire
	require.NoError(t, json.Unmarshal([]byte(`{"id":"c1","email":"ana@example.com"}`), &w))

	c := w.Resolve()
	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, "ana@example.com", c.Name, "name falls back to email")
	assert.Zero(t, c.Visits)
	assert.Zero(t, c.TotalSpent)
	assert.True(t, c.LastVisit.IsZero())
}

func TestAppointmentWire_UnknownStatus(t *testing.T) {
	var w AppointmentWire
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a1","status":"weird","starts_at":"2024-03-01T10:00:00Z"}`), &w))

	a := w.Resolve()
	assert.Equal(t, AppointmentStatus(StatusUnknown), a.Status)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), a.StartsAt)
	assert.Empty(t, a.NextStatuses())
}

func TestAppointmentStatus_Transitions(t *testing.T) {
	assert.True(t, AppointmentPending.CanTransition(AppointmentConfirmed))
	assert.True(t, AppointmentPending.CanTransition(AppointmentCancelled))
	assert.False(t, AppointmentPending.CanTransition(AppointmentCompleted))
	assert.True(t, AppointmentConfirmed.CanTransition(AppointmentCompleted))
	assert.False(t, AppointmentCompleted.CanTransition(AppointmentCancelled))
	assert.False(t, AppointmentCancelled.CanTransition(AppointmentConfirmed))

	a := Appointment{Status: AppointmentConfirmed}
	assert.Equal(t, []AppointmentStatus{AppointmentCompleted, AppointmentCancelled}, a.NextStatuses())
}

func TestParseTime(t *testing.T) {
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), ParseTime("2024-05-02"))
	assert.Equal(t, time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC), ParseTime("2024-05-02 09:30:00"))
	assert.True(t, ParseTime("yesterday").IsZero())
	assert.True(t, ParseTime("").IsZero())
}

func TestOwnerWire_MissingApprovalIsPending(t *testing.T) {
	o := OwnerWire{}.Resolve()
	assert.Equal(t, domainauth.ApprovalPending, o.ApprovalStatus)

	approved := "approved"
	o = OwnerWire{ApprovalStatus: &approved}.Resolve()
	assert.Equal(t, domainauth.ApprovalApproved, o.ApprovalStatus)
}

func TestPaymentWire_Defaults(t *testing.T) {
	p := PaymentWire{}.Resolve()
	assert.Equal(t, StatusUnknown, p.Status)
	assert.Equal(t, "card", p.Method)
}

func TestSalonWire_SkipsUnnamedServices(t *testing.T) {
	var w SalonWire
	require.NoError(t, json.Unmarshal([]byte(`{"id":"s1","status":"ACTIVE","services":[{"name":"Cut","price":30},{"price":5}]}`), &w))
	s := w.Resolve()
	assert.Equal(t, SalonActive, s.Status)
	require.Len(t, s.Services, 1)
	assert.Equal(t, "Cut", s.Services[0].Name)
}

func TestPromotion_Live(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	p := Promotion{Active: true, StartsAt: now.AddDate(0, 0, -1), EndsAt: now.AddDate(0, 0, 1)}
	assert.True(t, p.Live(now))
	assert.False(t, p.Live(now.AddDate(0, 0, 2)))
	p.Active = false
	assert.False(t, p.Live(now))
}

func TestLoyaltyWire_DerivesTier(t *testing.T) {
	pts := 450
	l := LoyaltyWire{Points: &pts}.Resolve()
	assert.Equal(t, "silver", l.Tier)
	assert.Empty(t, l.History)
}

func TestResolveAll(t *testing.T) {
	id1, id2 := "p1", "p2"
	out := ResolveAll[PromotionWire, Promotion]([]PromotionWire{{ID: &id1}, {ID: &id2}})
	require.Len(t, out, 2)
	assert.Equal(t, "p2", out[1].ID)
	assert.Equal(t, "Untitled promotion", out[0].Title)
}

func TestNextTier(t *testing.T) {
	name, at, ok := NextTier(120)
	assert.True(t, ok)
	assert.Equal(t, "silver", name)
	assert.Equal(t, SilverPoints, at)

	name, at, ok = NextTier(SilverPoints)
	assert.True(t, ok)
	assert.Equal(t, "gold", name)
	assert.Equal(t, GoldPoints, at)

	_, _, ok = NextTier(GoldPoints + 5)
	assert.False(t, ok)
}
