package httpx

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_GateRedirectsToRoleLogin(t *testing.T) {
	c := newConsole(t)

	t.Run("plain request gets 303", func(t *testing.T) {
		rr := c.get("/admin/salons")
		require.Equal(t, http.StatusSeeOther, rr.Code)
		loc := rr.Header().Get("Location")
		assert.True(t, strings.HasPrefix(loc, "/admin/login"), loc)
		assert.Contains(t, loc, "redirect_uri="+url.QueryEscape("/admin/salons"))
	})

	t.Run("htmx request gets Hx-Redirect", func(t *testing.T) {
		rr := c.get("/owner/appointments", asHTMX("/owner/appointments?status=pending"))
		require.Equal(t, http.StatusNoContent, rr.Code)
		loc := rr.Header().Get("Hx-Redirect")
		assert.True(t, strings.HasPrefix(loc, "/owner/login"), loc)
		assert.Contains(t, loc, url.QueryEscape("/owner/appointments?status=pending"))
	})

	t.Run("customer pages", func(t *testing.T) {
		rr := c.get("/account/loyalty")
		require.Equal(t, http.StatusSeeOther, rr.Code)
		assert.True(t, strings.HasPrefix(rr.Header().Get("Location"), "/login"))
	})
}

func TestRouter_LoginFlow(t *testing.T) {
	c := newConsole(t)

	t.Run("login page renders", func(t *testing.T) {
		rr := c.get("/admin/login")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Admin sign in")
		assert.NotContains(t, rr.Body.String(), "Create an account")
	})

	t.Run("honors redirect_uri", func(t *testing.T) {
		rr := c.post("/admin/login", url.Values{
			"email": {"admin@salonhub.dev"}, "password": {"admin-pass"}, "redirect_uri": {"/admin/payments?status=paid"},
		})
		require.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/admin/payments?status=paid", rr.Header().Get("Location"))
		require.NotNil(t, sessionCookie(rr))
	})

	t.Run("ignores off-site redirect_uri", func(t *testing.T) {
		rr := c.post("/admin/login", url.Values{
			"email": {"admin@salonhub.dev"}, "password": {"admin-pass"}, "redirect_uri": {"//evil.example/admin"},
		})
		require.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/admin", rr.Header().Get("Location"))
	})

	t.Run("wrong password re-renders with 422", func(t *testing.T) {
		rr := c.post("/admin/login", url.Values{"email": {"admin@salonhub.dev"}, "password": {"nope"}})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid email or password")
		assert.Contains(t, rr.Body.String(), `value="admin@salonhub.dev"`)
		assert.Nil(t, sessionCookie(rr))
	})

	t.Run("htmx form errors swap with 200", func(t *testing.T) {
		rr := c.post("/login", url.Values{"email": {""}, "password": {"x"}}, asHTMX("/login"))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Email is required")
		assert.NotContains(t, rr.Body.String(), "<html")
	})

	t.Run("other role's sign-in page is refused", func(t *testing.T) {
		rr := c.post("/admin/login", url.Values{"email": {"customer@salonhub.dev"}, "password": {"customer-pass"}})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), "This sign-in page is for admin accounts")
		assert.Nil(t, sessionCookie(rr))
	})

	t.Run("signed-in user skips the login form", func(t *testing.T) {
		cookie := c.signIn("/owner/login", "owner@salonhub.dev", "owner-pass")
		rr := c.get("/owner/login", withCookie(cookie))
		require.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/owner", rr.Header().Get("Location"))
	})
}

func TestRouter_Logout(t *testing.T) {
	c := newConsole(t)
	cookie := c.signIn("/admin/login", "admin@salonhub.dev", "admin-pass")
	require.Equal(t, http.StatusOK, c.get("/admin", withCookie(cookie)).Code)

	rr := c.post("/logout", nil, withCookie(cookie))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), "/signed-out")

	after := c.get("/admin", withCookie(cookie))
	assert.Equal(t, http.StatusSeeOther, after.Code, "old cookie must not authorize")
}

func TestRouter_RoleAndApprovalDenials(t *testing.T) {
	c := newConsole(t)

	t.Run("customer on admin page", func(t *testing.T) {
		cookie := c.signIn("/login", "customer@salonhub.dev", "customer-pass")
		rr := c.get("/admin", withCookie(cookie))
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Contains(t, rr.Body.String(), "Access denied")
		assert.Contains(t, rr.Body.String(), `href="/account/appointments"`)
	})

	t.Run("pending owner", func(t *testing.T) {
		cookie := c.signIn("/owner/login", "pending@salonhub.dev", "owner-pass")
		rr := c.get("/owner", withCookie(cookie))
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Contains(t, rr.Body.String(), "Awaiting approval")
	})
}

func TestRouter_HomeByRole(t *testing.T) {
	c := newConsole(t)

	rr := c.get("/")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))

	cookie := c.signIn("/admin/login", "admin@salonhub.dev", "admin-pass")
	rr = c.get("/", withCookie(cookie))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/admin", rr.Header().Get("Location"))
}

func TestRouter_AdminPages(t *testing.T) {
	c := newConsole(t)
	cookie := c.signIn("/admin/login", "admin@salonhub.dev", "admin-pass")

	pages := map[string][]string{
		"/admin":                 {"Platform overview", "Pending owners", "Recent payments"},
		"/admin/salons":          {"Shear Joy", "Fade Factory", "Average rating"},
		"/admin/owners":          {"Pat Pending", "Quinn Queued", "Approve"},
		"/admin/customers":       {"Avg visits", "Avg spent"},
		"/admin/payments":        {"Collected", "Avg amount"},
		"/admin/reports/revenue": {"Revenue report", "Group by"},
	}
	for path, want := range pages {
		t.Run(path, func(t *testing.T) {
			rr := c.get(path, withCookie(cookie))
			require.Equal(t, http.StatusOK, rr.Code)
			body := rr.Body.String()
			assert.True(t, ContainsAll(body, want), "missing one of %v", want)
			assert.NotContains(t, body, "banner-error")
		})
	}
}

func TestRouter_SalonFilters(t *testing.T) {
	c := newConsole(t)
	cookie := c.signIn("/admin/login", "admin@salonhub.dev", "admin-pass")

	t.Run("status facet", func(t *testing.T) {
		body := c.get("/admin/salons?status=inactive", withCookie(cookie)).Body.String()
		assert.Contains(t, body, "Curl Up &amp; Dye")
		assert.NotContains(t, body, "Shear Joy")
	})

	t.Run("search across city", func(t *testing.T) {
		body := c.get("/admin/salons?q=portland", withCookie(cookie)).Body.String()
		assert.Contains(t, body, "Shear Joy")
		assert.Contains(t, body, "Curl Up &amp; Dye")
		assert.NotContains(t, body, "Fade Factory")
	})

	t.Run("no match offers clear", func(t *testing.T) {
		body := c.get("/admin/salons?q=zzz-nothing", withCookie(cookie)).Body.String()
		assert.Contains(t, body, "Nothing matches these filters.")
		assert.Contains(t, body, "Clear filters")
	})

	t.Run("htmx swap is a fragment", func(t *testing.T) {
		rr := c.get("/admin/salons?sort=rating&dir=desc", withCookie(cookie), asHTMX("/admin/salons"))
		require.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.NotContains(t, body, "<html")
		assert.Contains(t, body, `hx-swap-oob="true"`)
		assert.Contains(t, rr.Header().Get("Hx-Trigger"), "nav:activate")
		assert.Less(t, strings.Index(body, "Shear Joy"), strings.Index(body, "Fade Factory"), "rating desc")
	})
}

func TestRouter_ApproveOwner(t *testing.T) {
	c := newConsole(t)
	cookie := c.signIn("/admin/login", "admin@salonhub.dev", "admin-pass")

	page := c.get("/admin/owners?status=pending&q=quinn", withCookie(cookie)).Body.String()
	id := firstMatch(t, page, `/admin/owners/([0-9a-f-]{36})/approve`)

	rr := c.post("/admin/owners/"+id+"/approve", nil, withCookie(cookie), asHTMX("/admin/owners?status=pending&q=quinn"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Hx-Trigger"), "Owner approved")
	assert.NotContains(t, rr.Body.String(), "Quinn Queued", "re-rendered list no longer shows the owner as pending")

	plain := c.post("/admin/owners/"+id+"/reject", nil, withCookie(cookie))
	assert.Equal(t, http.StatusSeeOther, plain.Code)
}

func TestRouter_OwnerPages(t *testing.T) {
	c := newConsole(t)
	cookie := c.signIn("/owner/login", "owner@salonhub.dev", "owner-pass")

	for path, want := range map[string][]string{
		"/owner":              {"Today at your salon", "Schedule", "Regulars"},
		"/owner/appointments": {"Booked", "Avg price"},
		"/owner/customers":    {"Avg visits", "Last visit"},
		"/owner/promotions":   {"New promotion"},
		"/owner/reports":      {"Salon reports", "Service mix"},
	} {
		t.Run(path, func(t *testing.T) {
			rr := c.get(path, withCookie(cookie))
			require.Equal(t, http.StatusOK, rr.Code)
			assert.True(t, ContainsAll(rr.Body.String(), want), "missing one of %v", want)
		})
	}

	t.Run("admin pages are off limits", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, c.get("/admin/owners", withCookie(cookie)).Code)
	})
}

func TestRouter_CreatePromotion(t *testing.T) {
	c := newConsole(t)
	cookie := c.signIn("/owner/login", "owner@salonhub.dev", "owner-pass")

	t.Run("invalid form re-renders inline", func(t *testing.T) {
		rr := c.post("/owner/promotions", url.Values{
			"title": {""}, "discount_percent": {"150"}, "starts_at": {"2025-03-10"}, "ends_at": {"2025-03-01"},
		}, withCookie(cookie))
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "Title is required.")
		assert.Contains(t, body, "Discount must be between 1 and 100.")
		assert.Contains(t, body, "End date must be on or after the start date.")
		assert.Contains(t, body, `value="150"`)
	})

	t.Run("htmx create toasts and re-renders", func(t *testing.T) {
		rr := c.post("/owner/promotions", url.Values{
			"title": {"Midweek glow"}, "code": {"glow-15"}, "discount_percent": {"15"},
		}, withCookie(cookie), asHTMX("/owner/promotions"))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Hx-Trigger"), "Promotion created")
		assert.Contains(t, rr.Body.String(), "Midweek glow")
		assert.Contains(t, rr.Body.String(), "GLOW-15")
	})
}

func TestRouter_AppointmentStatusRejectsUnknownStatus(t *testing.T) {
	c := newConsole(t)
	cookie := c.signIn("/owner/login", "owner@salonhub.dev", "owner-pass")

	rr := c.post("/owner/appointments/whatever/status", url.Values{"status": {"teleported"}},
		withCookie(cookie), asHTMX("/owner/appointments"))
	require.Equal(t, http.StatusOK, rr.Code)
	trigger := rr.Header().Get("Hx-Trigger")
	assert.Contains(t, trigger, `"kind":"error"`)
}

func TestRouter_Booking(t *testing.T) {
	c := newConsole(t)
	cookie := c.signIn("/login", "customer@salonhub.dev", "customer-pass")

	page := c.get("/account/book", withCookie(cookie)).Body.String()
	assert.NotContains(t, page, "Curl Up", "inactive salons are not bookable")
	salonID := firstMatch(t, page, `value="([0-9a-f-]{36})">Shear Joy`)

	withSalon := c.get("/account/book?salon_id="+salonID, withCookie(cookie)).Body.String()
	assert.Contains(t, withSalon, "Haircut")

	t.Run("past slot is rejected", func(t *testing.T) {
		rr := c.post("/account/book", url.Values{
			"salon_id": {salonID}, "service": {"Haircut"}, "date": {"2020-01-01"}, "time": {"10:00"},
		}, withCookie(cookie))
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), "Pick a time in the future.")
	})

	t.Run("booked", func(t *testing.T) {
		tomorrow := time.Now().AddDate(0, 0, 1).Format(time.DateOnly)
		rr := c.post("/account/book", url.Values{
			"salon_id": {salonID}, "service": {"Haircut"}, "date": {tomorrow}, "time": {"10:00"}, "notes": {"Short on the sides"},
		}, withCookie(cookie), asHTMX("/account/book"))
		require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())
		assert.Equal(t, "/account/appointments?when=upcoming", rr.Header().Get("Hx-Redirect"))

		list := c.get("/account/appointments?when=upcoming", withCookie(cookie)).Body.String()
		assert.Contains(t, list, "Shear Joy")
		assert.Contains(t, list, "Haircut")
	})
}

func TestRouter_Loyalty(t *testing.T) {
	c := newConsole(t)
	cookie := c.signIn("/login", "customer@salonhub.dev", "customer-pass")

	rr := c.get("/account/loyalty", withCookie(cookie))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, ContainsAll(rr.Body.String(), []string{"Loyalty rewards", "Tier", "History"}))
}

func TestRouter_PublicEndpoints(t *testing.T) {
	c := newConsole(t)

	t.Run("not found", func(t *testing.T) {
		rr := c.get("/no/such/page")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Page not found")
	})

	t.Run("health", func(t *testing.T) {
		rr := c.get("/healthz")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	})

	t.Run("static", func(t *testing.T) {
		rr := c.get("/static/css/app.css?v=abc")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Cache-Control"), "immutable")
	})

	t.Run("register page", func(t *testing.T) {
		rr := c.get("/register?role=owner")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `value="owner" checked`)
	})
}
