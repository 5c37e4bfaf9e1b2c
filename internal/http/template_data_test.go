package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
	"github.com/salonhub/salon-admin/internal/http/ui/viewmodel"
	"github.com/salonhub/salon-admin/internal/view"
)

func TestNewTemplateData(t *testing.T) {
	t.Run("guest", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/login", nil)
		data := NewTemplateData(r, PageMeta{Title: "Sign in", CurrentPage: PageLogin}).Build()

		assert.Equal(t, "Sign in · SalonHub", data["Title"])
		assert.Equal(t, "Sign in", data["PageTitle"], "PageTitle falls back to Title")
		assert.Equal(t, PageLogin, data["CurrentPage"])
		assert.Equal(t, false, data["IsAuthenticated"])
		assert.Equal(t, "/login", data["Path"])
		assert.Nil(t, data["User"])
		assert.Empty(t, data["Nav"])
	})

	t.Run("admin gets nav and user", func(t *testing.T) {
		sess := &domainauth.Session{User: domainauth.User{ID: "u1", DisplayName: "Ada", Email: "ada@example.com", Role: domainauth.RoleAdmin}}
		r := httptest.NewRequest(http.MethodGet, "/admin", nil)
		r = r.WithContext(SetSessionInContext(r.Context(), sess))

		data := NewTemplateData(r, PageMeta{Title: "Dashboard", PageTitle: "Platform overview", CurrentPage: PageAdminDashboard}).Build()
		assert.Equal(t, true, data["IsAuthenticated"])
		assert.Equal(t, "Platform overview", data["PageTitle"])
		require.IsType(t, &viewmodel.User{}, data["User"])
		assert.Equal(t, "Ada", data["User"].(*viewmodel.User).Name)
		assert.Equal(t, adminNav, data["Nav"])
	})

	t.Run("pending owner has no sidebar", func(t *testing.T) {
		sess := &domainauth.Session{User: domainauth.User{ID: "u2", Role: domainauth.RoleOwner, ApprovalStatus: domainauth.ApprovalPending}}
		r := httptest.NewRequest(http.MethodGet, "/owner", nil)
		r = r.WithContext(SetSessionInContext(r.Context(), sess))

		data := NewTemplateData(r, PageMeta{Title: "Awaiting approval", CurrentPage: PagePending}).Build()
		assert.Equal(t, true, data["IsAuthenticated"])
		assert.Empty(t, data["Nav"])
	})
}

func TestTemplateDataBuilder_WithError(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	data := NewTemplateData(r, PageMeta{Title: "x"}).WithError("boom").Build()
	assert.Equal(t, true, data["Error"])
	assert.Equal(t, "boom", data["ErrorMessage"])
}

func TestTemplateDataBuilder_WithFieldErrors(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	data := NewTemplateData(r, PageMeta{Title: "x"}).WithFieldErrors(nil).Build()
	assert.Equal(t, map[string]string{}, data["Errors"], "empty errors keep the default map")

	data = NewTemplateData(r, PageMeta{Title: "x"}).WithFieldErrors(map[string]string{"email": "Email is required"}).Build()
	assert.Equal(t, map[string]string{"email": "Email is required"}, data["Errors"])
}

func TestTemplateDataBuilder_WithBanner(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/admin/salons?status=active", nil)

	data := NewTemplateData(r, PageMeta{Title: "Salons"}).WithBanner("").Build()
	assert.NotContains(t, data, "Banner")

	data = NewTemplateData(r, PageMeta{Title: "Salons"}).WithBanner("Salons could not be loaded.").Build()
	banner, ok := data["Banner"].(viewmodel.Banner)
	require.True(t, ok)
	assert.Equal(t, "Salons could not be loaded.", banner.Message)

	u, err := url.Parse(banner.RetryURL)
	require.NoError(t, err)
	assert.Equal(t, "/admin/salons", u.Path)
	assert.Equal(t, "1", u.Query().Get(ParamRefresh))
	assert.Equal(t, "active", u.Query().Get("status"), "retry keeps the list state")
}

func TestBuildPagination(t *testing.T) {
	st := view.State{Search: "ann", Filters: map[string]string{"status": "paid"}, Sort: "amount", Dir: view.Desc, Page: 3}

	t.Run("middle page", func(t *testing.T) {
		p := BuildPagination("/admin/payments", view.NewPageInfo(3, 10, 95), st)
		assert.True(t, p.HasPrev)
		assert.True(t, p.HasNext)
		assert.Equal(t, 21, p.StartIndex)
		assert.Equal(t, 30, p.EndIndex)
		assert.Equal(t, 95, p.TotalCount)
		require.Len(t, p.Pages, 5)
		assert.Equal(t, 1, p.Pages[0].Number)
		assert.True(t, p.Pages[2].Current)

		prev, err := url.Parse(p.PrevURL)
		require.NoError(t, err)
		assert.Equal(t, "2", prev.Query().Get(view.ParamPage))
		assert.Equal(t, "ann", prev.Query().Get("q"))
		assert.Equal(t, "paid", prev.Query().Get("status"))
		assert.Equal(t, "amount", prev.Query().Get("sort"))
	})

	t.Run("single page has no links", func(t *testing.T) {
		p := BuildPagination("/admin/payments", view.NewPageInfo(1, 10, 4), st)
		assert.False(t, p.HasPrev)
		assert.False(t, p.HasNext)
		assert.Empty(t, p.Pages)
		assert.Empty(t, p.NextURL)
	})
}

func TestBuildSortLinks(t *testing.T) {
	spec := salonSpec()
	st := view.ParseState(spec, url.Values{"sort": {"rating"}, "dir": {"desc"}})
	links := BuildSortLinks("/admin/salons", spec, st)

	rating := links["rating"]
	assert.True(t, rating.Active)
	assert.Equal(t, "desc", rating.Dir)
	u, err := url.Parse(rating.URL)
	require.NoError(t, err)
	assert.Equal(t, "asc", u.Query().Get("dir"), "clicking the active column flips it")

	assert.False(t, links["name"].Active)
	assert.Empty(t, links["name"].Dir)
}

func TestBuildToolbar(t *testing.T) {
	spec := salonSpec()
	st := view.ParseState(spec, url.Values{"q": {"port"}, "status": {"active"}})
	tb := BuildToolbar("/admin/salons", spec, st)

	assert.Equal(t, "/admin/salons", tb.Action)
	assert.Equal(t, "port", tb.Search)
	assert.True(t, tb.Active)
	assert.Equal(t, st.Fingerprint(), tb.Fingerprint)

	var status viewmodel.Filter
	for _, f := range tb.Filters {
		if f.Param == "status" {
			status = f
		}
	}
	require.Equal(t, "select", status.Kind)
	var selected []string
	for _, o := range status.Options {
		if o.Selected {
			selected = append(selected, o.Value)
		}
	}
	assert.Equal(t, []string{"active"}, selected)

	clear, err := url.Parse(tb.ClearURL)
	require.NoError(t, err)
	assert.Equal(t, "/admin/salons", clear.Path)
	assert.Empty(t, clear.Query().Get("q"))
	assert.Empty(t, clear.Query().Get("status"))
}
