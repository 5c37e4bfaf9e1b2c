package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonhub/salon-admin/internal/adapters/memstore"
	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
	"github.com/salonhub/salon-admin/internal/domain/model"
	apperrors "github.com/salonhub/salon-admin/internal/errors"
)

func testSalons(n int) []model.Salon {
	out := make([]model.Salon, n)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		status := model.SalonActive
		if i%4 == 3 {
			status = model.SalonInactive
		}
		out[i] = model.Salon{
			ID:        fmt.Sprintf("s%02d", i),
			Name:      fmt.Sprintf("Salon %02d", i),
			City:      []string{"Portland", "Seattle"}[i%2],
			Status:    status,
			Rating:    float64(i%5) + 0.5,
			Revenue:   float64(i * 100),
			CreatedAt: base.AddDate(0, 0, i),
		}
	}
	return out
}

type listHarness struct {
	h     *UIHandlers
	store *memstore.SessionStore
	sid   string
}

func newListHarness(t *testing.T) *listHarness {
	t.Helper()
	store := memstore.NewSessionStore()
	h := CreateUIHandlersForTest(t, store)
	sid := "sid-admin"
	require.NoError(t, store.Save(context.Background(), sid, domainauth.Session{
		Token: "tok",
		User:  domainauth.User{ID: "a1", DisplayName: "Ada", Role: domainauth.RoleAdmin},
	}))
	return &listHarness{h: h, store: store, sid: sid}
}

func (lh *listHarness) serve(target string, load Loader[model.Salon], opts ...reqOpt) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	r = WithSession(r, lh.sid, lh.h.Sessions.CurrentUser(r.Context(), lh.sid))
	for _, o := range opts {
		o(r)
	}
	w := httptest.NewRecorder()
	HandleList(ListHandlerOpts[model.Salon]{
		Handler:  lh.h,
		W:        w,
		R:        r,
		Resource: "salons",
		Load:     load,
		Spec:     salonSpec(),
		PageMeta: PageMeta{Title: "Salons", CurrentPage: PageAdminSalons},
		ItemsKey: "Salons",
	})
	return w
}

func staticLoad(items []model.Salon) Loader[model.Salon] {
	return func(context.Context, *http.Request) ([]model.Salon, error) { return items, nil }
}

func TestHandleList_FirstPage(t *testing.T) {
	lh := newListHarness(t)
	rr := lh.serve("/admin/salons", staticLoad(testSalons(25)))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Salon 00")
	assert.Contains(t, body, "Salon 09")
	assert.NotContains(t, body, "Salon 10", "page size is 10")
	assert.Contains(t, body, "1–10 of 25")
	assert.NotContains(t, body, "banner-error")
}

func TestHandleList_LastPage(t *testing.T) {
	lh := newListHarness(t)
	rr := lh.serve("/admin/salons?page=3", staticLoad(testSalons(25)))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Salon 24")
	assert.NotContains(t, body, "Salon 19")
	assert.Contains(t, body, "21–25 of 25")
}

func TestHandleList_FilterSearchSort(t *testing.T) {
	lh := newListHarness(t)
	rr := lh.serve("/admin/salons?status=inactive&q=seattle&sort=revenue&dir=desc", staticLoad(testSalons(25)))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	// Inactive are i%4==3; Seattle are odd: 3, 7, 11, 15, 19, 23.
	for _, name := range []string{"Salon 23", "Salon 03"} {
		assert.Contains(t, body, name)
	}
	assert.NotContains(t, body, "Salon 01")
	assert.Less(t, strings.Index(body, "Salon 23"), strings.Index(body, "Salon 03"), "revenue descending")
}

func TestHandleList_StaleFingerprintResetsPage(t *testing.T) {
	lh := newListHarness(t)
	rr := lh.serve("/admin/salons?page=3&status=active&fp=stale", staticLoad(testSalons(25)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Salon 00")
}

func TestHandleList_EmptyResults(t *testing.T) {
	lh := newListHarness(t)

	t.Run("nothing loaded", func(t *testing.T) {
		rr := lh.serve("/admin/salons", staticLoad(nil))
		assert.Contains(t, rr.Body.String(), "Nothing here yet.")
	})

	t.Run("filters hide everything", func(t *testing.T) {
		rr := lh.serve("/admin/salons?q=nowhere", staticLoad(testSalons(3)))
		assert.Contains(t, rr.Body.String(), "Nothing matches these filters.")
	})
}

func TestHandleList_LoadFailureShowsBanner(t *testing.T) {
	lh := newListHarness(t)
	rr := lh.serve("/admin/salons?status=active", func(context.Context, *http.Request) ([]model.Salon, error) {
		return nil, apperrors.Unavailable("dial tcp: connection refused")
	})

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "banner-error")
	assert.Contains(t, body, "The salon service is unavailable right now.")
	assert.Contains(t, body, "refresh=1")
	assert.NotContains(t, body, "Nothing here yet.", "a failed load is not an empty list")
}

func TestHandleList_UnexpectedErrorIsGeneric(t *testing.T) {
	lh := newListHarness(t)
	rr := lh.serve("/admin/salons", func(context.Context, *http.Request) ([]model.Salon, error) {
		return nil, errors.New("pq: relation does not exist")
	})
	body := rr.Body.String()
	assert.Contains(t, body, "Something went wrong while loading this page.")
	assert.NotContains(t, body, "pq:")
}

func TestHandleList_AuthFailureEndsSession(t *testing.T) {
	lh := newListHarness(t)
	loader := func(context.Context, *http.Request) ([]model.Salon, error) {
		return nil, apperrors.Unauthorized("token expired")
	}

	t.Run("plain request", func(t *testing.T) {
		rr := lh.serve("/admin/salons?status=active", loader)
		require.Equal(t, http.StatusSeeOther, rr.Code)
		loc := rr.Header().Get("Location")
		assert.True(t, strings.HasPrefix(loc, "/admin/login?redirect_uri="), loc)

		assert.True(t, SessionCookieCleared(rr.Result()), "session cookie is expired")

		_, err := lh.store.Get(context.Background(), lh.sid)
		assert.Error(t, err, "stored session is removed")
	})

	t.Run("htmx request", func(t *testing.T) {
		lh := newListHarness(t)
		rr := lh.serve("/admin/salons", loader, asHTMX("/admin/salons?q=x"))
		require.Equal(t, http.StatusNoContent, rr.Code)
		assert.Contains(t, rr.Header().Get("Hx-Redirect"), "/admin/login")
	})
}

func TestHandleList_RefreshDropsStaleItems(t *testing.T) {
	lh := newListHarness(t)
	calls := 0
	rr := lh.serve("/admin/salons?refresh=1", func(context.Context, *http.Request) ([]model.Salon, error) {
		calls++
		return testSalons(2), nil
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, calls)
	assert.Contains(t, rr.Body.String(), "Salon 01")
}
