package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
	"github.com/salonhub/salon-admin/internal/domain/model"
	apperrors "github.com/salonhub/salon-admin/internal/errors"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Options{BaseURL: srv.URL + "/api", Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RejectsNonHTTPBase(t *testing.T) {
	_, err := New(Options{BaseURL: "ftp://example.com"})
	require.Error(t, err)

	c, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}

func TestWithToken_SetsBearerHeader(t *testing.T) {
	var got string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		assert.Equal(t, "/api/customers", r.URL.Path)
		writeJSON(w, http.StatusOK, []any{})
	}))

	var out []model.CustomerWire
	require.NoError(t, c.WithToken("tok").GetCollection(context.Background(), Collection{Path: "/customers"}, &out))
	assert.Equal(t, "Bearer tok", got)

	require.NoError(t, c.WithToken("").GetCollection(context.Background(), Collection{Path: "/customers"}, &out))
	assert.Empty(t, got)
}

func TestDo_ErrorBodyBecomesAPIError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Email already registered", "field": "email"})
	}))

	_, err := c.Register(context.Background(), Registration{Email: "a@b.c"})
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Email already registered", apiErr.Message)
	assert.Equal(t, "email", apperrors.GetField(err))
	assert.True(t, apperrors.IsConflict(err))
	assert.True(t, IsValidation(err))
	assert.False(t, IsAuthFailure(err))
}

func TestDo_Classification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		auth      bool
		transient bool
	}{
		{"unauthorized", http.StatusUnauthorized, true, false},
		{"forbidden", http.StatusForbidden, true, false},
		{"server error", http.StatusInternalServerError, false, true},
		{"bad gateway", http.StatusBadGateway, false, true},
		{"not found", http.StatusNotFound, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			err := c.Get(context.Background(), "/salons", nil)
			require.Error(t, err)
			assert.Equal(t, tt.auth, IsAuthFailure(err))
			assert.Equal(t, tt.transient, IsTransient(err))

			apiErr, ok := AsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusText(tt.status), apiErr.Message)
		})
	}
}

func TestDo_TimeoutIsTransient(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	c, err := New(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	err = c.Get(context.Background(), "/salons", nil)
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	_, isAPI := AsAPIError(err)
	assert.False(t, isAPI)
}

func TestDo_SendsJSONBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/appointments/a%2F1/status", r.URL.EscapedPath())
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"status":"confirmed"}`, string(body))
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, c.UpdateAppointmentStatus(context.Background(), "a/1", model.AppointmentConfirmed))
}

func TestResolve_RejectsAbsolutePaths(t *testing.T) {
	c, err := New(Options{BaseURL: "http://backend/api"})
	require.NoError(t, err)

	_, err = c.resolve("http://evil.example/x")
	require.Error(t, err)

	got, err := c.resolve("/appointments?date=2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, "http://backend/api/appointments?date=2024-05-01", got)
}

func TestExtractCollection(t *testing.T) {
	decode := func(s string) any {
		var v any
		require.NoError(t, json.Unmarshal([]byte(s), &v))
		return v
	}

	tests := []struct {
		name     string
		doc      string
		envelope string
		want     int
		wantErr  bool
	}{
		{"bare array", `[{"id":"1"},{"id":"2"}]`, "", 2, false},
		{"bare array ignores envelope", `[{"id":"1"}]`, "data", 1, false},
		{"data envelope", `{"data":[{"id":"1"}]}`, "data", 1, false},
		{"nested envelope", `{"data":{"items":[{"id":"1"},{"id":"2"},{"id":"3"}]}}`, "data.items", 3, false},
		{"missing envelope is empty", `{"meta":{}}`, "data", 0, false},
		{"null document is empty", `null`, "data", 0, false},
		{"object without envelope", `{"data":[]}`, "", 0, true},
		{"envelope selects object", `{"data":{"id":"1"}}`, "data", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractCollection(decode(tt.doc), tt.envelope)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestListAppointments_DecodesEnvelopeAndQuery(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-05-01", r.URL.Query().Get("date"))
		assert.Equal(t, "s1", r.URL.Query().Get("salon_id"))
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{
				"items": []map[string]any{
					{"id": "a1", "status": "CONFIRMED", "price": 40, "starts_at": "2024-05-01T10:00:00Z"},
					{"id": "a2", "status": "mystery"},
				},
			},
		})
	}))

	got, err := c.ListAppointments(context.Background(), AppointmentQuery{Date: "2024-05-01", SalonID: "s1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.AppointmentConfirmed, got[0].Status)
	assert.Equal(t, 40.0, got[0].Price)
	assert.Equal(t, model.AppointmentStatus(model.StatusUnknown), got[1].Status)
}

func TestListPayments_MissingEnvelopeIsEmpty(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"total": 0})
	}))

	got, err := c.ListPayments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLogin_ResolvesSession(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var cred Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&cred))
		assert.Equal(t, "owner@example.com", cred.Email)
		writeJSON(w, http.StatusOK, map[string]any{
			"token": "tok-1",
			"user":  map[string]any{"id": "u1", "name": "Olive", "email": "owner@example.com", "role": "owner", "approval_status": "pending"},
		})
	}))

	sess, err := c.Login(context.Background(), Credentials{Email: "owner@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", sess.Token)
	assert.Equal(t, domainauth.RoleOwner, sess.User.Role)
	assert.Equal(t, "Olive", sess.User.DisplayName)
	assert.Equal(t, domainauth.ApprovalPending, sess.User.ApprovalStatus)
}

func TestLogin_IncompleteResponse(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"token": "", "user": map[string]any{"id": "u1"}})
	}))

	_, err := c.Login(context.Background(), Credentials{Email: "x@example.com", Password: "pw"})
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestMe_AcceptsWrappedAndBareProfiles(t *testing.T) {
	for name, body := range map[string]any{
		"wrapped": map[string]any{"user": map[string]any{"id": "u1", "email": "a@example.com", "role": "admin"}},
		"bare":    map[string]any{"id": "u1", "email": "a@example.com", "role": "admin"},
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, body)
			}))
			u, err := c.WithToken("tok").Me(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "u1", u.ID)
			assert.Equal(t, domainauth.RoleAdmin, u.Role)
			assert.Equal(t, "a@example.com", u.DisplayName)
		})
	}
}
