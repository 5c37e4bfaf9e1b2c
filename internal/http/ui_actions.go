package httpx

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/salonhub/salon-admin/internal/apiclient"
	"github.com/salonhub/salon-admin/internal/domain/gate"
	apperrors "github.com/salonhub/salon-admin/internal/errors"
	"github.com/salonhub/salon-admin/internal/fetch"
)

const msgActionFailed = "That didn't work. Please try again."

// finishAction reports the result of a mutation. htmx requests re-render
// the page the user is on with a toast; plain posts go back with a 303.
func (h *UIHandlers) finishAction(w http.ResponseWriter, r *http.Request, err error, success, fallback string, page http.HandlerFunc) {
	if err != nil && apiclient.IsAuthFailure(err) {
		h.rejectSession(w, r)
		return
	}

	kind, msg := "success", success
	if err != nil {
		kind, msg = "error", msgActionFailed
		if apperrors.IsUserFacing(err) {
			msg = apperrors.GetMessage(err)
		} else {
			h.logger().ErrorContext(r.Context(), "action failed", "path", r.URL.Path, "error", err)
		}
	}

	target := returnPath(r, fallback)
	if !IsHTMX(r) {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	Toast(w, kind, msg)
	page(w, getClone(r, target))
}

// rejectSession drops a session the backend refused mid-action.
func (h *UIHandlers) rejectSession(w http.ResponseWriter, r *http.Request) {
	loginPath := gate.CustomerLoginPath
	if sess := GetSessionFromContext(r.Context()); sess != nil {
		loginPath = gate.LoginPathForRole(sess.User.Role)
	}
	if sid := GetSessionIDFromContext(r.Context()); sid != "" {
		if err := h.Sessions.Logout(r.Context(), sid); err != nil {
			h.logger().WarnContext(r.Context(), "clearing rejected session failed", "error", err)
		}
	}
	h.sessionRejected(w, r, loginPath)
}

// returnPath is the page an action was submitted from, or fallback.
func returnPath(r *http.Request, fallback string) string {
	if p := redirectPathForRequest(r); p != "" {
		return p
	}
	return fallback
}

// getClone turns an action request into a GET for target so a page handler
// can render it in place.
func getClone(r *http.Request, target string) *http.Request {
	u, err := url.Parse(target)
	if err != nil {
		u = &url.URL{Path: target}
	}
	c := r.Clone(r.Context())
	c.Method = http.MethodGet
	c.URL = u
	c.RequestURI = u.RequestURI()
	c.Body = http.NoBody
	c.ContentLength = 0
	c.Form, c.PostForm = nil, nil
	return c
}

// groupBanner summarizes the failed sections of a dashboard.
func groupBanner(res fetch.GroupResult) string {
	failed := res.Failed()
	switch len(failed) {
	case 0:
		return ""
	case 1:
		return failed[0].Message
	}
	names := make([]string, 0, len(failed))
	for _, o := range failed {
		names = append(names, o.Name)
	}
	return "Some sections could not be loaded (" + strings.Join(names, ", ") + ")."
}

// loadedSections maps each task name to whether it produced data.
func loadedSections(res fetch.GroupResult) map[string]bool {
	out := make(map[string]bool, len(res.Outcomes))
	for _, o := range res.Outcomes {
		out[o.Name] = o.Status == fetch.Success
	}
	return out
}
