package httpx

// Page identifiers used for navigation highlighting and content template selection.
const (
	PageLogin        = "login"
	PageRegister     = "register"
	PageSignedOut    = "signed-out"
	PageUnauthorized = "unauthorized"
	PagePending      = "pending"
	PageNotFound     = "not-found"

	PageAdminDashboard = "admin-dashboard"
	PageAdminSalons    = "admin-salons"
	PageAdminOwners    = "admin-owners"
	PageAdminCustomers = "admin-customers"
	PageAdminPayments  = "admin-payments"
	PageAdminRevenue   = "admin-revenue"

	PageOwnerDashboard    = "owner-dashboard"
	PageOwnerAppointments = "owner-appointments"
	PageOwnerCustomers    = "owner-customers"
	PageOwnerPromotions   = "owner-promotions"
	PageOwnerReports      = "owner-reports"

	PageMyAppointments = "my-appointments"
	PageBook           = "book"
	PageLoyalty        = "loyalty"
)

// DefaultSessionCookieName is the cookie that carries the opaque session id.
const DefaultSessionCookieName = "session_id"

// Template path constants for loading templates from disk.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
	StaticPathFromRoot   = "frontend/static"
)

// contentTemplates maps page identifiers to their content template names.
var contentTemplates = map[string]string{
	PageLogin:        "login-content",
	PageRegister:     "register-content",
	PageSignedOut:    "signed-out-content",
	PageUnauthorized: "unauthorized-content",
	PagePending:      "pending-content",
	PageNotFound:     "not-found-content",

	PageAdminDashboard: "admin-dashboard-content",
	PageAdminSalons:    "admin-salons-content",
	PageAdminOwners:    "admin-owners-content",
	PageAdminCustomers: "customers-content",
	PageAdminPayments:  "admin-payments-content",
	PageAdminRevenue:   "revenue-content",

	PageOwnerDashboard:    "owner-dashboard-content",
	PageOwnerAppointments: "owner-appointments-content",
	PageOwnerCustomers:    "customers-content",
	PageOwnerPromotions:   "owner-promotions-content",
	PageOwnerReports:      "revenue-content",

	PageMyAppointments: "my-appointments-content",
	PageBook:           "book-content",
	PageLoyalty:        "loyalty-content",
}

// ContentTemplateMap returns the page to content template mapping.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the template name for the content section of a page.
func ContentTemplateFor(currentPage string) string {
	if name, ok := ContentTemplateMap()[currentPage]; ok {
		return name
	}
	return "not-found-content"
}
