package viewmodel

// User represents the signed-in user exposed to templates.
type User struct {
	Name  string
	Email string
	Role  string
}

// NavItem is one sidebar entry.
type NavItem struct {
	Label string
	Href  string
	Page  string
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CSRFToken       string
	IsAuthenticated bool
	User            *User
	Nav             []NavItem
}

