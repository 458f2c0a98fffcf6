package viewmodel

// User represents the authenticated user context exposed to templates.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      string
	RoleLabel string
}

// Flash is a one-shot notice shown above page content.
type Flash struct {
	Type    string // success, error, info
	Message string
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CSRFToken       string
	IsAuthenticated bool
	IsAdmin         bool
	IsVendor        bool
	User            *User
	Flash           *Flash
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}
