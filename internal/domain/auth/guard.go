package auth

import "slices"

// Decision is the outcome of evaluating a navigation against a session.
type Decision int

const (
	// Authorized means the requested view may render.
	Authorized Decision = iota
	// Unauthenticated means there is no session; the user must log in.
	Unauthenticated
	// AuthenticatedUnauthorized means the session role is outside the allowed set.
	AuthenticatedUnauthorized
)

// Landing paths used by the guard.
const (
	LoginPath   = "/login"
	LandingPath = "/dashboard"
)

func (d Decision) String() string {
	switch d {
	case Authorized:
		return "authorized"
	case Unauthenticated:
		return "unauthenticated"
	case AuthenticatedUnauthorized:
		return "authenticated_unauthorized"
	default:
		return "unknown"
	}
}

// GuardResult carries the decision and, when navigation must change, where to.
type GuardResult struct {
	Decision   Decision
	RedirectTo string
}

// Allowed reports whether the view may render.
func (g GuardResult) Allowed() bool { return g.Decision == Authorized }

// Evaluate decides whether sess may view a route restricted to allowed.
// An empty allowed set admits any authenticated role.
func Evaluate(sess Session, allowed []Role) GuardResult {
	if !sess.IsAuthenticated() {
		return GuardResult{Decision: Unauthenticated, RedirectTo: LoginPath}
	}
	if len(allowed) > 0 && !slices.Contains(allowed, sess.Role()) {
		return GuardResult{Decision: AuthenticatedUnauthorized, RedirectTo: LandingPath}
	}
	return GuardResult{Decision: Authorized}
}
