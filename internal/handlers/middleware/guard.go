package middleware

// GuardState is everything the route guard needs to know about the caller's
// session. SessionLoading is true only while the startup restore is still
// running; guarding decisions wait on it so an authenticated user is never
// bounced to login by a race.
type GuardState struct {
	SessionLoading bool
	Authenticated  bool
	IsAdmin        bool
}

type Decision int

const (
	Allow Decision = iota
	ShowLoading
	RedirectLogin
	RedirectSearch
)

// Resolve is the guard's whole policy, a pure function of session state:
// loading wins over everything; the unauthenticated go to login; the
// authenticated-but-under-privileged go to the default view, not login.
func Resolve(state GuardState, requireAdmin bool) Decision {
	if state.SessionLoading {
		return ShowLoading
	}

	if !state.Authenticated {
		return RedirectLogin
	}

	if requireAdmin && !state.IsAdmin {
		return RedirectSearch
	}

	return Allow
}
