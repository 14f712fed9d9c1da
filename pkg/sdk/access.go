package sdk

// Decision is the outcome of evaluating a navigation against the session.
type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	RedirectToDashboard
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToDashboard:
		return "redirect-to-dashboard"
	default:
		return "unknown"
	}
}

// Target returns the path a redirect decision points at, or "" for Allow.
func (d Decision) Target() string {
	switch d {
	case RedirectToLogin:
		return LoginPath
	case RedirectToDashboard:
		return DashboardPath
	default:
		return ""
	}
}

// Canonical landing paths. Every role-based bounce goes to DashboardPath.
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// Route describes a navigation target.
//
// A protected route is user-only unless RequiresAdmin or AnyRole is set:
// admins are kept out of user-only routes just as users are kept out of
// admin-only ones.
type Route struct {
	Path          string
	RequiresAuth  bool
	RequiresAdmin bool
	AnyRole       bool
}

// Protected reports whether the route needs a session at all.
func (r Route) Protected() bool {
	return r.RequiresAuth || r.RequiresAdmin
}

// EvaluateAccess decides whether s may reach r. It has no side effects.
func EvaluateAccess(s Session, r Route) Decision {
	if !r.Protected() {
		return Allow
	}
	if !s.Authenticated() || s.User == nil {
		return RedirectToLogin
	}

	admin := s.User.Role == RoleAdmin
	switch {
	case r.RequiresAdmin && !admin:
		return RedirectToDashboard
	case !r.RequiresAdmin && !r.AnyRole && admin:
		return RedirectToDashboard
	}
	return Allow
}

// Routes shared by every HomeStock frontend.
var (
	RouteLogin        = Route{Path: LoginPath}
	RouteRegister     = Route{Path: "/register"}
	RouteDashboard    = Route{Path: DashboardPath, RequiresAuth: true, AnyRole: true}
	RouteProfile      = Route{Path: "/profile", RequiresAuth: true, AnyRole: true}
	RouteInventory    = Route{Path: "/inventory", RequiresAuth: true}
	RouteShoppingList = Route{Path: "/shopping-list", RequiresAuth: true}
	RouteStock        = Route{Path: "/stock", RequiresAuth: true}
	RouteReminders    = Route{Path: "/reminders", RequiresAuth: true}
	RouteAdminUsers   = Route{Path: "/admin/users", RequiresAuth: true, RequiresAdmin: true}
)

// Routes lists every known route, keyed by path.
func Routes() map[string]Route {
	all := []Route{
		RouteLogin, RouteRegister, RouteDashboard, RouteProfile, RouteInventory,
		RouteShoppingList, RouteStock, RouteReminders, RouteAdminUsers,
	}
	out := make(map[string]Route, len(all))
	for _, r := range all {
		out[r.Path] = r
	}
	return out
}
