package auth

import "strings"

const (
	LoginPath     = "/login"
	LogoutPath    = "/logout"
	DashboardPath = "/dashboard"
)

// Decision is the outcome of a policy check. Redirect is set when Allow is
// false.
type Decision struct {
	Allow    bool
	Redirect string
}

// Policy guards the dashboard.
type Policy struct{}

// Authorized decides whether a request for path may proceed. Dashboard paths
// need a session; signed-in users are sent to the dashboard from anywhere
// else except the logout endpoint.
func (Policy) Authorized(path string, loggedIn bool) Decision {
	if isDashboard(path) {
		if loggedIn {
			return Decision{Allow: true}
		}
		return Decision{Redirect: LoginPath}
	}
	if loggedIn && path != LogoutPath {
		return Decision{Redirect: DashboardPath}
	}
	return Decision{Allow: true}
}

func isDashboard(path string) bool {
	return path == DashboardPath || strings.HasPrefix(path, DashboardPath+"/")
}
