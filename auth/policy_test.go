package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Authorized(t *testing.T) {
	tests := []struct {
		path     string
		loggedIn bool
		want     Decision
	}{
		{"/dashboard", false, Decision{Redirect: "/login"}},
		{"/dashboard/invoices", false, Decision{Redirect: "/login"}},
		{"/dashboard", true, Decision{Allow: true}},
		{"/dashboard/invoices/1/edit", true, Decision{Allow: true}},
		{"/login", false, Decision{Allow: true}},
		{"/login", true, Decision{Redirect: "/dashboard"}},
		{"/", true, Decision{Redirect: "/dashboard"}},
		{"/", false, Decision{Allow: true}},
		{"/dashboards", false, Decision{Allow: true}},
		{"/logout", true, Decision{Allow: true}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Policy{}.Authorized(tt.path, tt.loggedIn), "%s loggedIn=%v", tt.path, tt.loggedIn)
	}
}
