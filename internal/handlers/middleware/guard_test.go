package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		state        GuardState
		requireAdmin bool
		expected     Decision
	}{
		{
			name:     "loading wins over everything",
			state:    GuardState{SessionLoading: true},
			expected: ShowLoading,
		},
		{
			name:         "loading wins even for admin routes",
			state:        GuardState{SessionLoading: true, Authenticated: true, IsAdmin: true},
			requireAdmin: true,
			expected:     ShowLoading,
		},
		{
			name:     "unauthenticated redirects to login",
			state:    GuardState{},
			expected: RedirectLogin,
		},
		{
			name:         "unauthenticated redirects to login before the admin check",
			state:        GuardState{},
			requireAdmin: true,
			expected:     RedirectLogin,
		},
		{
			name:     "authenticated user allowed",
			state:    GuardState{Authenticated: true},
			expected: Allow,
		},
		{
			name:         "non-admin bounced off admin routes",
			state:        GuardState{Authenticated: true},
			requireAdmin: true,
			expected:     RedirectSearch,
		},
		{
			name:         "admin allowed on admin routes",
			state:        GuardState{Authenticated: true, IsAdmin: true},
			requireAdmin: true,
			expected:     Allow,
		},
		{
			name:     "admin flag irrelevant on plain routes",
			state:    GuardState{Authenticated: true, IsAdmin: true},
			expected: Allow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.state, tt.requireAdmin))
		})
	}
}
