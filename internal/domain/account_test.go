package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		raw    string
		want   Role
		wantOK bool
	}{
		{"ROLE_USER", RoleUser, true},
		{"ROLE_ADMIN", RoleAdmin, true},
		{"ROLE_WIZARD", "", false},
		{"role_user", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseRole(tt.raw)
		assert.Equal(t, tt.wantOK, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}
