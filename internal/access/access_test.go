package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleCoach, ParseRole(" Coach "))
	assert.Equal(t, RoleMember, ParseRole("member"))
	assert.Equal(t, RoleUnknown, ParseRole("superuser"))
	assert.Equal(t, RoleUnknown, ParseRole(""))
	assert.Equal(t, "admin", RoleAdmin.String())
	assert.Equal(t, "unknown", RoleUnknown.String())
}

func TestPolicy(t *testing.T) {
	tests := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{RoleMember, ViewDashboard, true},
		{RoleMember, RecordMatch, true},
		{RoleMember, DeleteMatch, false},
		{RoleMember, ManageMembers, false},
		{RoleMember, ManageSeasons, false},
		{RoleCoach, ManageSeasons, true},
		{RoleCoach, DeleteMatch, false},
		{RoleAdmin, DeleteMatch, true},
		{RoleAdmin, ManageMembers, true},
		{RoleUnknown, ViewDashboard, false},
	}
	for _, tt := range tests {
		t.Run(tt.role.String()+"/"+string(tt.cap), func(t *testing.T) {
			assert.Equal(t, tt.want, Can(tt.role, tt.cap))
			if tt.want {
				assert.NoError(t, Require(tt.role, tt.cap))
			} else {
				assert.ErrorIs(t, Require(tt.role, tt.cap), ErrForbidden)
			}
		})
	}
}
