// Package access decides which club roles may perform which actions.
package access

import (
	"errors"
	"fmt"
	"strings"
)

// ErrForbidden is returned when a role lacks a capability.
var ErrForbidden = errors.New("forbidden")

// Role is the typed form of a member's role.
type Role int

const (
	RoleUnknown Role = iota
	RoleMember
	RoleCoach
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleMember:
		return "member"
	case RoleCoach:
		return "coach"
	case RoleAdmin:
		return "admin"
	}
	return "unknown"
}

// ParseRole maps a stored role string to a Role. Unrecognised strings give RoleUnknown.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "member":
		return RoleMember
	case "coach":
		return RoleCoach
	case "admin":
		return RoleAdmin
	}
	return RoleUnknown
}

// Capability is an action guarded by the policy.
type Capability string

const (
	ViewDashboard  Capability = "view_dashboard"
	RecordMatch    Capability = "record_match"
	DeleteMatch    Capability = "delete_match"
	ManageSeasons  Capability = "manage_seasons"
	ManageMembers  Capability = "manage_members"
	EditOwnProfile Capability = "edit_own_profile"
	AnnounceResult Capability = "announce_result"
)

var policy = map[Role][]Capability{
	RoleMember: {ViewDashboard, RecordMatch, EditOwnProfile},
	RoleCoach:  {ViewDashboard, RecordMatch, EditOwnProfile, ManageSeasons, AnnounceResult},
	RoleAdmin:  {ViewDashboard, RecordMatch, EditOwnProfile, ManageSeasons, AnnounceResult, DeleteMatch, ManageMembers},
}

// Can reports whether role holds capability.
func Can(role Role, capability Capability) bool {
	for _, c := range policy[role] {
		if c == capability {
			return true
		}
	}
	return false
}

// Require returns an error wrapping ErrForbidden when role lacks capability.
func Require(role Role, capability Capability) error {
	if Can(role, capability) {
		return nil
	}
	return fmt.Errorf("%w: %s may not %s", ErrForbidden, role, capability)
}
