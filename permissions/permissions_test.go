package permissions

import (
	"testing"

	"github.com/puribe/gruposiete/models"
)

type stubCaller struct {
	staff  bool
	groups []string
}

func (c stubCaller) InGroup(name string) bool {
	for _, g := range c.groups {
		if g == name {
			return true
		}
	}
	return false
}

func (c stubCaller) IsAdmin() bool {
	return c.staff
}

// brokenCaller simulates a caller whose membership lookup blows up,
// e.g. because the backing store is unreachable
type brokenCaller struct{}

func (brokenCaller) InGroup(string) bool { panic("group store unreachable") }
func (brokenCaller) IsAdmin() bool       { panic("group store unreachable") }

func TestSectorialOnly(t *testing.T) {
	tests := []struct {
		name   string
		caller Caller
		want   bool
	}{
		{"absent caller", nil, false},
		{"member", stubCaller{groups: []string{GroupOrganizacionSectorial}}, true},
		{"staff only, not a member", stubCaller{staff: true}, false},
		{"no memberships", stubCaller{}, false},
		{"other group", stubCaller{groups: []string{"otros"}}, false},
		{"broken caller fails closed", brokenCaller{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SectorialOnly(tt.caller); got != tt.want {
				t.Errorf("SectorialOnly() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSectorialOrAdmin(t *testing.T) {
	tests := []struct {
		name   string
		caller Caller
		want   bool
	}{
		{"absent caller", nil, false},
		{"staff, no group membership", stubCaller{staff: true}, true},
		{"member, not staff", stubCaller{groups: []string{GroupOrganizacionSectorial}}, true},
		{"staff and member", stubCaller{staff: true, groups: []string{GroupOrganizacionSectorial}}, true},
		{"non-staff non-member", stubCaller{}, false},
		{"broken caller fails closed", brokenCaller{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SectorialOrAdmin(tt.caller); got != tt.want {
				t.Errorf("SectorialOrAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}

// A typed-nil user slips past a plain == nil comparison on the
// interface; both predicates must still deny instead of panicking.
func TestPredicatesWithTypedNilUser(t *testing.T) {
	var user *models.User

	if SectorialOnly(user) {
		t.Error("Expected SectorialOnly to deny a typed-nil user")
	}
	if SectorialOrAdmin(user) {
		t.Error("Expected SectorialOrAdmin to deny a typed-nil user")
	}
}

func TestUserSatisfiesCaller(t *testing.T) {
	user := &models.User{
		ID:     1,
		Groups: []string{GroupOrganizacionSectorial},
	}

	if !SectorialOnly(user) {
		t.Error("Expected sectorial user to pass SectorialOnly")
	}

	staff := &models.User{ID: 2, IsStaff: true}
	if SectorialOnly(staff) {
		t.Error("Expected staff-only user to fail SectorialOnly")
	}
	if !SectorialOrAdmin(staff) {
		t.Error("Expected staff-only user to pass SectorialOrAdmin")
	}
}
