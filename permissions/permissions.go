// Package permissions holds the role predicates gating the reporting
// operations. Both predicates fail closed: an absent caller, a caller
// that cannot answer membership questions, or any panic during
// evaluation yields a plain denial, never an error.
package permissions

// GroupOrganizacionSectorial is the group whose members may file reports
const GroupOrganizacionSectorial = "organizacion_sectorial"

// Caller is the minimal identity surface the predicates need. It is
// implemented by *models.User; the web layer may pass any other
// authenticated principal that can answer the same questions.
type Caller interface {
	// InGroup reports membership in a named group
	InGroup(name string) bool
	// IsAdmin reports administrator (staff) privileges
	IsAdmin() bool
}

// SectorialOnly reports whether the caller is present and belongs to the
// organizacion_sectorial group
func SectorialOnly(caller Caller) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	if caller == nil {
		return false
	}
	return caller.InGroup(GroupOrganizacionSectorial)
}

// SectorialOrAdmin reports whether the caller is present and is either an
// administrator or a member of the organizacion_sectorial group
func SectorialOrAdmin(caller Caller) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	if caller == nil {
		return false
	}
	return caller.IsAdmin() || caller.InGroup(GroupOrganizacionSectorial)
}
