// Package access resolves the acting user's effective role against a
// dashboard's access list. The result is a single capability flag that gates
// every mutating operation for the session.
package access

import "strings"

// User identifies the acting user as reported by the session layer.
type User struct {
	ID    string
	Email string
}

// Entry is one row of a dashboard's access list. Either UserID or UserEmail
// may be empty.
type Entry struct {
	UserID    string
	UserEmail string
	Role      string
}

// Capability is the resolved outcome for a session. It is computed once at
// dashboard load and never re-evaluated mid-session.
type Capability struct {
	Role    string
	CanEdit bool
}

// editRoles are the role names that grant mutation rights. Anything else,
// including absence from the list entirely, is view-only.
var editRoles = map[string]bool{
	"owner":  true,
	"editor": true,
	"edit":   true,
}

// Resolve matches user against entries by id or case-insensitive email and
// classifies the matched role. A nil user is view-only.
func Resolve(user *User, entries []Entry) Capability {
	if user == nil {
		return Capability{}
	}

	for _, e := range entries {
		if e.UserID != "" && e.UserID == user.ID {
			return capabilityFor(e.Role)
		}
		if e.UserEmail != "" && user.Email != "" &&
			strings.EqualFold(e.UserEmail, user.Email) {
			return capabilityFor(e.Role)
		}
	}

	return Capability{}
}

func capabilityFor(role string) Capability {
	return Capability{
		Role:    role,
		CanEdit: editRoles[strings.ToLower(role)],
	}
}
