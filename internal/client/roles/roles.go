// Package roles classifies the raw role strings returned by the API into a
// closed set of canonical roles and derives display and authorization facts
// from them. Normalization happens once at the boundary; everything else
// consumes the typed Role value.
package roles

import "strings"

// Role is the canonical role of an account.
type Role int

const (
	User Role = iota
	Trainer
	Admin
)

// decorations removes the marker characters some records carry around the
// role name ("%Admin%", "!Entrenador!").
var decorations = strings.NewReplacer("%", "", "!", "")

// Normalize maps a raw role string to a canonical Role. Case, surrounding
// whitespace and decoration characters are not significant. Unknown or empty
// input maps to User.
func Normalize(raw string) Role {
	cleaned := decorations.Replace(strings.ToLower(strings.TrimSpace(raw)))
	switch {
	case strings.Contains(cleaned, "admin"):
		return Admin
	case strings.Contains(cleaned, "entrenador"), strings.Contains(cleaned, "trainer"):
		return Trainer
	default:
		return User
	}
}

// Label returns the display name for the role.
func (r Role) Label() string {
	switch r {
	case Admin:
		return "Admin"
	case Trainer:
		return "Trainer"
	default:
		return "User"
	}
}

// Glyph returns the decoration shown next to the role label, or "" for
// plain users.
func (r Role) Glyph() string {
	switch r {
	case Admin:
		return "👑"
	case Trainer:
		return "💪"
	default:
		return ""
	}
}

func (r Role) String() string { return r.Label() }

// IsAdmin reports whether the role grants administrative access.
func (r Role) IsAdmin() bool { return r == Admin }

// IsTrainerOrAdmin reports whether the role grants trainer-level access.
func (r Role) IsTrainerOrAdmin() bool { return r == Trainer || r == Admin }
