// Package domain holds the journal workflow types and rules: roles,
// manuscript statuses, issue labels, and the scheduling admission check.
package domain

// Role identifies which command grammar a logged-in user gets.
type Role int

const (
	// RoleInvalid represents an unresolved or rejected login.
	RoleInvalid Role = iota
	// RoleAdmin can inspect counts and rebuild the database.
	RoleAdmin
	// RoleAuthor can register and submit manuscripts.
	RoleAuthor
	// RoleEditor drives the manuscript lifecycle.
	RoleEditor
	// RoleReviewer sees manuscripts assigned to them.
	RoleReviewer
)

// ParseRole maps a stored role tag to a Role. Unknown tags map to
// RoleInvalid.
func ParseRole(tag string) Role {
	switch tag {
	case "admin":
		return RoleAdmin
	case "author":
		return RoleAuthor
	case "editor":
		return RoleEditor
	case "reviewer":
		return RoleReviewer
	default:
		return RoleInvalid
	}
}

// Tag returns the stored role tag for a Role.
func (r Role) Tag() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleAuthor:
		return "author"
	case RoleEditor:
		return "editor"
	case RoleReviewer:
		return "reviewer"
	default:
		return ""
	}
}

// String returns the prompt-facing role name.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleAuthor:
		return "Author"
	case RoleEditor:
		return "Editor"
	case RoleReviewer:
		return "Reviewer"
	default:
		return "Invalid"
	}
}
