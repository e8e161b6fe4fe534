package domain

import "time"

// Role is the closed set of privilege levels an identity can hold.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole converts s to a Role, reporting whether it is a known value.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Satisfies reports whether r grants at least the privileges of required.
// Only two levels exist today; callers must go through this instead of
// comparing roles directly.
func (r Role) Satisfies(required Role) bool {
	switch required {
	case RoleUser:
		return r == RoleUser || r == RoleAdmin
	case RoleAdmin:
		return r == RoleAdmin
	}
	return false
}

// IsAdmin reports whether r carries administrative privileges.
func (r Role) IsAdmin() bool { return r.Satisfies(RoleAdmin) }

// User is an identity stored in the backing data store.
type User struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Gender       string    `json:"gender"`
	Image        string    `json:"image"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserChanges carries the columns to write on a profile update. A nil
// pointer leaves the stored value untouched.
type UserChanges struct {
	PasswordHash *string
	Name         *string
	Username     *string
	Address      *string
	Phone        *string
	Gender       *string
	Image        *string
	Role         *Role
}

// Empty reports whether no field is set.
func (c UserChanges) Empty() bool {
	return c.PasswordHash == nil && c.Name == nil && c.Username == nil && c.Address == nil &&
		c.Phone == nil && c.Gender == nil && c.Image == nil && c.Role == nil
}
