package model

import "time"

// Roles recognised by the authorization middleware. They are stored
// verbatim in the users.role column and in the JWT "role" claim.
const (
	RoleCustomer  = "CUSTOMER"
	RoleOrganizer = "ORGANIZER"
	RoleAdmin     = "ADMIN"
)

// User represents an application user record as stored in the `users`
// table. Passwords are stored only as bcrypt hashes. Handlers expose
// separate response types with JSON tags; this struct mirrors columns.
// IsActive turns false on soft delete and blocks future logins.
type User struct {
	ID           string    // users.id
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Phone        string    // users.phone
	State        string    // users.state
	Country      string    // users.country
	Role         string    // users.role
	IsSubscribed bool      // users.is_subscribed
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// FullName joins first and last name for email salutations and PDF tickets.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
