package auth

import "time"

// Role names as stored in the roles table.
const (
	RoleMember    = "MEMBER"
	RoleLibrarian = "LIBRARIAN"
	RoleAdmin     = "ADMIN"
)

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	RoleID       int64
	RoleName     string
	CreatedAt    time.Time
}

type Role struct {
	ID   int64
	Name string
}

// Principal is the authenticated caller as seen by every service: identity
// plus role, extracted from the verified token by the middleware and passed
// explicitly instead of being read from ambient request state.
type Principal struct {
	UserID int64
	Email  string
	Role   string
}
