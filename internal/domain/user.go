package domain

import "time"

type Role string

const (
	RolePatron    Role = "PATRON"
	RoleLibrarian Role = "LIBRARIAN"
)

type User struct {
	ID           int32     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}

// Actor is the already-authenticated caller identity passed into every
// service operation. The request layer builds it from token claims; services
// never look at tokens themselves.
type Actor struct {
	UserID int32
	Role   Role
}

func (a Actor) IsLibrarian() bool {
	return a.Role == RoleLibrarian
}

// Owns reports whether the actor is the owner of a record belonging to userID.
func (a Actor) Owns(userID int32) bool {
	return a.UserID == userID
}
