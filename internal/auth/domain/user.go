package domain

import "time"

// User is the identity record. The username is system-generated at
// registration and, like the id and timestamps, never client-settable.
type User struct {
	ID          int
	Email       string
	Username    string
	HashedPwd   string
	FirstName   string
	LastName    string
	IsActive    bool
	IsAdmin     bool
	IsSuperuser bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Login log statuses.
const (
	LoginStatusSuccess = "Success"
	LoginStatusFailed  = "Failed"
)

// LoginLog is an append-only audit row written once per authentication
// attempt. UserID is nil when the attempted username did not resolve.
type LoginLog struct {
	ID         int
	LoggedInAt time.Time
	UserID     *int
	ClientHost string
	Status     string
}

// UserUpdate carries the partially-settable user fields. Nil pointers
// mean "leave unchanged". Id, username, timestamps, and the superuser
// flag are not representable here and so cannot be changed through the
// update path, whoever the caller is.
type UserUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	IsActive  *bool
	IsAdmin   *bool
}

// Empty reports whether the update would touch nothing.
func (u UserUpdate) Empty() bool {
	return u.Email == nil && u.FirstName == nil && u.LastName == nil &&
		u.IsActive == nil && u.IsAdmin == nil
}
