package users

import (
	"bytes"
	"context"
	"time"
)

const entity = "user"

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u User) clone() User {
	u.PasswordHash = bytes.Clone(u.PasswordHash)
	return u
}

// Draft carries the caller-supplied fields of a user. An empty Password
// on update keeps the stored one. Role is only honoured on create.
type Draft struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      Role
}

type Store interface {
	Ping(ctx context.Context) error

	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id string) (User, bool, error)
	GetByUsername(ctx context.Context, username string) (User, bool, error)
	GetByEmail(ctx context.Context, email string) (User, bool, error)

	Create(ctx context.Context, d Draft) (User, error)
	Update(ctx context.Context, id string, d Draft) (User, error)
	Delete(ctx context.Context, id string) error

	// Authenticate reports ok=false when the username is unknown or the
	// password does not match.
	Authenticate(ctx context.Context, username, password string) (User, bool, error)
}
