package domain

import "time"

// Role identifiers persisted on each user record.
const (
	RoleAdmin = 1
	RoleUser  = 2
)

// Authorities derived from the role identifier at authentication time.
const (
	AuthorityAdmin = "ADMIN"
	AuthorityUser  = "USER"
)

// User is the identity record stored by the user repository.
// Passwords are only ever stored as bcrypt hashes. A non-nil DeletedAt marks
// the record soft-deleted; queries must exclude such rows.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	RoleID       int        `json:"role_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
}

// Authority maps the stored role id to the single authority granted per
// request. Any role other than admin degrades to the standard user authority.
func (u *User) Authority() string {
	if u.RoleID == RoleAdmin {
		return AuthorityAdmin
	}
	return AuthorityUser
}

// Principal is the authenticated identity attached to a request after the
// bearer token has been validated and its subject resolved. It carries
// exactly one authority and is discarded at the end of the request.
type Principal struct {
	User        *User
	Authorities []string
}

// NewPrincipal builds a Principal for the given user.
func NewPrincipal(u *User) *Principal {
	return &Principal{User: u, Authorities: []string{u.Authority()}}
}

// HasAuthority reports whether the principal holds the given authority.
func (p *Principal) HasAuthority(authority string) bool {
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}
