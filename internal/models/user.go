package models

import (
	"strings"
	"time"
)

// User roles. Everyone registers as a guest; admins are promoted out of band.
const (
	RoleGuest = "guest"
	RoleAdmin = "admin"
)

// BlockState is the effective block status of an account. The stored pair
// (is_blocked, blocked_until) is ambiguous on its own: a NULL blocked_until
// means "permanent" while blocked and "not blocked" otherwise. Callers must
// go through User.BlockState instead of reading the columns directly.
type BlockState int

const (
	Unblocked BlockState = iota
	TemporarilyBlocked
	PermanentlyBlocked
)

type User struct {
	ID           int        `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"unique;not null" json:"username"`
	UsernameLC   string     `gorm:"column:username_lc;uniqueIndex" json:"-"` // normalized lowercase form for lookup
	Password     string     `gorm:"not null" json:"-"`
	Role         string     `gorm:"default:guest" json:"role"`
	Karma        int        `gorm:"default:1" json:"karma"`
	About        string     `gorm:"size:1000" json:"about"`
	IsBlocked    bool       `gorm:"default:false" json:"is_blocked"`
	BlockedUntil *time.Time `json:"blocked_until,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// BlockState resolves the stored block columns at the given instant. An
// expired temporary block counts as Unblocked; the caller may clear the
// columns lazily or leave them for the hourly sweep.
func (u *User) BlockState(now time.Time) BlockState {
	if !u.IsBlocked {
		return Unblocked
	}
	if u.BlockedUntil == nil {
		return PermanentlyBlocked
	}
	if u.BlockedUntil.After(now) {
		return TemporarilyBlocked
	}
	return Unblocked
}

// NormalizeUsername produces the lookup form stored in username_lc.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
