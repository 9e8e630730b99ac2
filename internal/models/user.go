package models

import "time"

// Role values assignable to a user account.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

const (
	// UserStatusActive marks an account that may sign in.
	UserStatusActive = "active"
	// UserStatusSuspended marks an account blocked by an administrator.
	UserStatusSuspended = "suspended"
)

// User represents an account in the system (admin, manager, teacher or student).
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      string    `gorm:"size:32;not null;default:student" json:"role"`
	Status    string    `gorm:"size:32;not null;default:active" json:"status"`
	AvatarURL string    `gorm:"size:512" json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the account may authenticate.
func (u User) IsActive() bool {
	return u.Status == UserStatusActive
}

// CanGrade reports whether the account role is allowed to grade submissions.
func (u User) CanGrade() bool {
	return u.Role == RoleTeacher || u.Role == RoleAdmin
}
