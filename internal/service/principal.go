package service

import "github.com/eduapp/classroom-api/internal/models"

// Principal identifies the authenticated caller of a service operation.
// It is passed explicitly into every operation; services never read identity
// from ambient state.
type Principal struct {
	UserID uint
	Role   string
}

// IsStudent reports whether the principal is a student account.
func (p Principal) IsStudent() bool {
	return p.Role == models.RoleStudent
}

// IsTeacher reports whether the principal is a teacher account.
func (p Principal) IsTeacher() bool {
	return p.Role == models.RoleTeacher
}

// IsAdmin reports whether the principal holds the administrative override role.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// IsStaff reports whether the principal is an admin or manager.
func (p Principal) IsStaff() bool {
	return p.Role == models.RoleAdmin || p.Role == models.RoleManager
}

// CanManageClassroom reports whether the principal owns the classroom or may
// override ownership.
func (p Principal) CanManageClassroom(classroom models.Classroom) bool {
	return classroom.TeacherID == p.UserID || p.IsAdmin()
}
