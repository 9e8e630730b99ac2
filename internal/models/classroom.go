package models

import "time"

const (
	// ClassroomStatusActive accepts new members and submissions.
	ClassroomStatusActive = "active"
	// ClassroomStatusArchived rejects joins; existing data stays readable.
	ClassroomStatusArchived = "archived"
)

// Classroom is a teacher-owned group students join with a short code.
type Classroom struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"size:255;not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	Subject     string       `gorm:"size:255" json:"subject"`
	Code        string       `gorm:"size:8;uniqueIndex;not null" json:"code"`
	Status      string       `gorm:"size:32;not null;default:active" json:"status"`
	TeacherID   uint         `gorm:"not null;index" json:"teacher_id"`
	Teacher     User         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"teacher"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Enrollments []Enrollment `json:"enrollments,omitempty"`
	Assignments []Assignment `json:"assignments,omitempty"`
}

// IsActive reports whether the classroom accepts joins and submissions.
func (c Classroom) IsActive() bool {
	return c.Status == ClassroomStatusActive
}

const (
	// EnrollmentStatusActive means the student is a current member.
	EnrollmentStatusActive = "active"
	// EnrollmentStatusWithdrawn means the student left or was removed;
	// the row is kept so a rejoin reactivates it.
	EnrollmentStatusWithdrawn = "withdrawn"
)

// Enrollment links a student to a classroom. At most one row exists per
// (student, classroom) pair; leaving a class withdraws rather than deletes.
type Enrollment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentID   uint      `gorm:"not null;uniqueIndex:idx_enrollment_student_classroom" json:"student_id"`
	ClassroomID uint      `gorm:"not null;uniqueIndex:idx_enrollment_student_classroom" json:"classroom_id"`
	Status      string    `gorm:"size:32;not null;default:active" json:"status"`
	Student     User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsActive reports whether the enrollment currently grants membership.
func (e Enrollment) IsActive() bool {
	return e.Status == EnrollmentStatusActive
}
