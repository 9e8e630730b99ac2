package models

import "time"

// Assignment types supported by the platform.
const (
	AssignmentTypeMCQ                 = "mcq"
	AssignmentTypeEssay               = "essay"
	AssignmentTypePronunciation       = "pronunciation"
	AssignmentTypeTranslationSpeaking = "translation_speaking"
	AssignmentTypeTFOnDocument        = "tf_on_document"
)

// Assignment lifecycle states.
const (
	AssignmentStatusDraft  = "draft"
	AssignmentStatusOpen   = "open"
	AssignmentStatusClosed = "closed"
)

// Assignment is a unit of work of a fixed type belonging to a classroom.
type Assignment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Type        string     `gorm:"size:32;not null" json:"type"`
	Status      string     `gorm:"size:32;not null;default:draft" json:"status"`
	Deadline    *time.Time `json:"deadline"`
	ClassroomID uint       `gorm:"not null;index" json:"classroom_id"`
	Classroom   Classroom  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"classroom"`
	CreatedByID uint       `gorm:"not null" json:"created_by_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Questions   []Question `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"questions,omitempty"`
}

// IsOpen reports whether the assignment currently accepts submissions.
func (a Assignment) IsOpen() bool {
	return a.Status == AssignmentStatusOpen
}

// IsAutoGraded reports whether submissions of this type are scored without
// human judgement.
func (a Assignment) IsAutoGraded() bool {
	return a.Type == AssignmentTypeMCQ || a.Type == AssignmentTypeTFOnDocument
}

// IsPastDeadline returns true when a deadline is set and already passed.
func (a Assignment) IsPastDeadline(reference time.Time) bool {
	return a.Deadline != nil && reference.After(*a.Deadline)
}

// Question belongs to an assignment. CorrectText holds the expected answer
// for tf_on_document questions; MCQ correctness lives on the options.
type Question struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID uint      `gorm:"not null;index" json:"assignment_id"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	CorrectText  string    `gorm:"size:512" json:"correct_text,omitempty"`
	OrderIndex   int       `gorm:"not null;default:0" json:"order_index"`
	Options      []Option  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"options,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Option is one selectable choice for an MCQ question. IsCorrect is stripped
// from student-facing views before submission.
type Option struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"is_correct"`
	OrderIndex int       `gorm:"not null;default:0" json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
