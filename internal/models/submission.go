package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission lifecycle states. Transitions only move forward:
// in_progress -> submitted -> graded.
const (
	SubmissionStatusInProgress = "in_progress"
	SubmissionStatusSubmitted  = "submitted"
	SubmissionStatusGraded     = "graded"
)

// Submission is a student's attempt record for one assignment. The composite
// unique index enforces the one-submission-per-(student, assignment)
// invariant at the storage layer, serializing racing submits.
type Submission struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	AssignmentID uint       `gorm:"not null;uniqueIndex:idx_submission_student_assignment" json:"assignment_id"`
	StudentID    uint       `gorm:"not null;uniqueIndex:idx_submission_student_assignment" json:"student_id"`
	Status       string     `gorm:"size:32;not null;default:in_progress" json:"status"`
	Score        *float64   `json:"score"`
	MaxScore     *float64   `json:"max_score"`
	SubmittedAt  *time.Time `json:"submitted_at"`
	GradedAt     *time.Time `json:"graded_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Assignment   Assignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"assignment"`
	Student      User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	Answers      []Answer   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"answers,omitempty"`
	Feedback     *Feedback  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"feedback,omitempty"`
}

// IsFinalized reports whether the student may no longer change the submission.
func (s Submission) IsFinalized() bool {
	return s.Status == SubmissionStatusSubmitted || s.Status == SubmissionStatusGraded
}

// IsGraded reports whether the submission carries a final grade.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}

// Answer holds a student's response to one question. The full answer set is
// replaced in a single transaction on every save; the composite unique index
// keeps one row per (submission, question).
type Answer struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	SubmissionID      uint              `gorm:"not null;uniqueIndex:idx_answer_submission_question" json:"submission_id"`
	QuestionID        uint              `gorm:"not null;uniqueIndex:idx_answer_submission_question" json:"question_id"`
	SelectedOptionIDs datatypes.JSON    `gorm:"type:json" json:"selected_option_ids"`
	TextContent       string            `gorm:"type:text" json:"text_content"`
	AudioURL          string            `gorm:"size:512" json:"audio_url"`
	DocumentLabels    datatypes.JSONMap `gorm:"type:json" json:"document_labels,omitempty"`
	Score             *float64          `json:"score"`
	MaxScore          *float64          `json:"max_score"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// Feedback is a teacher comment attached to a graded submission. At most one
// row exists per submission; re-grading overwrites it.
type Feedback struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"not null;uniqueIndex" json:"submission_id"`
	TeacherID    uint      `gorm:"not null" json:"teacher_id"`
	Comment      string    `gorm:"type:text;not null" json:"comment"`
	Teacher      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"teacher"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
