package dto

import (
	"time"

	"github.com/eduapp/classroom-api/internal/models"
)

// OptionCreateRequest is one MCQ choice in an assignment creation payload.
type OptionCreateRequest struct {
	Content    string `json:"content" validate:"required"`
	IsCorrect  bool   `json:"is_correct"`
	OrderIndex int    `json:"order_index" validate:"gte=0"`
}

// QuestionCreateRequest is one question in an assignment creation payload.
type QuestionCreateRequest struct {
	Content     string                `json:"content" validate:"required"`
	CorrectText string                `json:"correct_text"`
	OrderIndex  int                   `json:"order_index" validate:"gte=0"`
	Options     []OptionCreateRequest `json:"options" validate:"omitempty,dive"`
}

// AssignmentCreateRequest creates an assignment with its nested questions.
type AssignmentCreateRequest struct {
	Title       string                  `json:"title" validate:"required,min=1,max=255"`
	Description string                  `json:"description"`
	Type        string                  `json:"type" validate:"required,oneof=mcq essay pronunciation translation_speaking tf_on_document"`
	Deadline    *time.Time              `json:"deadline"`
	Questions   []QuestionCreateRequest `json:"questions" validate:"omitempty,dive"`
}

// AssignmentUpdateRequest mutates assignment metadata. Questions are treated
// as append-only once the assignment is open, so they are not editable here.
type AssignmentUpdateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description"`
	Status      *string    `json:"status" validate:"omitempty,oneof=draft open closed"`
	Deadline    *time.Time `json:"deadline"`
}

// OptionResponse serializes an MCQ option. IsCorrect is nil in student views
// so the flag never reaches a student before submission.
type OptionResponse struct {
	ID         uint   `json:"id"`
	Content    string `json:"content"`
	IsCorrect  *bool  `json:"is_correct,omitempty"`
	OrderIndex int    `json:"order_index"`
}

// QuestionResponse serializes a question. CorrectText is empty in student views.
type QuestionResponse struct {
	ID          uint             `json:"id"`
	Content     string           `json:"content"`
	CorrectText string           `json:"correct_text,omitempty"`
	OrderIndex  int              `json:"order_index"`
	Options     []OptionResponse `json:"options"`
}

// AssignmentResponse is the full assignment shape.
type AssignmentResponse struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Type        string             `json:"type"`
	Status      string             `json:"status"`
	Deadline    *time.Time         `json:"deadline"`
	ClassroomID uint               `json:"classroom_id"`
	Questions   []QuestionResponse `json:"questions"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// AssignmentDetailResponse pairs an assignment with submission context:
// students see their own submission, teachers see every submission.
type AssignmentDetailResponse struct {
	Assignment  AssignmentResponse   `json:"assignment"`
	Submission  *SubmissionResponse  `json:"submission,omitempty"`
	Submissions []SubmissionResponse `json:"submissions,omitempty"`
}

// NewAssignmentResponse converts an Assignment model into a DTO.
// When revealAnswers is false the correct-answer fields are stripped, which
// is the student-facing view before submission.
func NewAssignmentResponse(model models.Assignment, revealAnswers bool) AssignmentResponse {
	response := AssignmentResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Type:        model.Type,
		Status:      model.Status,
		Deadline:    model.Deadline,
		ClassroomID: model.ClassroomID,
		Questions:   make([]QuestionResponse, 0, len(model.Questions)),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}

	for _, question := range model.Questions {
		q := QuestionResponse{
			ID:         question.ID,
			Content:    question.Content,
			OrderIndex: question.OrderIndex,
			Options:    make([]OptionResponse, 0, len(question.Options)),
		}
		if revealAnswers {
			q.CorrectText = question.CorrectText
		}

		for _, option := range question.Options {
			o := OptionResponse{
				ID:         option.ID,
				Content:    option.Content,
				OrderIndex: option.OrderIndex,
			}
			if revealAnswers {
				isCorrect := option.IsCorrect
				o.IsCorrect = &isCorrect
			}
			q.Options = append(q.Options, o)
		}

		response.Questions = append(response.Questions, q)
	}

	return response
}
