package dto

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/eduapp/classroom-api/internal/models"
)

// AnswerPayload is one answer in a submit request.
type AnswerPayload struct {
	QuestionID        uint            `json:"question_id" validate:"required,gt=0"`
	SelectedOptionIDs []uint          `json:"selected_option_ids"`
	TextContent       string          `json:"text_content"`
	AudioURL          string          `json:"audio_url" validate:"omitempty,url"`
	DocumentLabels    map[string]bool `json:"document_labels"`
}

// SubmitAssignmentRequest carries a student's answer set. IsDraft saves the
// set without finalizing the submission.
type SubmitAssignmentRequest struct {
	Answers []AnswerPayload `json:"answers" validate:"required,dive"`
	IsDraft bool            `json:"is_draft"`
}

// GradeSubmissionRequest is the manual grading payload.
type GradeSubmissionRequest struct {
	Score    *float64 `json:"score" validate:"required,gte=0"`
	MaxScore *float64 `json:"max_score" validate:"required,gte=0"`
	Feedback string   `json:"feedback"`
}

// ScoreDetails summarizes an auto-graded result.
type ScoreDetails struct {
	CorrectAnswers int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
	ScoreOutOf10   float64 `json:"score_out_of_10"`
}

// SubmitResult is returned from a save-or-submit call. Score and Details are
// only present for finalized auto-graded submissions.
type SubmitResult struct {
	Submission SubmissionResponse `json:"submission"`
	Score      *float64           `json:"score,omitempty"`
	Details    *ScoreDetails      `json:"details,omitempty"`
}

// SubmissionListFilter describes query string filters for listing submissions.
type SubmissionListFilter struct {
	AssignmentID *uint   `query:"assignment_id"`
	StudentID    *uint   `query:"student_id"`
	Status       *string `query:"status" validate:"omitempty,oneof=in_progress submitted graded"`
}

// AnswerResponse serializes a stored answer.
type AnswerResponse struct {
	QuestionID        uint            `json:"question_id"`
	SelectedOptionIDs []uint          `json:"selected_option_ids"`
	TextContent       string          `json:"text_content,omitempty"`
	AudioURL          string          `json:"audio_url,omitempty"`
	DocumentLabels    map[string]bool `json:"document_labels,omitempty"`
	Score             *float64        `json:"score"`
	MaxScore          *float64        `json:"max_score"`
}

// FeedbackResponse serializes teacher feedback on a graded submission.
type FeedbackResponse struct {
	Comment   string      `json:"comment"`
	Teacher   TeacherLite `json:"teacher"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// AssignmentLite summarizes an assignment in submission responses.
type AssignmentLite struct {
	ID       uint       `json:"id"`
	Title    string     `json:"title"`
	Type     string     `json:"type"`
	Deadline *time.Time `json:"deadline"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID           uint              `json:"id"`
	AssignmentID uint              `json:"assignment_id"`
	StudentID    uint              `json:"student_id"`
	Status       string            `json:"status"`
	Score        *float64          `json:"score"`
	MaxScore     *float64          `json:"max_score"`
	SubmittedAt  *time.Time        `json:"submitted_at"`
	GradedAt     *time.Time        `json:"graded_at"`
	Answers      []AnswerResponse  `json:"answers,omitempty"`
	Feedback     *FeedbackResponse `json:"feedback,omitempty"`
	Assignment   AssignmentLite    `json:"assignment"`
	Student      StudentLite       `json:"student"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		Status:       model.Status,
		Score:        model.Score,
		MaxScore:     model.MaxScore,
		SubmittedAt:  model.SubmittedAt,
		GradedAt:     model.GradedAt,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}

	if model.Assignment.ID != 0 {
		response.Assignment = AssignmentLite{
			ID:       model.Assignment.ID,
			Title:    model.Assignment.Title,
			Type:     model.Assignment.Type,
			Deadline: model.Assignment.Deadline,
		}
	}

	if model.Student.ID != 0 {
		response.Student = StudentLite{
			ID:    model.Student.ID,
			Name:  model.Student.Name,
			Email: model.Student.Email,
		}
	}

	if len(model.Answers) > 0 {
		response.Answers = make([]AnswerResponse, 0, len(model.Answers))
		for _, answer := range model.Answers {
			response.Answers = append(response.Answers, NewAnswerResponse(answer))
		}
	}

	if model.Feedback != nil && model.Feedback.ID != 0 {
		feedback := FeedbackResponse{
			Comment:   model.Feedback.Comment,
			UpdatedAt: model.Feedback.UpdatedAt,
		}
		if model.Feedback.Teacher.ID != 0 {
			feedback.Teacher = TeacherLite{
				ID:   model.Feedback.Teacher.ID,
				Name: model.Feedback.Teacher.Name,
			}
		} else {
			feedback.Teacher = TeacherLite{ID: model.Feedback.TeacherID}
		}
		response.Feedback = &feedback
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}

// NewAnswerResponse converts an Answer model into a DTO.
func NewAnswerResponse(model models.Answer) AnswerResponse {
	return AnswerResponse{
		QuestionID:        model.QuestionID,
		SelectedOptionIDs: OptionIDsFromJSON(model.SelectedOptionIDs),
		TextContent:       model.TextContent,
		AudioURL:          model.AudioURL,
		DocumentLabels:    boolMapFromJSON(model.DocumentLabels),
		Score:             model.Score,
		MaxScore:          model.MaxScore,
	}
}

// OptionIDsToJSON serializes a selected-option-id set for storage.
func OptionIDsToJSON(ids []uint) datatypes.JSON {
	if ids == nil {
		ids = []uint{}
	}
	payload, err := json.Marshal(ids)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(payload)
}

// OptionIDsFromJSON decodes a stored selected-option-id set.
func OptionIDsFromJSON(data datatypes.JSON) []uint {
	if len(data) == 0 {
		return []uint{}
	}
	var ids []uint
	if err := json.Unmarshal(data, &ids); err != nil {
		return []uint{}
	}
	return ids
}

// BoolMapToJSON serializes document labels for storage.
func BoolMapToJSON(labels map[string]bool) datatypes.JSONMap {
	if len(labels) == 0 {
		return nil
	}
	result := make(datatypes.JSONMap, len(labels))
	for key, value := range labels {
		result[key] = value
	}
	return result
}

func boolMapFromJSON(data datatypes.JSONMap) map[string]bool {
	if len(data) == 0 {
		return nil
	}
	result := make(map[string]bool, len(data))
	for key, value := range data {
		if flag, ok := value.(bool); ok {
			result[key] = flag
		}
	}
	return result
}
