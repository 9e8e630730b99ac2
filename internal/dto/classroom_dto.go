package dto

import (
	"time"

	"github.com/eduapp/classroom-api/internal/models"
)

// ClassroomCreateRequest describes the payload for creating a classroom.
type ClassroomCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description"`
	Subject     string `json:"subject" validate:"omitempty,max=255"`
}

// ClassroomUpdateRequest mutates a classroom. All fields optional.
type ClassroomUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Subject     *string `json:"subject" validate:"omitempty,max=255"`
	Status      *string `json:"status" validate:"omitempty,oneof=active archived"`
}

// JoinClassroomRequest carries the 6-character join code.
type JoinClassroomRequest struct {
	Code string `json:"code" validate:"required,len=6,alphanum"`
}

// AddStudentRequest adds a student to a classroom by email.
type AddStudentRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RemoveStudentRequest withdraws a student from a classroom.
type RemoveStudentRequest struct {
	StudentID uint `json:"student_id" validate:"required,gt=0"`
}

// TeacherLite summarizes a teacher in nested responses.
type TeacherLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// StudentLite summarizes a student without exposing full profile data.
type StudentLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ClassroomResponse is the list/detail shape of a classroom.
type ClassroomResponse struct {
	ID          uint        `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Subject     string      `json:"subject,omitempty"`
	Code        string      `json:"code"`
	Status      string      `json:"status"`
	Teacher     TeacherLite `json:"teacher"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ClassroomDetailResponse extends the classroom shape with the active roster
// and assignment summaries.
type ClassroomDetailResponse struct {
	ClassroomResponse
	Students    []StudentLite       `json:"students"`
	Assignments []AssignmentSummary `json:"assignments"`
}

// AssignmentSummary is the compact assignment shape used in classroom views.
type AssignmentSummary struct {
	ID       uint       `json:"id"`
	Title    string     `json:"title"`
	Type     string     `json:"type"`
	Status   string     `json:"status"`
	Deadline *time.Time `json:"deadline"`
}

// NewClassroomResponse converts a Classroom model into a DTO.
func NewClassroomResponse(model models.Classroom) ClassroomResponse {
	response := ClassroomResponse{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Subject:     model.Subject,
		Code:        model.Code,
		Status:      model.Status,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}

	if model.Teacher.ID != 0 {
		response.Teacher = TeacherLite{
			ID:    model.Teacher.ID,
			Name:  model.Teacher.Name,
			Email: model.Teacher.Email,
		}
	} else {
		response.Teacher = TeacherLite{ID: model.TeacherID}
	}

	return response
}

// NewClassroomResponseSlice converts classroom models into DTOs.
func NewClassroomResponseSlice(classrooms []models.Classroom) []ClassroomResponse {
	responses := make([]ClassroomResponse, 0, len(classrooms))
	for _, classroom := range classrooms {
		responses = append(responses, NewClassroomResponse(classroom))
	}

	return responses
}

// NewClassroomDetailResponse converts a preloaded classroom into the detail DTO.
func NewClassroomDetailResponse(model models.Classroom) ClassroomDetailResponse {
	detail := ClassroomDetailResponse{
		ClassroomResponse: NewClassroomResponse(model),
		Students:          make([]StudentLite, 0, len(model.Enrollments)),
		Assignments:       make([]AssignmentSummary, 0, len(model.Assignments)),
	}

	for _, enrollment := range model.Enrollments {
		if enrollment.Student.ID == 0 {
			continue
		}
		detail.Students = append(detail.Students, StudentLite{
			ID:    enrollment.Student.ID,
			Name:  enrollment.Student.Name,
			Email: enrollment.Student.Email,
		})
	}

	for _, assignment := range model.Assignments {
		detail.Assignments = append(detail.Assignments, AssignmentSummary{
			ID:       assignment.ID,
			Title:    assignment.Title,
			Type:     assignment.Type,
			Status:   assignment.Status,
			Deadline: assignment.Deadline,
		})
	}

	return detail
}
