package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/eduapp/classroom-api/internal/dto"
	"github.com/eduapp/classroom-api/internal/models"
	"github.com/eduapp/classroom-api/internal/repository"
)

// ErrAssignmentNotFound indicates the assignment does not exist.
var ErrAssignmentNotFound = errors.New("assignment not found")

// ErrQuestionsRequired indicates an auto-graded assignment was created
// without any questions to grade.
var ErrQuestionsRequired = errors.New("auto-graded assignments need at least one question")

// AssignmentService manages assignments and their question sets.
type AssignmentService interface {
	Create(ctx context.Context, principal Principal, classroomID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	// Get returns the role-appropriate view: students receive questions with
	// the correct-answer fields stripped plus their own submission; teachers
	// and admins receive the full assignment with every submission.
	Get(ctx context.Context, principal Principal, id uint) (dto.AssignmentDetailResponse, error)
	Update(ctx context.Context, principal Principal, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, principal Principal, id uint) error
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	classrooms  repository.ClassroomRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(assignments repository.AssignmentRepository, submissions repository.SubmissionRepository, classrooms repository.ClassroomRepository, validate *validator.Validate, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		submissions: submissions,
		classrooms:  classrooms,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) Create(ctx context.Context, principal Principal, classroomID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	classroom, err := s.classrooms.GetByID(ctx, classroomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrClassroomNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	if !principal.CanManageClassroom(classroom) {
		return dto.AssignmentResponse{}, ErrNotClassroomOwner
	}

	assignment := models.Assignment{
		Title:       strings.TrimSpace(payload.Title),
		Description: s.sanitizer.Sanitize(payload.Description),
		Type:        payload.Type,
		Status:      models.AssignmentStatusDraft,
		Deadline:    payload.Deadline,
		ClassroomID: classroom.ID,
		CreatedByID: principal.UserID,
		Questions:   make([]models.Question, 0, len(payload.Questions)),
	}

	for i, question := range payload.Questions {
		q := models.Question{
			Content:     s.sanitizer.Sanitize(question.Content),
			CorrectText: strings.TrimSpace(question.CorrectText),
			OrderIndex:  question.OrderIndex,
			Options:     make([]models.Option, 0, len(question.Options)),
		}
		if q.OrderIndex == 0 {
			q.OrderIndex = i
		}

		for j, option := range question.Options {
			o := models.Option{
				Content:    s.sanitizer.Sanitize(option.Content),
				IsCorrect:  option.IsCorrect,
				OrderIndex: option.OrderIndex,
			}
			if o.OrderIndex == 0 {
				o.OrderIndex = j
			}
			q.Options = append(q.Options, o)
		}

		assignment.Questions = append(assignment.Questions, q)
	}

	if assignment.IsAutoGraded() && len(assignment.Questions) == 0 {
		return dto.AssignmentResponse{}, ErrQuestionsRequired
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().
		Uint("assignment_id", assignment.ID).
		Uint("classroom_id", classroom.ID).
		Str("type", assignment.Type).
		Int("questions", len(assignment.Questions)).
		Msg("assignment created")

	return dto.NewAssignmentResponse(assignment, true), nil
}

func (s *assignmentService) Get(ctx context.Context, principal Principal, id uint) (dto.AssignmentDetailResponse, error) {
	assignment, err := s.assignments.GetWithQuestions(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentDetailResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentDetailResponse{}, err
	}

	if principal.IsStudent() {
		detail := dto.AssignmentDetailResponse{
			Assignment: dto.NewAssignmentResponse(assignment, false),
		}

		submission, err := s.submissions.GetByAssignmentAndStudent(ctx, assignment.ID, principal.UserID)
		if err == nil {
			response := dto.NewSubmissionResponse(submission)
			detail.Submission = &response
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentDetailResponse{}, err
		}

		return detail, nil
	}

	if !principal.CanManageClassroom(assignment.Classroom) {
		return dto.AssignmentDetailResponse{}, ErrNotClassroomOwner
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{AssignmentID: &assignment.ID})
	if err != nil {
		return dto.AssignmentDetailResponse{}, err
	}

	return dto.AssignmentDetailResponse{
		Assignment:  dto.NewAssignmentResponse(assignment, true),
		Submissions: dto.NewSubmissionResponseSlice(submissions),
	}, nil
}

func (s *assignmentService) Update(ctx context.Context, principal Principal, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	if !principal.CanManageClassroom(assignment.Classroom) {
		return dto.AssignmentResponse{}, ErrNotClassroomOwner
	}

	if payload.Title != nil {
		assignment.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Description != nil {
		assignment.Description = s.sanitizer.Sanitize(*payload.Description)
	}
	if payload.Status != nil {
		assignment.Status = *payload.Status
	}
	if payload.Deadline != nil {
		assignment.Deadline = payload.Deadline
	}

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Str("status", assignment.Status).Msg("assignment updated")

	return dto.NewAssignmentResponse(assignment, true), nil
}

func (s *assignmentService) Delete(ctx context.Context, principal Principal, id uint) error {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	if !principal.CanManageClassroom(assignment.Classroom) {
		return ErrNotClassroomOwner
	}

	if err := s.assignments.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Uint("assignment_id", id).Msg("assignment deleted")

	return nil
}
