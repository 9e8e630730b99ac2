package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/eduapp/classroom-api/internal/dto"
	"github.com/eduapp/classroom-api/internal/models"
	"github.com/eduapp/classroom-api/internal/observability"
	"github.com/eduapp/classroom-api/internal/repository"
)

// ErrScoreExceedsMax indicates the awarded score is above the maximum.
var ErrScoreExceedsMax = errors.New("score exceeds max score")

// ErrNotSubmitted indicates the submission has not been finalized yet.
var ErrNotSubmitted = errors.New("submission not submitted")

// ErrNotGrader indicates the caller may not grade this submission.
var ErrNotGrader = errors.New("not allowed to grade submission")

// GradingService applies teacher scores and feedback to finalized
// submissions. Grading is idempotent at the feedback level: repeating it
// overwrites the previous score and feedback rather than stacking new rows.
type GradingService interface {
	Grade(ctx context.Context, principal Principal, submissionID uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error)
}

type gradingService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	tracer      trace.Tracer
	logger      zerolog.Logger
	now         func() time.Time
}

// NewGradingService constructs a GradingService instance.
func NewGradingService(submissions repository.SubmissionRepository, assignments repository.AssignmentRepository, validate *validator.Validate, logger zerolog.Logger) GradingService {
	return &gradingService{
		submissions: submissions,
		assignments: assignments,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		tracer:      otel.Tracer("grading-service"),
		logger:      logger.With().Str("component", "grading_service").Logger(),
		now:         time.Now,
	}
}

func (s *gradingService) Grade(ctx context.Context, principal Principal, submissionID uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "GradingService.Grade",
		trace.WithAttributes(
			attribute.Int64("submission.id", int64(submissionID)),
			attribute.Int64("grader.id", int64(principal.UserID)),
		))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}
	if *payload.Score > *payload.MaxScore {
		return dto.SubmissionResponse{}, ErrScoreExceedsMax
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if submission.Status == models.SubmissionStatusInProgress {
		return dto.SubmissionResponse{}, ErrNotSubmitted
	}

	assignment, err := s.assignments.GetByID(ctx, submission.AssignmentID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	if !s.canGrade(principal, assignment) {
		return dto.SubmissionResponse{}, ErrNotGrader
	}

	now := s.now()
	submission.Score = payload.Score
	submission.MaxScore = payload.MaxScore
	submission.Status = models.SubmissionStatusGraded
	submission.GradedAt = &now

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if comment := strings.TrimSpace(s.sanitizer.Sanitize(payload.Feedback)); comment != "" {
		feedback := models.Feedback{
			SubmissionID: submission.ID,
			TeacherID:    principal.UserID,
			Comment:      comment,
		}
		if err := s.submissions.UpsertFeedback(ctx, &feedback); err != nil {
			return dto.SubmissionResponse{}, err
		}
	}

	graded, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	observability.Gradings().Inc()
	span.SetAttributes(attribute.Float64("submission.score", *payload.Score))

	s.logger.Info().
		Uint("submission_id", graded.ID).
		Uint("grader_id", principal.UserID).
		Float64("score", *payload.Score).
		Msg("submission graded")

	return dto.NewSubmissionResponse(graded), nil
}

func (s *gradingService) canGrade(principal Principal, assignment models.Assignment) bool {
	if principal.IsAdmin() {
		return true
	}
	return principal.IsTeacher() && assignment.Classroom.TeacherID == principal.UserID
}
