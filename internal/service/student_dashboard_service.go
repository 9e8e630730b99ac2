package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/eduapp/classroom-api/internal/dto"
	"github.com/eduapp/classroom-api/internal/models"
	"github.com/eduapp/classroom-api/internal/repository"
)

// StudentDashboardService aggregates a student's assignment progress across
// all active enrollments.
type StudentDashboardService interface {
	Overview(ctx context.Context, principal Principal) (dto.StudentDashboardResponse, error)
}

type studentDashboardService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewStudentDashboardService constructs a StudentDashboardService. The cache
// client may be nil, in which case every call recomputes the overview.
func NewStudentDashboardService(assignments repository.AssignmentRepository, submissions repository.SubmissionRepository, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) StudentDashboardService {
	return &studentDashboardService{
		assignments: assignments,
		submissions: submissions,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger.With().Str("component", "student_dashboard_service").Logger(),
		now:         time.Now,
	}
}

func (s *studentDashboardService) Overview(ctx context.Context, principal Principal) (dto.StudentDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:student:%d", principal.UserID)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.StudentDashboardResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("dashboard cache read failed")
		}
	}

	response, err := s.buildOverview(ctx, principal.UserID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	if s.cache != nil {
		encoded, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, encoded, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("dashboard cache write failed")
			}
		}
	}

	return response, nil
}

func (s *studentDashboardService) buildOverview(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error) {
	assignments, err := s.assignments.ListOpenForStudent(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{StudentID: &studentID})
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	submissionByAssignment := make(map[uint]models.Submission, len(submissions))
	for _, submission := range submissions {
		submissionByAssignment[submission.AssignmentID] = submission
	}

	response := dto.StudentDashboardResponse{
		Assignments: make([]dto.AssignmentProgress, 0, len(assignments)),
		GeneratedAt: s.now(),
	}
	response.Summary.TotalAssignments = len(assignments)

	var scoreSum float64
	var scoreCount int

	for _, assignment := range assignments {
		progress := dto.AssignmentProgress{
			AssignmentID: assignment.ID,
			Title:        assignment.Title,
			Type:         assignment.Type,
			ClassroomID:  assignment.ClassroomID,
			Deadline:     assignment.Deadline,
			Status:       "pending",
		}

		if submission, ok := submissionByAssignment[assignment.ID]; ok {
			progress.Status = submission.Status
			progress.Score = submission.Score
			progress.SubmittedAt = submission.SubmittedAt
		}

		switch progress.Status {
		case models.SubmissionStatusInProgress:
			response.Summary.InProgress++
		case models.SubmissionStatusSubmitted:
			response.Summary.Submitted++
		case models.SubmissionStatusGraded:
			response.Summary.Graded++
		default:
			response.Summary.Pending++
		}

		if progress.Status == models.SubmissionStatusGraded && progress.Score != nil {
			scoreSum += *progress.Score
			scoreCount++
		}

		response.Assignments = append(response.Assignments, progress)
	}

	if scoreCount > 0 {
		average := round2(scoreSum / float64(scoreCount))
		response.AverageScore = &average
	}

	return response, nil
}
