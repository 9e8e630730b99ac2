package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/eduapp/classroom-api/internal/dto"
	"github.com/eduapp/classroom-api/internal/models"
	"github.com/eduapp/classroom-api/internal/observability"
	"github.com/eduapp/classroom-api/internal/repository"
)

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrAssignmentNotOpen indicates the assignment does not accept submissions.
var ErrAssignmentNotOpen = errors.New("assignment not open")

// ErrDeadlinePassed indicates the deadline forbids a final submit.
var ErrDeadlinePassed = errors.New("deadline passed")

// ErrAlreadySubmitted indicates the submission was already finalized.
var ErrAlreadySubmitted = errors.New("submission already finalized")

// ErrNotSubmissionViewer indicates the caller may not read the submission.
var ErrNotSubmissionViewer = errors.New("not allowed to view submission")

// SubmissionService is the submission lifecycle manager: it accepts a
// student's answer set, transitions the submission forward
// (in_progress -> submitted -> graded) and computes automatic scores for
// objective assignment types.
type SubmissionService interface {
	SaveOrSubmit(ctx context.Context, principal Principal, assignmentID uint, payload dto.SubmitAssignmentRequest) (dto.SubmitResult, error)
	Get(ctx context.Context, principal Principal, id uint) (dto.SubmissionResponse, error)
	List(ctx context.Context, principal Principal, filter dto.SubmissionListFilter) ([]dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	enrollments repository.EnrollmentRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(submissions repository.SubmissionRepository, assignments repository.AssignmentRepository, enrollments repository.EnrollmentRepository, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		assignments: assignments,
		enrollments: enrollments,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) SaveOrSubmit(ctx context.Context, principal Principal, assignmentID uint, payload dto.SubmitAssignmentRequest) (dto.SubmitResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmitResult{}, err
	}

	assignment, err := s.assignments.GetWithQuestions(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmitResult{}, ErrAssignmentNotFound
		}
		return dto.SubmitResult{}, err
	}

	if !assignment.IsOpen() {
		return dto.SubmitResult{}, ErrAssignmentNotOpen
	}

	enrolled, err := s.enrollments.ActiveExists(ctx, principal.UserID, assignment.ClassroomID)
	if err != nil {
		return dto.SubmitResult{}, err
	}
	if !enrolled {
		return dto.SubmitResult{}, ErrNotEnrolled
	}

	now := s.now()
	if !payload.IsDraft && assignment.IsPastDeadline(now) {
		return dto.SubmitResult{}, ErrDeadlinePassed
	}

	submission, err := s.submissions.GetByAssignmentAndStudent(ctx, assignment.ID, principal.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmitResult{}, err
		}
		submission = models.Submission{
			AssignmentID: assignment.ID,
			StudentID:    principal.UserID,
		}
	} else if submission.IsFinalized() {
		return dto.SubmitResult{}, ErrAlreadySubmitted
	}

	// The payload may carry duplicate question ids; the last occurrence
	// wins, mirroring a student re-answering before saving.
	answers := dedupeAnswers(payload.Answers)
	grading := gradeAnswers(assignment, answers, payload.IsDraft)

	if payload.IsDraft {
		submission.Status = models.SubmissionStatusInProgress
		submission.SubmittedAt = nil
		submission.Score = nil
		submission.MaxScore = nil
	} else {
		submission.Status = models.SubmissionStatusSubmitted
		submission.SubmittedAt = &now
		submission.Score = grading.finalScore
		submission.MaxScore = grading.maxScore
	}

	if err := s.submissions.SaveWithAnswers(ctx, &submission, grading.answers); err != nil {
		return dto.SubmitResult{}, err
	}

	saved, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmitResult{}, err
	}

	result := dto.SubmitResult{Submission: dto.NewSubmissionResponse(saved)}

	kind := "final"
	if payload.IsDraft {
		kind = "draft"
	}
	observability.Submissions().WithLabelValues(kind).Inc()

	if grading.details != nil {
		result.Score = grading.finalScore
		result.Details = grading.details
		observability.AutoGradeScores().Observe(grading.details.ScoreOutOf10)
	}

	s.logger.Info().
		Uint("submission_id", saved.ID).
		Uint("assignment_id", assignment.ID).
		Uint("student_id", principal.UserID).
		Bool("draft", payload.IsDraft).
		Msg("answers saved")

	return result, nil
}

func (s *submissionService) Get(ctx context.Context, principal Principal, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if !s.canView(ctx, principal, submission) {
		return dto.SubmissionResponse{}, ErrNotSubmissionViewer
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) List(ctx context.Context, principal Principal, filter dto.SubmissionListFilter) ([]dto.SubmissionResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	repoFilter := repository.SubmissionFilter{
		AssignmentID: filter.AssignmentID,
		StudentID:    filter.StudentID,
		Status:       filter.Status,
	}

	// Students only ever see their own submissions.
	if principal.IsStudent() {
		studentID := principal.UserID
		repoFilter.StudentID = &studentID
	}

	submissions, err := s.submissions.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) canView(ctx context.Context, principal Principal, submission models.Submission) bool {
	if submission.StudentID == principal.UserID || principal.IsAdmin() {
		return true
	}

	if !principal.IsTeacher() {
		return false
	}

	assignment, err := s.assignments.GetByID(ctx, submission.AssignmentID)
	if err != nil {
		return false
	}

	return assignment.Classroom.TeacherID == principal.UserID
}

type gradingResult struct {
	answers    []models.Answer
	finalScore *float64
	maxScore   *float64
	details    *dto.ScoreDetails
}

// dedupeAnswers keeps the last occurrence per question id, preserving the
// order of first appearance.
func dedupeAnswers(payload []dto.AnswerPayload) []dto.AnswerPayload {
	position := make(map[uint]int, len(payload))
	deduped := make([]dto.AnswerPayload, 0, len(payload))

	for _, answer := range payload {
		if idx, seen := position[answer.QuestionID]; seen {
			deduped[idx] = answer
			continue
		}
		position[answer.QuestionID] = len(deduped)
		deduped = append(deduped, answer)
	}

	return deduped
}

// gradeAnswers converts the answer payload into persistable rows and, for a
// finalized auto-graded submission, computes per-answer and overall scores.
// Answers referencing unknown questions are discarded; questions left
// unanswered count toward the denominator only.
func gradeAnswers(assignment models.Assignment, payload []dto.AnswerPayload, isDraft bool) gradingResult {
	questionByID := make(map[uint]models.Question, len(assignment.Questions))
	for _, question := range assignment.Questions {
		questionByID[question.ID] = question
	}

	autoGrade := assignment.IsAutoGraded() && !isDraft
	result := gradingResult{answers: make([]models.Answer, 0, len(payload))}
	correct := 0

	for _, answer := range payload {
		question, ok := questionByID[answer.QuestionID]
		if !ok {
			continue
		}

		row := models.Answer{
			QuestionID:        answer.QuestionID,
			SelectedOptionIDs: dto.OptionIDsToJSON(answer.SelectedOptionIDs),
			TextContent:       answer.TextContent,
			AudioURL:          answer.AudioURL,
			DocumentLabels:    dto.BoolMapToJSON(answer.DocumentLabels),
		}

		if autoGrade {
			score := 0.0
			if isAnswerCorrect(assignment.Type, question, answer) {
				score = 1.0
				correct++
			}
			maxScore := 1.0
			row.Score = &score
			row.MaxScore = &maxScore
		}

		result.answers = append(result.answers, row)
	}

	if !autoGrade {
		return result
	}

	total := len(assignment.Questions)
	if total == 0 {
		// Nothing to grade; leave the score undefined.
		return result
	}

	scoreOutOf10 := round2(float64(correct) / float64(total) * 10)
	maxScore := 10.0

	result.finalScore = &scoreOutOf10
	result.maxScore = &maxScore
	result.details = &dto.ScoreDetails{
		CorrectAnswers: correct,
		TotalQuestions: total,
		ScoreOutOf10:   scoreOutOf10,
	}

	return result
}

func isAnswerCorrect(assignmentType string, question models.Question, answer dto.AnswerPayload) bool {
	switch assignmentType {
	case models.AssignmentTypeMCQ:
		return selectionMatchesCorrectSet(question.Options, answer.SelectedOptionIDs)
	case models.AssignmentTypeTFOnDocument:
		if question.CorrectText == "" || strings.TrimSpace(answer.TextContent) == "" {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(answer.TextContent), strings.TrimSpace(question.CorrectText))
	default:
		return false
	}
}

// selectionMatchesCorrectSet checks exact set equality between the student's
// selected option ids and the options flagged correct. Order does not matter.
func selectionMatchesCorrectSet(options []models.Option, selected []uint) bool {
	correctIDs := make(map[uint]bool)
	for _, option := range options {
		if option.IsCorrect {
			correctIDs[option.ID] = true
		}
	}

	chosen := make(map[uint]bool, len(selected))
	for _, id := range selected {
		chosen[id] = true
	}

	if len(chosen) != len(correctIDs) {
		return false
	}

	for id := range chosen {
		if !correctIDs[id] {
			return false
		}
	}

	return true
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
