package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eduapp/classroom-api/internal/dto"
	"github.com/eduapp/classroom-api/internal/models"
	"github.com/eduapp/classroom-api/internal/repository"
)

func setupAssignmentService(t *testing.T, db *gorm.DB) AssignmentService {
	t.Helper()

	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewAssignmentService(
		repository.NewAssignmentRepository(db),
		repository.NewSubmissionRepository(db),
		repository.NewClassroomRepository(db),
		validate,
		zerolog.Nop(),
	)
}

func TestAssignmentServiceCreateWithQuestions(t *testing.T) {
	db := setupSubmissionDB(t, "assignment_create")
	svc := setupAssignmentService(t, db)
	fixture := seedMCQAssignment(t, db)

	created, err := svc.Create(context.Background(), Principal{UserID: fixture.teacher.ID, Role: models.RoleTeacher}, fixture.classroom.ID, dto.AssignmentCreateRequest{
		Title:       "Grammar Quiz",
		Description: `Read <script>alert("x")</script>carefully`,
		Type:        models.AssignmentTypeMCQ,
		Questions: []dto.QuestionCreateRequest{
			{
				Content: "Pick the verb",
				Options: []dto.OptionCreateRequest{
					{Content: "run", IsCorrect: true},
					{Content: "blue"},
				},
			},
			{
				Content: "Pick the noun",
				Options: []dto.OptionCreateRequest{
					{Content: "table", IsCorrect: true},
					{Content: "quickly"},
				},
			},
		},
	})
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusDraft, created.Status)
	require.NotContains(t, created.Description, "<script>")
	require.Contains(t, created.Description, "carefully")
	require.Len(t, created.Questions, 2)
	require.Equal(t, 1, created.Questions[1].OrderIndex)
	require.NotNil(t, created.Questions[0].Options[0].IsCorrect)
}

func TestAssignmentServiceCreateRequiresQuestionsForAutoGraded(t *testing.T) {
	db := setupSubmissionDB(t, "assignment_noquestions")
	svc := setupAssignmentService(t, db)
	fixture := seedMCQAssignment(t, db)

	principal := Principal{UserID: fixture.teacher.ID, Role: models.RoleTeacher}

	_, err := svc.Create(context.Background(), principal, fixture.classroom.ID, dto.AssignmentCreateRequest{
		Title: "Empty Quiz",
		Type:  models.AssignmentTypeMCQ,
	})
	require.ErrorIs(t, err, ErrQuestionsRequired)

	// Manually graded types may start without questions.
	_, err = svc.Create(context.Background(), principal, fixture.classroom.ID, dto.AssignmentCreateRequest{
		Title: "Free Essay",
		Type:  models.AssignmentTypeEssay,
	})
	require.NoError(t, err)
}

func TestAssignmentServiceCreateRequiresOwnership(t *testing.T) {
	db := setupSubmissionDB(t, "assignment_ownership")
	svc := setupAssignmentService(t, db)
	fixture := seedMCQAssignment(t, db)

	other := models.User{Name: "Mr Lain", Email: "lain-assign@example.com", Password: "x", Role: models.RoleTeacher, Status: models.UserStatusActive}
	require.NoError(t, db.Create(&other).Error)

	_, err := svc.Create(context.Background(), Principal{UserID: other.ID, Role: models.RoleTeacher}, fixture.classroom.ID, dto.AssignmentCreateRequest{
		Title: "Sneaky Quiz",
		Type:  models.AssignmentTypeEssay,
	})
	require.ErrorIs(t, err, ErrNotClassroomOwner)
}

func TestAssignmentServiceStudentViewHidesAnswers(t *testing.T) {
	db := setupSubmissionDB(t, "assignment_studentview")
	svc := setupAssignmentService(t, db)
	fixture := seedMCQAssignment(t, db)

	detail, err := svc.Get(context.Background(), Principal{UserID: fixture.student.ID, Role: models.RoleStudent}, fixture.assignment.ID)
	require.NoError(t, err)
	require.Len(t, detail.Assignment.Questions, 4)
	for _, question := range detail.Assignment.Questions {
		require.Empty(t, question.CorrectText)
		for _, option := range question.Options {
			require.Nil(t, option.IsCorrect)
		}
	}
	require.Nil(t, detail.Submission)
	require.Empty(t, detail.Submissions)
}

func TestAssignmentServiceStudentViewIncludesOwnSubmission(t *testing.T) {
	db := setupSubmissionDB(t, "assignment_ownsubmission")
	svc := setupAssignmentService(t, db)
	submissionSvc := setupSubmissionService(t, db, time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC))
	fixture := seedMCQAssignment(t, db)
	questions := loadQuestions(t, db, fixture.assignment.ID)

	principal := Principal{UserID: fixture.student.ID, Role: models.RoleStudent}
	_, err := submissionSvc.SaveOrSubmit(context.Background(), principal, fixture.assignment.ID, dto.SubmitAssignmentRequest{
		Answers: []dto.AnswerPayload{{QuestionID: questions[0].ID, SelectedOptionIDs: correctSelections(questions[0])}},
		IsDraft: true,
	})
	require.NoError(t, err)

	detail, err := svc.Get(context.Background(), principal, fixture.assignment.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Submission)
	require.Equal(t, models.SubmissionStatusInProgress, detail.Submission.Status)
}

func TestAssignmentServiceTeacherViewRevealsAnswersAndSubmissions(t *testing.T) {
	db := setupSubmissionDB(t, "assignment_teacherview")
	svc := setupAssignmentService(t, db)
	submissionSvc := setupSubmissionService(t, db, time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC))
	fixture := seedMCQAssignment(t, db)
	questions := loadQuestions(t, db, fixture.assignment.ID)

	_, err := submissionSvc.SaveOrSubmit(context.Background(), Principal{UserID: fixture.student.ID, Role: models.RoleStudent}, fixture.assignment.ID, dto.SubmitAssignmentRequest{
		Answers: []dto.AnswerPayload{{QuestionID: questions[0].ID, SelectedOptionIDs: correctSelections(questions[0])}},
	})
	require.NoError(t, err)

	detail, err := svc.Get(context.Background(), Principal{UserID: fixture.teacher.ID, Role: models.RoleTeacher}, fixture.assignment.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Assignment.Questions[0].Options[0].IsCorrect)
	require.True(t, *detail.Assignment.Questions[0].Options[0].IsCorrect)
	require.Len(t, detail.Submissions, 1)

	other := models.User{Name: "Mr Lain", Email: "lain-view@example.com", Password: "x", Role: models.RoleTeacher, Status: models.UserStatusActive}
	require.NoError(t, db.Create(&other).Error)
	_, err = svc.Get(context.Background(), Principal{UserID: other.ID, Role: models.RoleTeacher}, fixture.assignment.ID)
	require.ErrorIs(t, err, ErrNotClassroomOwner)
}

func TestAssignmentServiceUpdateTransitionsStatus(t *testing.T) {
	db := setupSubmissionDB(t, "assignment_update")
	svc := setupAssignmentService(t, db)
	fixture := seedMCQAssignment(t, db)

	principal := Principal{UserID: fixture.teacher.ID, Role: models.RoleTeacher}

	status := models.AssignmentStatusClosed
	deadline := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
	updated, err := svc.Update(context.Background(), principal, fixture.assignment.ID, dto.AssignmentUpdateRequest{
		Status:   &status,
		Deadline: &deadline,
	})
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusClosed, updated.Status)
	require.NotNil(t, updated.Deadline)

	require.NoError(t, svc.Delete(context.Background(), principal, fixture.assignment.ID))
	_, err = svc.Get(context.Background(), principal, fixture.assignment.ID)
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}
