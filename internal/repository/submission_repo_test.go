package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eduapp/classroom-api/internal/models"
)

func setupRepoDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Classroom{},
		&models.Enrollment{},
		&models.Assignment{},
		&models.Question{},
		&models.Option{},
		&models.Submission{},
		&models.Answer{},
		&models.Feedback{},
	))

	return db
}

func seedSubmissionGraph(t *testing.T, db *gorm.DB) (models.User, models.Assignment) {
	t.Helper()

	teacher := models.User{Name: "Ms Reed", Email: "reed-repo@example.com", Password: "x", Role: models.RoleTeacher, Status: models.UserStatusActive}
	require.NoError(t, db.Create(&teacher).Error)
	student := models.User{Name: "Arif", Email: "arif-repo@example.com", Password: "x", Role: models.RoleStudent, Status: models.UserStatusActive}
	require.NoError(t, db.Create(&student).Error)
	classroom := models.Classroom{Name: "English", Code: "RP0001", Status: models.ClassroomStatusActive, TeacherID: teacher.ID}
	require.NoError(t, db.Create(&classroom).Error)
	assignment := models.Assignment{Title: "Quiz", Type: models.AssignmentTypeMCQ, Status: models.AssignmentStatusOpen, ClassroomID: classroom.ID, CreatedByID: teacher.ID}
	require.NoError(t, db.Create(&assignment).Error)

	return student, assignment
}

func TestSubmissionRepositorySaveWithAnswersReplacesSet(t *testing.T) {
	db := setupRepoDB(t, "repo_replace")
	repo := NewSubmissionRepository(db)
	student, assignment := seedSubmissionGraph(t, db)

	submission := models.Submission{
		AssignmentID: assignment.ID,
		StudentID:    student.ID,
		Status:       models.SubmissionStatusInProgress,
	}
	answers := []models.Answer{
		{QuestionID: 1, TextContent: "first"},
		{QuestionID: 2, TextContent: "second"},
	}
	require.NoError(t, repo.SaveWithAnswers(context.Background(), &submission, answers))
	require.NotZero(t, submission.ID)

	replacement := []models.Answer{{QuestionID: 2, TextContent: "revised"}}
	require.NoError(t, repo.SaveWithAnswers(context.Background(), &submission, replacement))

	var stored []models.Answer
	require.NoError(t, db.Where("submission_id = ?", submission.ID).Find(&stored).Error)
	require.Len(t, stored, 1)
	require.Equal(t, "revised", stored[0].TextContent)
	require.EqualValues(t, 2, stored[0].QuestionID)
}

func TestSubmissionRepositoryUniquePerStudentAndAssignment(t *testing.T) {
	db := setupRepoDB(t, "repo_unique")
	student, assignment := seedSubmissionGraph(t, db)

	first := models.Submission{AssignmentID: assignment.ID, StudentID: student.ID, Status: models.SubmissionStatusInProgress}
	require.NoError(t, db.Create(&first).Error)

	duplicate := models.Submission{AssignmentID: assignment.ID, StudentID: student.ID, Status: models.SubmissionStatusInProgress}
	require.Error(t, db.Create(&duplicate).Error)
}

func TestSubmissionRepositoryUpsertFeedbackKeepsOneRow(t *testing.T) {
	db := setupRepoDB(t, "repo_feedback")
	repo := NewSubmissionRepository(db)
	student, assignment := seedSubmissionGraph(t, db)

	submission := models.Submission{AssignmentID: assignment.ID, StudentID: student.ID, Status: models.SubmissionStatusSubmitted}
	require.NoError(t, db.Create(&submission).Error)

	first := models.Feedback{SubmissionID: submission.ID, TeacherID: 7, Comment: "Solid work"}
	require.NoError(t, repo.UpsertFeedback(context.Background(), &first))

	second := models.Feedback{SubmissionID: submission.ID, TeacherID: 9, Comment: "Regraded"}
	require.NoError(t, repo.UpsertFeedback(context.Background(), &second))
	require.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Feedback{}).Where("submission_id = ?", submission.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)

	var stored models.Feedback
	require.NoError(t, db.Where("submission_id = ?", submission.ID).First(&stored).Error)
	require.Equal(t, "Regraded", stored.Comment)
	require.EqualValues(t, 9, stored.TeacherID)
}

func TestSubmissionRepositoryListFilters(t *testing.T) {
	db := setupRepoDB(t, "repo_list")
	repo := NewSubmissionRepository(db)
	student, assignment := seedSubmissionGraph(t, db)

	other := models.User{Name: "Sari", Email: "sari-repo@example.com", Password: "x", Role: models.RoleStudent, Status: models.UserStatusActive}
	require.NoError(t, db.Create(&other).Error)

	require.NoError(t, db.Create(&models.Submission{AssignmentID: assignment.ID, StudentID: student.ID, Status: models.SubmissionStatusSubmitted}).Error)
	require.NoError(t, db.Create(&models.Submission{AssignmentID: assignment.ID, StudentID: other.ID, Status: models.SubmissionStatusInProgress}).Error)

	all, err := repo.List(context.Background(), SubmissionFilter{AssignmentID: &assignment.ID})
	require.NoError(t, err)
	require.Len(t, all, 2)

	status := models.SubmissionStatusSubmitted
	submitted, err := repo.List(context.Background(), SubmissionFilter{AssignmentID: &assignment.ID, Status: &status})
	require.NoError(t, err)
	require.Len(t, submitted, 1)
	require.Equal(t, student.ID, submitted[0].StudentID)

	mine, err := repo.List(context.Background(), SubmissionFilter{StudentID: &other.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
}
