package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eduapp/classroom-api/internal/dto"
	"github.com/eduapp/classroom-api/internal/models"
	"github.com/eduapp/classroom-api/internal/repository"
)

func setupEnrollmentService(t *testing.T, db *gorm.DB) EnrollmentService {
	t.Helper()

	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewEnrollmentService(
		repository.NewEnrollmentRepository(db),
		repository.NewClassroomRepository(db),
		repository.NewUserRepository(db),
		validate,
		zerolog.Nop(),
	)
}

func TestEnrollmentServiceJoinByCode(t *testing.T) {
	db := setupSubmissionDB(t, "enroll_join")
	svc := setupEnrollmentService(t, db)
	fixture := seedMCQAssignment(t, db)

	newcomer := models.User{Name: "Sari", Email: "sari-join@example.com", Password: "x", Role: models.RoleStudent, Status: models.UserStatusActive}
	require.NoError(t, db.Create(&newcomer).Error)

	classroom, err := svc.Join(context.Background(), Principal{UserID: newcomer.ID, Role: models.RoleStudent}, dto.JoinClassroomRequest{Code: "abc123"})
	require.NoError(t, err)
	require.Equal(t, fixture.classroom.ID, classroom.ID)

	var enrollment models.Enrollment
	require.NoError(t, db.Where("student_id = ? AND classroom_id = ?", newcomer.ID, fixture.classroom.ID).First(&enrollment).Error)
	require.Equal(t, models.EnrollmentStatusActive, enrollment.Status)

	_, err = svc.Join(context.Background(), Principal{UserID: newcomer.ID, Role: models.RoleStudent}, dto.JoinClassroomRequest{Code: "ABC123"})
	require.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestEnrollmentServiceJoinRejectsArchivedClassroom(t *testing.T) {
	db := setupSubmissionDB(t, "enroll_archived")
	svc := setupEnrollmentService(t, db)
	fixture := seedMCQAssignment(t, db)

	require.NoError(t, db.Model(&models.Classroom{}).Where("id = ?", fixture.classroom.ID).Update("status", models.ClassroomStatusArchived).Error)

	newcomer := models.User{Name: "Sari", Email: "sari-arch@example.com", Password: "x", Role: models.RoleStudent, Status: models.UserStatusActive}
	require.NoError(t, db.Create(&newcomer).Error)

	_, err := svc.Join(context.Background(), Principal{UserID: newcomer.ID, Role: models.RoleStudent}, dto.JoinClassroomRequest{Code: "ABC123"})
	require.ErrorIs(t, err, ErrClassroomArchived)

	_, err = svc.Join(context.Background(), Principal{UserID: newcomer.ID, Role: models.RoleStudent}, dto.JoinClassroomRequest{Code: "ZZZZ99"})
	require.ErrorIs(t, err, ErrClassroomNotFound)
}

func TestEnrollmentServiceLeaveAndRejoinReactivatesRow(t *testing.T) {
	db := setupSubmissionDB(t, "enroll_rejoin")
	svc := setupEnrollmentService(t, db)
	fixture := seedMCQAssignment(t, db)

	principal := Principal{UserID: fixture.student.ID, Role: models.RoleStudent}

	require.NoError(t, svc.Leave(context.Background(), principal, fixture.classroom.ID))

	var enrollment models.Enrollment
	require.NoError(t, db.Where("student_id = ?", fixture.student.ID).First(&enrollment).Error)
	require.Equal(t, models.EnrollmentStatusWithdrawn, enrollment.Status)

	require.ErrorIs(t, svc.Leave(context.Background(), principal, fixture.classroom.ID), ErrNotEnrolled)

	_, err := svc.Join(context.Background(), principal, dto.JoinClassroomRequest{Code: "ABC123"})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Enrollment{}).Where("student_id = ?", fixture.student.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)

	require.NoError(t, db.Where("student_id = ?", fixture.student.ID).First(&enrollment).Error)
	require.Equal(t, models.EnrollmentStatusActive, enrollment.Status)
}

func TestEnrollmentServiceAddStudentChecksRoleAndOwnership(t *testing.T) {
	db := setupSubmissionDB(t, "enroll_add")
	svc := setupEnrollmentService(t, db)
	fixture := seedMCQAssignment(t, db)

	newcomer := models.User{Name: "Sari", Email: "sari-add@example.com", Password: "x", Role: models.RoleStudent, Status: models.UserStatusActive}
	require.NoError(t, db.Create(&newcomer).Error)

	owner := Principal{UserID: fixture.teacher.ID, Role: models.RoleTeacher}

	student, err := svc.AddStudent(context.Background(), owner, fixture.classroom.ID, dto.AddStudentRequest{Email: "sari-add@example.com"})
	require.NoError(t, err)
	require.Equal(t, newcomer.ID, student.ID)

	_, err = svc.AddStudent(context.Background(), owner, fixture.classroom.ID, dto.AddStudentRequest{Email: fixture.teacher.Email})
	require.ErrorIs(t, err, ErrNotAStudent)

	other := models.User{Name: "Mr Lain", Email: "lain-add@example.com", Password: "x", Role: models.RoleTeacher, Status: models.UserStatusActive}
	require.NoError(t, db.Create(&other).Error)

	_, err = svc.AddStudent(context.Background(), Principal{UserID: other.ID, Role: models.RoleTeacher}, fixture.classroom.ID, dto.AddStudentRequest{Email: "sari-add@example.com"})
	require.ErrorIs(t, err, ErrNotClassroomOwner)
}

func TestEnrollmentServiceRemoveStudent(t *testing.T) {
	db := setupSubmissionDB(t, "enroll_remove")
	svc := setupEnrollmentService(t, db)
	fixture := seedMCQAssignment(t, db)

	owner := Principal{UserID: fixture.teacher.ID, Role: models.RoleTeacher}
	require.NoError(t, svc.RemoveStudent(context.Background(), owner, fixture.classroom.ID, fixture.student.ID))

	var enrollment models.Enrollment
	require.NoError(t, db.Where("student_id = ?", fixture.student.ID).First(&enrollment).Error)
	require.Equal(t, models.EnrollmentStatusWithdrawn, enrollment.Status)

	require.ErrorIs(t, svc.RemoveStudent(context.Background(), owner, fixture.classroom.ID, fixture.student.ID), ErrNotEnrolled)
}
