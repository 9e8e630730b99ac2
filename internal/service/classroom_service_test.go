package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eduapp/classroom-api/internal/dto"
	"github.com/eduapp/classroom-api/internal/models"
	"github.com/eduapp/classroom-api/internal/repository"
)

func setupClassroomService(t *testing.T, db *gorm.DB) ClassroomService {
	t.Helper()

	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewClassroomService(repository.NewClassroomRepository(db), validate, zerolog.Nop())
}

func TestClassroomServiceCreateGeneratesJoinCode(t *testing.T) {
	db := setupSubmissionDB(t, "classroom_create")
	svc := setupClassroomService(t, db)

	teacher := models.User{Name: "Ms Reed", Email: "reed-class@example.com", Password: "x", Role: models.RoleTeacher, Status: models.UserStatusActive}
	require.NoError(t, db.Create(&teacher).Error)

	classroom, err := svc.Create(context.Background(), Principal{UserID: teacher.ID, Role: models.RoleTeacher}, dto.ClassroomCreateRequest{
		Name:    "English 101",
		Subject: "English",
	})
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), classroom.Code)
	require.Equal(t, models.ClassroomStatusActive, classroom.Status)
	require.Equal(t, teacher.ID, classroom.Teacher.ID)
}

func TestClassroomServiceListScopedByRole(t *testing.T) {
	db := setupSubmissionDB(t, "classroom_list")
	svc := setupClassroomService(t, db)
	fixture := seedMCQAssignment(t, db)

	other := models.User{Name: "Mr Lain", Email: "lain-class@example.com", Password: "x", Role: models.RoleTeacher, Status: models.UserStatusActive}
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&models.Classroom{Name: "Math", Code: "MT0001", Status: models.ClassroomStatusActive, TeacherID: other.ID}).Error)

	teacherView, err := svc.List(context.Background(), Principal{UserID: fixture.teacher.ID, Role: models.RoleTeacher})
	require.NoError(t, err)
	require.Len(t, teacherView, 1)
	require.Equal(t, fixture.classroom.ID, teacherView[0].ID)

	studentView, err := svc.List(context.Background(), Principal{UserID: fixture.student.ID, Role: models.RoleStudent})
	require.NoError(t, err)
	require.Len(t, studentView, 1)
	require.Equal(t, fixture.classroom.ID, studentView[0].ID)

	adminView, err := svc.List(context.Background(), Principal{UserID: 999, Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, adminView, 2)
}

func TestClassroomServiceUpdateRequiresOwnership(t *testing.T) {
	db := setupSubmissionDB(t, "classroom_owner")
	svc := setupClassroomService(t, db)
	fixture := seedMCQAssignment(t, db)

	other := models.User{Name: "Mr Lain", Email: "lain-owner@example.com", Password: "x", Role: models.RoleTeacher, Status: models.UserStatusActive}
	require.NoError(t, db.Create(&other).Error)

	name := "Renamed"
	_, err := svc.Update(context.Background(), Principal{UserID: other.ID, Role: models.RoleTeacher}, fixture.classroom.ID, dto.ClassroomUpdateRequest{Name: &name})
	require.ErrorIs(t, err, ErrNotClassroomOwner)

	updated, err := svc.Update(context.Background(), Principal{UserID: fixture.teacher.ID, Role: models.RoleTeacher}, fixture.classroom.ID, dto.ClassroomUpdateRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
}

func TestClassroomServiceArchiveKeepsDataReadable(t *testing.T) {
	db := setupSubmissionDB(t, "classroom_archive")
	svc := setupClassroomService(t, db)
	fixture := seedMCQAssignment(t, db)

	status := models.ClassroomStatusArchived
	_, err := svc.Update(context.Background(), Principal{UserID: fixture.teacher.ID, Role: models.RoleTeacher}, fixture.classroom.ID, dto.ClassroomUpdateRequest{Status: &status})
	require.NoError(t, err)

	detail, err := svc.Get(context.Background(), Principal{UserID: fixture.teacher.ID, Role: models.RoleTeacher}, fixture.classroom.ID)
	require.NoError(t, err)
	require.Equal(t, models.ClassroomStatusArchived, detail.Status)
	require.Len(t, detail.Students, 1)
}
