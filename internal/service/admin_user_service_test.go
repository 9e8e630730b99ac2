package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/eduapp/classroom-api/internal/dto"
	"github.com/eduapp/classroom-api/internal/models"
	"github.com/eduapp/classroom-api/internal/repository"
)

func setupAdminUserService(t *testing.T, name string) (AdminUserService, *gorm.DB) {
	t.Helper()

	db := setupSubmissionDB(t, name)
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewAdminUserService(repository.NewUserRepository(db), validate, bcrypt.MinCost, zerolog.Nop())

	return svc, db
}

func TestAdminUserServiceCreateTeacher(t *testing.T) {
	svc, _ := setupAdminUserService(t, "admin_create")

	admin := Principal{UserID: 1, Role: models.RoleAdmin}
	user, err := svc.Create(context.Background(), admin, dto.AdminCreateUserRequest{
		Name:     "Ms Reed",
		Email:    "Reed@Example.com",
		Password: "secret123",
		Role:     models.RoleTeacher,
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleTeacher, user.Role)
	require.Equal(t, "reed@example.com", user.Email)

	_, err = svc.Create(context.Background(), admin, dto.AdminCreateUserRequest{
		Name:     "Again",
		Email:    "reed@example.com",
		Password: "secret123",
		Role:     models.RoleStudent,
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAdminUserServiceManagerCannotCreateManager(t *testing.T) {
	svc, _ := setupAdminUserService(t, "admin_manager_create")

	manager := Principal{UserID: 1, Role: models.RoleManager}
	_, err := svc.Create(context.Background(), manager, dto.AdminCreateUserRequest{
		Name:     "New Manager",
		Email:    "boss@example.com",
		Password: "secret123",
		Role:     models.RoleManager,
	})
	require.ErrorIs(t, err, ErrManagerRoleDenied)
}

func TestAdminUserServiceManagerCannotTouchManagerRoles(t *testing.T) {
	svc, db := setupAdminUserService(t, "admin_manager_update")

	existing := models.User{Name: "Boss", Email: "boss@example.com", Password: "x", Role: models.RoleManager, Status: models.UserStatusActive}
	require.NoError(t, db.Create(&existing).Error)

	role := models.RoleTeacher
	_, err := svc.Update(context.Background(), Principal{UserID: 2, Role: models.RoleManager}, existing.ID, dto.AdminUpdateUserRequest{Role: &role})
	require.ErrorIs(t, err, ErrManagerRoleDenied)

	// An admin may demote a manager.
	updated, err := svc.Update(context.Background(), Principal{UserID: 3, Role: models.RoleAdmin}, existing.ID, dto.AdminUpdateUserRequest{Role: &role})
	require.NoError(t, err)
	require.Equal(t, models.RoleTeacher, updated.Role)
}

func TestAdminUserServiceSuspendKeepsAccount(t *testing.T) {
	svc, db := setupAdminUserService(t, "admin_suspend")

	existing := models.User{Name: "Arif", Email: "arif-admin@example.com", Password: "x", Role: models.RoleStudent, Status: models.UserStatusActive}
	require.NoError(t, db.Create(&existing).Error)

	suspended, err := svc.Suspend(context.Background(), existing.ID)
	require.NoError(t, err)
	require.Equal(t, models.UserStatusSuspended, suspended.Status)

	var stored models.User
	require.NoError(t, db.First(&stored, existing.ID).Error)
	require.Equal(t, models.UserStatusSuspended, stored.Status)

	_, err = svc.Suspend(context.Background(), 9999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestAdminUserServiceListFilters(t *testing.T) {
	svc, db := setupAdminUserService(t, "admin_list")

	require.NoError(t, db.Create(&models.User{Name: "Ms Reed", Email: "reed-list@example.com", Password: "x", Role: models.RoleTeacher, Status: models.UserStatusActive}).Error)
	require.NoError(t, db.Create(&models.User{Name: "Arif", Email: "arif-list@example.com", Password: "x", Role: models.RoleStudent, Status: models.UserStatusActive}).Error)
	require.NoError(t, db.Create(&models.User{Name: "Sari", Email: "sari-list@example.com", Password: "x", Role: models.RoleStudent, Status: models.UserStatusSuspended}).Error)

	students, err := svc.List(context.Background(), dto.AdminUserFilter{Role: models.RoleStudent})
	require.NoError(t, err)
	require.Len(t, students, 2)

	suspended, err := svc.List(context.Background(), dto.AdminUserFilter{Status: models.UserStatusSuspended})
	require.NoError(t, err)
	require.Len(t, suspended, 1)
	require.Equal(t, "Sari", suspended[0].Name)

	found, err := svc.List(context.Background(), dto.AdminUserFilter{Search: "arif"})
	require.NoError(t, err)
	require.Len(t, found, 1)
}
