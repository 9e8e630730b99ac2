package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/eduapp/classroom-api/internal/models"
)

// EnrollmentRepository defines persistence operations for class membership.
type EnrollmentRepository interface {
	GetByStudentAndClassroom(ctx context.Context, studentID, classroomID uint) (models.Enrollment, error)
	ActiveExists(ctx context.Context, studentID, classroomID uint) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository instantiates the repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) GetByStudentAndClassroom(ctx context.Context, studentID, classroomID uint) (models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Where("student_id = ? AND classroom_id = ?", studentID, classroomID).
		First(&enrollment).Error; err != nil {
		return models.Enrollment{}, err
	}

	return enrollment, nil
}

func (r *enrollmentRepository) ActiveExists(ctx context.Context, studentID, classroomID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ? AND classroom_id = ? AND status = ?", studentID, classroomID, models.EnrollmentStatusActive).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Save(enrollment).Error
}
