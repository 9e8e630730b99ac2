package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/eduapp/classroom-api/internal/models"
)

// ClassroomRepository defines persistence operations for classrooms.
type ClassroomRepository interface {
	ListAll(ctx context.Context) ([]models.Classroom, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.Classroom, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Classroom, error)
	GetByID(ctx context.Context, id uint) (models.Classroom, error)
	GetDetail(ctx context.Context, id uint) (models.Classroom, error)
	GetByCode(ctx context.Context, code string) (models.Classroom, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, classroom *models.Classroom) error
	Update(ctx context.Context, classroom *models.Classroom) error
	Delete(ctx context.Context, id uint) error
}

type classroomRepository struct {
	db *gorm.DB
}

// NewClassroomRepository instantiates a GORM-backed repository.
func NewClassroomRepository(db *gorm.DB) ClassroomRepository {
	return &classroomRepository{db: db}
}

func (r *classroomRepository) ListAll(ctx context.Context) ([]models.Classroom, error) {
	var classrooms []models.Classroom
	if err := r.db.WithContext(ctx).
		Preload("Teacher").
		Order("created_at DESC").
		Find(&classrooms).Error; err != nil {
		return nil, err
	}

	return classrooms, nil
}

func (r *classroomRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Classroom, error) {
	var classrooms []models.Classroom
	if err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&classrooms).Error; err != nil {
		return nil, err
	}

	return classrooms, nil
}

func (r *classroomRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Classroom, error) {
	var classrooms []models.Classroom
	if err := r.db.WithContext(ctx).
		Preload("Teacher").
		Joins("JOIN enrollments ON enrollments.classroom_id = classrooms.id").
		Where("enrollments.student_id = ? AND enrollments.status = ?", studentID, models.EnrollmentStatusActive).
		Order("classrooms.created_at DESC").
		Find(&classrooms).Error; err != nil {
		return nil, err
	}

	return classrooms, nil
}

func (r *classroomRepository) GetByID(ctx context.Context, id uint) (models.Classroom, error) {
	var classroom models.Classroom
	if err := r.db.WithContext(ctx).First(&classroom, id).Error; err != nil {
		return models.Classroom{}, err
	}

	return classroom, nil
}

func (r *classroomRepository) GetDetail(ctx context.Context, id uint) (models.Classroom, error) {
	var classroom models.Classroom
	if err := r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("Enrollments", "status = ?", models.EnrollmentStatusActive).
		Preload("Enrollments.Student").
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("assignments.created_at DESC")
		}).
		First(&classroom, id).Error; err != nil {
		return models.Classroom{}, err
	}

	return classroom, nil
}

func (r *classroomRepository) GetByCode(ctx context.Context, code string) (models.Classroom, error) {
	var classroom models.Classroom
	if err := r.db.WithContext(ctx).
		Preload("Teacher").
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&classroom).Error; err != nil {
		return models.Classroom{}, err
	}

	return classroom, nil
}

func (r *classroomRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Classroom{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *classroomRepository) Create(ctx context.Context, classroom *models.Classroom) error {
	return r.db.WithContext(ctx).Create(classroom).Error
}

func (r *classroomRepository) Update(ctx context.Context, classroom *models.Classroom) error {
	return r.db.WithContext(ctx).Save(classroom).Error
}

func (r *classroomRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Classroom{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
