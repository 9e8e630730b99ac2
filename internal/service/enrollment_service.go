package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/eduapp/classroom-api/internal/dto"
	"github.com/eduapp/classroom-api/internal/models"
	"github.com/eduapp/classroom-api/internal/repository"
)

// ErrClassroomArchived indicates the classroom no longer accepts joins.
var ErrClassroomArchived = errors.New("classroom archived")

// ErrAlreadyEnrolled indicates the student is already an active member.
var ErrAlreadyEnrolled = errors.New("already enrolled")

// ErrNotEnrolled indicates the student holds no active enrollment.
var ErrNotEnrolled = errors.New("not enrolled in classroom")

// ErrNotAStudent indicates the target account is not a student.
var ErrNotAStudent = errors.New("user is not a student")

// EnrollmentService manages classroom membership. A withdrawn enrollment row
// is reactivated on rejoin instead of duplicated.
type EnrollmentService interface {
	Join(ctx context.Context, principal Principal, payload dto.JoinClassroomRequest) (dto.ClassroomResponse, error)
	Leave(ctx context.Context, principal Principal, classroomID uint) error
	AddStudent(ctx context.Context, principal Principal, classroomID uint, payload dto.AddStudentRequest) (dto.StudentLite, error)
	RemoveStudent(ctx context.Context, principal Principal, classroomID, studentID uint) error
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	classrooms  repository.ClassroomRepository
	users       repository.UserRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(enrollments repository.EnrollmentRepository, classrooms repository.ClassroomRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollments,
		classrooms:  classrooms,
		users:       users,
		validator:   validate,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
	}
}

func (s *enrollmentService) Join(ctx context.Context, principal Principal, payload dto.JoinClassroomRequest) (dto.ClassroomResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassroomResponse{}, err
	}

	classroom, err := s.classrooms.GetByCode(ctx, payload.Code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassroomResponse{}, ErrClassroomNotFound
		}
		return dto.ClassroomResponse{}, err
	}

	if !classroom.IsActive() {
		return dto.ClassroomResponse{}, ErrClassroomArchived
	}

	if err := s.enroll(ctx, principal.UserID, classroom.ID); err != nil {
		return dto.ClassroomResponse{}, err
	}

	s.logger.Info().
		Uint("classroom_id", classroom.ID).
		Uint("student_id", principal.UserID).
		Msg("student joined classroom")

	return dto.NewClassroomResponse(classroom), nil
}

func (s *enrollmentService) Leave(ctx context.Context, principal Principal, classroomID uint) error {
	enrollment, err := s.enrollments.GetByStudentAndClassroom(ctx, principal.UserID, classroomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotEnrolled
		}
		return err
	}

	if !enrollment.IsActive() {
		return ErrNotEnrolled
	}

	enrollment.Status = models.EnrollmentStatusWithdrawn
	if err := s.enrollments.Update(ctx, &enrollment); err != nil {
		return err
	}

	s.logger.Info().
		Uint("classroom_id", classroomID).
		Uint("student_id", principal.UserID).
		Msg("student left classroom")

	return nil
}

func (s *enrollmentService) AddStudent(ctx context.Context, principal Principal, classroomID uint, payload dto.AddStudentRequest) (dto.StudentLite, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentLite{}, err
	}

	classroom, err := s.classrooms.GetByID(ctx, classroomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentLite{}, ErrClassroomNotFound
		}
		return dto.StudentLite{}, err
	}

	if !principal.CanManageClassroom(classroom) {
		return dto.StudentLite{}, ErrNotClassroomOwner
	}

	student, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentLite{}, ErrUserNotFound
		}
		return dto.StudentLite{}, err
	}

	if student.Role != models.RoleStudent {
		return dto.StudentLite{}, ErrNotAStudent
	}

	if err := s.enroll(ctx, student.ID, classroom.ID); err != nil {
		return dto.StudentLite{}, err
	}

	s.logger.Info().
		Uint("classroom_id", classroom.ID).
		Uint("student_id", student.ID).
		Uint("added_by", principal.UserID).
		Msg("student added to classroom")

	return dto.StudentLite{ID: student.ID, Name: student.Name, Email: student.Email}, nil
}

func (s *enrollmentService) RemoveStudent(ctx context.Context, principal Principal, classroomID, studentID uint) error {
	classroom, err := s.classrooms.GetByID(ctx, classroomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassroomNotFound
		}
		return err
	}

	if !principal.CanManageClassroom(classroom) {
		return ErrNotClassroomOwner
	}

	enrollment, err := s.enrollments.GetByStudentAndClassroom(ctx, studentID, classroomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotEnrolled
		}
		return err
	}

	if !enrollment.IsActive() {
		return ErrNotEnrolled
	}

	enrollment.Status = models.EnrollmentStatusWithdrawn
	if err := s.enrollments.Update(ctx, &enrollment); err != nil {
		return err
	}

	s.logger.Info().
		Uint("classroom_id", classroomID).
		Uint("student_id", studentID).
		Uint("removed_by", principal.UserID).
		Msg("student removed from classroom")

	return nil
}

// enroll creates a fresh enrollment or reactivates a withdrawn one.
func (s *enrollmentService) enroll(ctx context.Context, studentID, classroomID uint) error {
	existing, err := s.enrollments.GetByStudentAndClassroom(ctx, studentID, classroomID)
	if err == nil {
		if existing.IsActive() {
			return ErrAlreadyEnrolled
		}
		existing.Status = models.EnrollmentStatusActive
		return s.enrollments.Update(ctx, &existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	enrollment := models.Enrollment{
		StudentID:   studentID,
		ClassroomID: classroomID,
		Status:      models.EnrollmentStatusActive,
	}

	return s.enrollments.Create(ctx, &enrollment)
}
