package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/eduapp/classroom-api/internal/dto"
	"github.com/eduapp/classroom-api/internal/models"
	"github.com/eduapp/classroom-api/internal/repository"
)

// ErrClassroomNotFound indicates the classroom does not exist.
var ErrClassroomNotFound = errors.New("classroom not found")

// ErrNotClassroomOwner indicates the caller does not own the classroom.
var ErrNotClassroomOwner = errors.New("not the classroom owner")

const classCodeLength = 6

const classCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ClassroomService orchestrates classroom CRUD with role-scoped visibility.
type ClassroomService interface {
	List(ctx context.Context, principal Principal) ([]dto.ClassroomResponse, error)
	Get(ctx context.Context, principal Principal, id uint) (dto.ClassroomDetailResponse, error)
	Create(ctx context.Context, principal Principal, payload dto.ClassroomCreateRequest) (dto.ClassroomResponse, error)
	Update(ctx context.Context, principal Principal, id uint, payload dto.ClassroomUpdateRequest) (dto.ClassroomResponse, error)
	Delete(ctx context.Context, principal Principal, id uint) error
}

type classroomService struct {
	classrooms repository.ClassroomRepository
	validator  *validator.Validate
	logger     zerolog.Logger
	codeGen    func() (string, error)
}

// NewClassroomService constructs a ClassroomService instance.
func NewClassroomService(classrooms repository.ClassroomRepository, validate *validator.Validate, logger zerolog.Logger) ClassroomService {
	return &classroomService{
		classrooms: classrooms,
		validator:  validate,
		logger:     logger.With().Str("component", "classroom_service").Logger(),
		codeGen:    generateClassCode,
	}
}

func (s *classroomService) List(ctx context.Context, principal Principal) ([]dto.ClassroomResponse, error) {
	var (
		classrooms []models.Classroom
		err        error
	)

	switch {
	case principal.IsStaff():
		classrooms, err = s.classrooms.ListAll(ctx)
	case principal.IsTeacher():
		classrooms, err = s.classrooms.ListByTeacher(ctx, principal.UserID)
	default:
		classrooms, err = s.classrooms.ListByStudent(ctx, principal.UserID)
	}
	if err != nil {
		return nil, err
	}

	return dto.NewClassroomResponseSlice(classrooms), nil
}

func (s *classroomService) Get(ctx context.Context, principal Principal, id uint) (dto.ClassroomDetailResponse, error) {
	classroom, err := s.classrooms.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassroomDetailResponse{}, ErrClassroomNotFound
		}
		return dto.ClassroomDetailResponse{}, err
	}

	return dto.NewClassroomDetailResponse(classroom), nil
}

func (s *classroomService) Create(ctx context.Context, principal Principal, payload dto.ClassroomCreateRequest) (dto.ClassroomResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassroomResponse{}, err
	}

	code, err := s.uniqueCode(ctx)
	if err != nil {
		return dto.ClassroomResponse{}, err
	}

	classroom := models.Classroom{
		Name:        strings.TrimSpace(payload.Name),
		Description: payload.Description,
		Subject:     strings.TrimSpace(payload.Subject),
		Code:        code,
		Status:      models.ClassroomStatusActive,
		TeacherID:   principal.UserID,
	}

	if err := s.classrooms.Create(ctx, &classroom); err != nil {
		return dto.ClassroomResponse{}, err
	}

	s.logger.Info().
		Uint("classroom_id", classroom.ID).
		Str("code", classroom.Code).
		Uint("teacher_id", principal.UserID).
		Msg("classroom created")

	return dto.NewClassroomResponse(classroom), nil
}

func (s *classroomService) Update(ctx context.Context, principal Principal, id uint, payload dto.ClassroomUpdateRequest) (dto.ClassroomResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassroomResponse{}, err
	}

	classroom, err := s.classrooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassroomResponse{}, ErrClassroomNotFound
		}
		return dto.ClassroomResponse{}, err
	}

	if !principal.CanManageClassroom(classroom) {
		return dto.ClassroomResponse{}, ErrNotClassroomOwner
	}

	if payload.Name != nil {
		classroom.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.Description != nil {
		classroom.Description = *payload.Description
	}
	if payload.Subject != nil {
		classroom.Subject = strings.TrimSpace(*payload.Subject)
	}
	if payload.Status != nil {
		classroom.Status = *payload.Status
	}

	if err := s.classrooms.Update(ctx, &classroom); err != nil {
		return dto.ClassroomResponse{}, err
	}

	s.logger.Info().Uint("classroom_id", classroom.ID).Msg("classroom updated")

	return dto.NewClassroomResponse(classroom), nil
}

func (s *classroomService) Delete(ctx context.Context, principal Principal, id uint) error {
	classroom, err := s.classrooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassroomNotFound
		}
		return err
	}

	if !principal.CanManageClassroom(classroom) {
		return ErrNotClassroomOwner
	}

	if err := s.classrooms.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Uint("classroom_id", id).Msg("classroom deleted")

	return nil
}

func (s *classroomService) uniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		code, err := s.codeGen()
		if err != nil {
			return "", err
		}

		exists, err := s.classrooms.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}

	return "", fmt.Errorf("failed to allocate a unique class code")
}

func generateClassCode() (string, error) {
	buffer := make([]byte, classCodeLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("failed to generate class code: %w", err)
	}

	code := make([]byte, classCodeLength)
	for i, b := range buffer {
		code[i] = classCodeCharset[int(b)%len(classCodeCharset)]
	}

	return string(code), nil
}
