package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/eduapp/classroom-api/internal/dto"
	"github.com/eduapp/classroom-api/internal/service"
	"github.com/eduapp/classroom-api/internal/utils"
)

// ClassroomHandler manages classroom and enrollment endpoints.
type ClassroomHandler struct {
	classrooms  service.ClassroomService
	enrollments service.EnrollmentService
	logger      zerolog.Logger
}

// NewClassroomHandler builds a classroom handler instance.
func NewClassroomHandler(classrooms service.ClassroomService, enrollments service.EnrollmentService, logger zerolog.Logger) *ClassroomHandler {
	return &ClassroomHandler{
		classrooms:  classrooms,
		enrollments: enrollments,
		logger:      logger.With().Str("component", "classroom_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ClassroomHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Post("/join", h.join)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.remove)
	router.Post("/:id/leave", h.leave)
	router.Post("/:id/students", h.addStudent)
	router.Delete("/:id/students/:studentId", h.removeStudent)
}

func (h *ClassroomHandler) list(c *fiber.Ctx) error {
	classrooms, err := h.classrooms.List(c.Context(), principalFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "classrooms retrieved", classrooms)
}

func (h *ClassroomHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid classroom id")
	}

	classroom, err := h.classrooms.Get(c.Context(), principalFromContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "classroom retrieved", classroom)
}

func (h *ClassroomHandler) create(c *fiber.Ctx) error {
	var payload dto.ClassroomCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	classroom, err := h.classrooms.Create(c.Context(), principalFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "classroom created", classroom)
}

func (h *ClassroomHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid classroom id")
	}

	var payload dto.ClassroomUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	classroom, err := h.classrooms.Update(c.Context(), principalFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "classroom updated", classroom)
}

func (h *ClassroomHandler) remove(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid classroom id")
	}

	if err := h.classrooms.Delete(c.Context(), principalFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "classroom deleted", nil)
}

func (h *ClassroomHandler) join(c *fiber.Ctx) error {
	var payload dto.JoinClassroomRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	classroom, err := h.enrollments.Join(c.Context(), principalFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "joined classroom", classroom)
}

func (h *ClassroomHandler) leave(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid classroom id")
	}

	if err := h.enrollments.Leave(c.Context(), principalFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "left classroom", nil)
}

func (h *ClassroomHandler) addStudent(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid classroom id")
	}

	var payload dto.AddStudentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.enrollments.AddStudent(c.Context(), principalFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student enrolled", student)
}

func (h *ClassroomHandler) removeStudent(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid classroom id")
	}
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	if err := h.enrollments.RemoveStudent(c.Context(), principalFromContext(c), id, studentID); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "student removed", nil)
}

func (h *ClassroomHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrClassroomNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "classroom not found")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrNotClassroomOwner):
		return utils.SendError(c, fiber.StatusForbidden, "not the classroom owner")
	case errors.Is(err, service.ErrClassroomArchived):
		return utils.SendError(c, fiber.StatusBadRequest, "classroom is archived")
	case errors.Is(err, service.ErrAlreadyEnrolled):
		return utils.SendError(c, fiber.StatusConflict, "already enrolled")
	case errors.Is(err, service.ErrNotEnrolled):
		return utils.SendError(c, fiber.StatusBadRequest, "not enrolled in classroom")
	case errors.Is(err, service.ErrNotAStudent):
		return utils.SendError(c, fiber.StatusBadRequest, "user is not a student")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
