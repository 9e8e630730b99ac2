package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/eduapp/classroom-api/internal/config"
	"github.com/eduapp/classroom-api/internal/handler"
	"github.com/eduapp/classroom-api/internal/middleware"
	"github.com/eduapp/classroom-api/internal/models"
	"github.com/eduapp/classroom-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler             *handler.AuthHandler
	AdminUserHandler        *handler.AdminUserHandler
	ClassroomHandler        *handler.ClassroomHandler
	AssignmentHandler       *handler.AssignmentHandler
	SubmissionHandler       *handler.SubmissionHandler
	StudentDashboardHandler *handler.StudentDashboardHandler
	UploadHandler           *handler.UploadHandler
	JWTMiddleware           fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 20, time.Minute))
		deps.AuthHandler.Register(auth)
	}

	if deps.AdminUserHandler != nil {
		admin := api.Group("/admin/users", jwtMiddleware,
			middleware.RequireRole(models.RoleAdmin, models.RoleManager))
		deps.AdminUserHandler.Register(admin)
	}

	if deps.ClassroomHandler != nil {
		classrooms := api.Group("/classrooms", jwtMiddleware)
		deps.ClassroomHandler.Register(classrooms)

		if deps.AssignmentHandler != nil {
			deps.AssignmentHandler.RegisterClassroomRoutes(classrooms)
		}
	}

	if deps.AssignmentHandler != nil {
		assignments := api.Group("/assignments", jwtMiddleware)
		deps.AssignmentHandler.Register(assignments)

		if deps.SubmissionHandler != nil {
			submit := api.Group("/assignments", jwtMiddleware,
				middleware.RequireRole(models.RoleStudent),
				middleware.RateLimit("submit", cfg.SubmitRateLimit, time.Minute))
			deps.SubmissionHandler.RegisterAssignmentRoutes(submit)
		}
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware)
		deps.SubmissionHandler.Register(submissions)
	}

	if deps.StudentDashboardHandler != nil {
		student := api.Group("/student", jwtMiddleware, middleware.RequireRole(models.RoleStudent))
		deps.StudentDashboardHandler.Register(student)
	}

	if deps.UploadHandler != nil {
		uploads := api.Group("/uploads", jwtMiddleware)
		deps.UploadHandler.Register(uploads)
	}
}
