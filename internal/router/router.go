package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/campuskit/institute-api/internal/config"
	"github.com/campuskit/institute-api/internal/handler"
	"github.com/campuskit/institute-api/internal/middleware"
	"github.com/campuskit/institute-api/internal/models"
	"github.com/campuskit/institute-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler           *handler.AuthHandler
	ActivityTypeHandler   *handler.ActivityTypeHandler
	ActivityRecordHandler *handler.ActivityRecordHandler
	ActivityReviewHandler *handler.ActivityReviewHandler
	StudentHandler        *handler.StudentHandler
	FacultyHandler        *handler.FacultyHandler
	ProgramHandler        *handler.ProgramHandler
	DashboardHandler      *handler.DashboardHandler
	SeedHandler           *handler.SeedHandler
	JWTMiddleware         fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 20, time.Minute))
		deps.AuthHandler.Register(auth)

		protected := api.Group("/auth", jwtMiddleware)
		deps.AuthHandler.RegisterProtected(protected)
	}

	if deps.ActivityTypeHandler != nil {
		types := api.Group("/activity-types", jwtMiddleware)
		deps.ActivityTypeHandler.Register(types)
	}

	if deps.ActivityRecordHandler != nil {
		records := api.Group("/activities", jwtMiddleware)
		// Review routes first so /assignments is not swallowed by /:id.
		if deps.ActivityReviewHandler != nil {
			deps.ActivityReviewHandler.Register(records)
		}
		deps.ActivityRecordHandler.Register(records)
	}

	if deps.StudentHandler != nil {
		students := api.Group("/students", jwtMiddleware)
		deps.StudentHandler.Register(students)
	}

	if deps.FacultyHandler != nil {
		faculty := api.Group("/faculty", jwtMiddleware)
		deps.FacultyHandler.Register(faculty)
	}

	if deps.ProgramHandler != nil {
		programs := api.Group("/programs", jwtMiddleware)
		deps.ProgramHandler.Register(programs)
	}

	if deps.DashboardHandler != nil {
		dashboard := api.Group("/dashboard", jwtMiddleware, middleware.RequireRole(models.RoleAdmin))
		deps.DashboardHandler.Register(dashboard)
	}

	if deps.SeedHandler != nil {
		seed := api.Group("/seed")
		deps.SeedHandler.Register(seed)
	}
}
