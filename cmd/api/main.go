package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuskit/institute-api/internal/config"
	"github.com/campuskit/institute-api/internal/database"
	"github.com/campuskit/institute-api/internal/handler"
	"github.com/campuskit/institute-api/internal/middleware"
	"github.com/campuskit/institute-api/internal/repository"
	"github.com/campuskit/institute-api/internal/router"
	"github.com/campuskit/institute-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	if err := database.EnsureIndexes(db); err != nil {
		log.Fatalf("failed to create indexes: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	instituteRepo := repository.NewInstituteRepository(db)
	userRepo := repository.NewUserRepository(db)
	activityTypeRepo := repository.NewActivityTypeRepository(db)
	activityRecordRepo := repository.NewActivityRecordRepository(db)
	assignmentRepo := repository.NewActivityAssignmentRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	programRepo := repository.NewProgramRepository(db)

	authService := service.NewAuthService(userRepo, instituteRepo, validate, cfg.JWTSecret, cfg.JWTTTL, logger)
	activityTypeService := service.NewActivityTypeService(activityTypeRepo, validate, logger)
	activityRecordService := service.NewActivityRecordService(activityRecordRepo, activityTypeRepo, assignmentRepo, validate, logger)
	activityReviewService := service.NewActivityReviewService(assignmentRepo, activityRecordRepo, facultyRepo, validate, logger)
	studentService := service.NewStudentService(studentRepo, instituteRepo, validate, logger)
	facultyService := service.NewFacultyService(facultyRepo, validate, logger)
	programService := service.NewProgramService(programRepo, validate, logger)
	dashboardService := service.NewDashboardService(activityTypeRepo, studentRepo, facultyRepo, programRepo, redisClient, cfg.DashboardCacheTTL, logger)
	seedService := service.NewSeedService(activityTypeRepo, cfg.SeedEnabled, cfg.SeedToken, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	activityTypeHandler := handler.NewActivityTypeHandler(activityTypeService, logger)
	activityRecordHandler := handler.NewActivityRecordHandler(activityRecordService, logger)
	activityReviewHandler := handler.NewActivityReviewHandler(activityReviewService, logger)
	studentHandler := handler.NewStudentHandler(studentService, logger)
	facultyHandler := handler.NewFacultyHandler(facultyService, logger)
	programHandler := handler.NewProgramHandler(programService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)
	seedHandler := handler.NewSeedHandler(seedService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:           authHandler,
		ActivityTypeHandler:   activityTypeHandler,
		ActivityRecordHandler: activityRecordHandler,
		ActivityReviewHandler: activityReviewHandler,
		StudentHandler:        studentHandler,
		FacultyHandler:        facultyHandler,
		ProgramHandler:        programHandler,
		DashboardHandler:      dashboardHandler,
		SeedHandler:           seedHandler,
		JWTMiddleware:         middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
