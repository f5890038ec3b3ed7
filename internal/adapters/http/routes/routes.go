package routes

import (
	"log"

	"hostelgrievance/internal/adapters/http/handlers"
	"hostelgrievance/internal/adapters/http/middleware"
	"hostelgrievance/internal/adapters/persistence/repositories"
	"hostelgrievance/internal/config"
	"hostelgrievance/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	studentRepo := repositories.NewStudentRepository(db)
	complaintRepo := repositories.NewComplaintRepository(db)
	workerRepo := repositories.NewWorkerRepository(db)
	adminRepo := repositories.NewAdminRepository(db)

	// External gateways
	mailer := services.NewMailerService(cfg.Mail)
	chat := services.NewWhatsAppService(cfg.WhatsApp)
	uploader := services.NewStorageService(cfg.Storage)
	classifier, err := services.NewClassifierService(cfg.Classifier)
	if err != nil {
		log.Fatalf("❌ Failed to initialize classifier: %v", err)
	}

	// Initialize services
	authService := services.NewAuthService(studentRepo, mailer, cfg)
	complaintService := services.NewComplaintService(db, complaintRepo, studentRepo, classifier, mailer, uploader)
	assignmentService := services.NewAssignmentService(db, complaintRepo, workerRepo, chat)
	proofService := services.NewProofService(complaintRepo, workerRepo, chat, uploader)
	adminService := services.NewAdminService(adminRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	complaintHandler := handlers.NewComplaintHandler(complaintService)
	adminHandler := handlers.NewAdminHandler(adminService, complaintService, assignmentService)
	webhookHandler := handlers.NewWebhookHandler(proofService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Provider webhook (outside the versioned API, always answers 200)
	app.Post("/whatsapp/webhook", webhookHandler.Incoming)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Student auth routes
	auth := apiV1.Group("/auth")
	auth.Post("/login", middleware.StrictRateLimiter(), authHandler.Login)
	auth.Post("/verify-otp", middleware.AuthRateLimiter(), authHandler.VerifyOTP)
	auth.Get("/me", middleware.StudentAuth(cfg), authHandler.Me)
	auth.Post("/logout", authHandler.Logout)

	// Student complaint routes (session required)
	complaints := apiV1.Group("/complaints", middleware.StudentAuth(cfg))
	complaints.Post("/", complaintHandler.Submit)
	complaints.Get("/", complaintHandler.ListOwn)

	// Admin routes
	admin := apiV1.Group("/admin")
	admin.Post("/login", middleware.AuthRateLimiter(), adminHandler.Login)
	admin.Get("/complaints/pending", adminHandler.PendingComplaints)
	admin.Get("/workers", adminHandler.AvailableWorkers)
	admin.Put("/complaints/:id/status", adminHandler.UpdateStatus)
	admin.Put("/complaints/:id/assign", adminHandler.AssignWorker)
}
