package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/glowdesk/salon-backend/database"
	"github.com/glowdesk/salon-backend/internal/handlers"
	"github.com/glowdesk/salon-backend/internal/models"
	"github.com/glowdesk/salon-backend/internal/routes"
	"github.com/glowdesk/salon-backend/internal/services"
	"github.com/glowdesk/salon-backend/internal/storage"
)

const version = "1.0.0"

func main() {
	// Load .env file for local development
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found - checking environment variables")
	}

	// Initialize storage
	var store storage.Store

	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.Client{},
			&models.Appointment{},
			&models.PaymentTransaction{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}
	storage.SetStore(store)

	// Initialize Twilio service
	twilioService, err := services.NewTwilioService()
	if err != nil {
		log.Printf("⚠️  Twilio service not initialized: %v", err)
		twilioService = nil
	} else {
		log.Println("✅ Twilio service initialized")
	}

	// Business knowledge and LLM
	knowledge := services.NewBusinessKnowledge()

	llmService, err := services.NewLLMService(knowledge)
	if err != nil {
		log.Printf("⚠️  LLM service not initialized: %v", err)
		llmService = nil
	} else {
		log.Println("✅ LLM service initialized")
	}

	// Conversation state and the booking flow
	conversations := services.NewConversationStore(services.DefaultConversationTTL)
	catalog := services.NewCatalog()
	flow := services.NewBookingFlow(store, catalog, conversations)

	voiceService := services.NewVoiceService(llmService)
	paymentService := services.NewPaymentService(store)

	log.Println("✅ All services initialized")

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "GlowDesk Salon Backend v" + version,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	routes.SetupRoutes(app, routes.Handlers{
		SMS:     handlers.NewSMSHandler(store, flow, conversations, llmService, twilioService),
		Voice:   handlers.NewVoiceHandler(voiceService),
		Payment: handlers.NewPaymentHandler(paymentService, twilioService),
		Admin:   handlers.NewAdminHandler(knowledge, conversations),
		Health:  handlers.NewHealthHandler(version, store, conversations, voiceService),
	})

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		log.Println("⏹️  Stopping conversation cleanup...")
		conversations.Stop()
		log.Println("⏹️  Shutting down server...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 GlowDesk Salon Backend starting on port %s", port)
	log.Printf("📊 Storage: %s", storageType())
	log.Printf("🌍 Environment: %s", environment())
	log.Printf("📱 SMS: %s", smsStatus(twilioService))
	log.Println("========================================")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func environment() string {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		return "production"
	}
	return env
}

func storageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "in-memory"
	}
	return "postgresql"
}

func smsStatus(t *services.TwilioService) string {
	if t == nil {
		return "not configured"
	}
	return "configured"
}
