package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/opencoder/opencoder-api/config"
	"github.com/opencoder/opencoder-api/database"
	"github.com/opencoder/opencoder-api/handlers"
	auth_handlers "github.com/opencoder/opencoder-api/handlers/auth"
	classroom_handlers "github.com/opencoder/opencoder-api/handlers/classroom"
	draft_handlers "github.com/opencoder/opencoder-api/handlers/draft"
	"github.com/opencoder/opencoder-api/services"
	googlesvc "github.com/opencoder/opencoder-api/services/google"
	"github.com/opencoder/opencoder-api/utils"
	"github.com/opencoder/opencoder-api/utils/auth"
	"github.com/opencoder/opencoder-api/utils/cache"
	"github.com/opencoder/opencoder-api/utils/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	getEnv, err := config.Get()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	if getEnv.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := getEnv.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "opencoder-api"
	}

	// Initialize JWT manager with config
	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: getEnv.JWT_SECRET,
		Expiry: 24 * time.Hour, // Access token expires in 24 hours
		Issuer: jwtIssuer,
	})

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Initialize Redis cache for brute force protection
	redisURL := getEnv.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	// Initialize brute force protection
	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Google OAuth credential provider
	googleAuth := googlesvc.NewAuthService(googlesvc.AuthConfig{
		ClientID:     getEnv.GOOGLE_CLIENT_ID,
		ClientSecret: getEnv.GOOGLE_CLIENT_SECRET,
		RedirectURL:  getEnv.GOOGLE_REDIRECT_URI,
		Scopes:       config.GoogleScopes(),
	})

	// Initialize services
	syncService := services.NewSyncService(db)
	nlp := services.NewNLPProcessor()
	generator := services.NewAIGenerator(getEnv.AI_MODEL_NAME, getEnv.AI_MODEL_TEMPERATURE, nlp)
	generationService := services.NewGenerationService(db, generator)
	pdfGenerator := services.NewPDFGenerator()
	submissionService := services.NewSubmissionService(db, pdfGenerator, getEnv.SUBMISSION_FOLDER)

	// Initialize handlers
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, googleAuth, bruteForceProtection, getEnv.FRONTEND_CALLBACK)
	classroomHandler := classroom_handlers.NewClassroomHandler(db, syncService, googleAuth)
	draftHandler := draft_handlers.NewDraftHandler(db, generationService, submissionService, pdfGenerator, googleAuth)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	// Token login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/token", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/token", authHandler.Login)
	}

	// Google OAuth flow
	authGroup.Get("/google/login", authHandler.GoogleLogin)
	authGroup.Post("/google/callback", authHandler.GoogleCallbackPost)
	api.Get("/accounts/google/login/callback/", authHandler.GoogleCallback)

	// Protected auth routes
	authGroup.Get("/me", authMiddleware.Required(), authHandler.Me)

	// Classroom routes (protected)
	courses := api.Group("/courses", authMiddleware.Required())
	courses.Get("/", classroomHandler.ListCourses)
	courses.Get("/:id", classroomHandler.GetCourse)
	courses.Get("/:id/assignments", classroomHandler.ListAssignments)
	courses.Get("/:id/announcements", classroomHandler.ListAnnouncements)

	assignments := api.Group("/assignments", authMiddleware.Required())
	assignments.Get("/:id", classroomHandler.GetAssignment)
	assignments.Get("/:id/materials", classroomHandler.ListMaterials)
	assignments.Get("/:id/drafts", draftHandler.ListAssignmentDrafts)
	assignments.Post("/:id/generate", draftHandler.Generate)

	// Draft routes (protected)
	drafts := api.Group("/drafts", authMiddleware.Required())
	drafts.Post("/", draftHandler.CreateDraft)
	drafts.Get("/", draftHandler.ListDrafts)
	drafts.Get("/:id", draftHandler.GetDraft)
	drafts.Put("/:id", draftHandler.UpdateDraft)
	drafts.Delete("/:id", draftHandler.DeleteDraft)
	drafts.Post("/:id/export-pdf", draftHandler.ExportPDF)
	drafts.Post("/:id/submit", draftHandler.Submit)

	// Generation task polling (protected)
	api.Get("/generation-tasks/:id", authMiddleware.Required(), draftHandler.GetGenerationTask)
}
