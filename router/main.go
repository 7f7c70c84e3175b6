package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/learnsphere/academy-api/config"
	"github.com/learnsphere/academy-api/database"
	"github.com/learnsphere/academy-api/handlers"
	auth_handlers "github.com/learnsphere/academy-api/handlers/auth"
	certificate_handlers "github.com/learnsphere/academy-api/handlers/certificate"
	contact_handlers "github.com/learnsphere/academy-api/handlers/contact"
	course_handlers "github.com/learnsphere/academy-api/handlers/course"
	enrollment_handlers "github.com/learnsphere/academy-api/handlers/enrollment"
	payment_handlers "github.com/learnsphere/academy-api/handlers/payment"
	"github.com/learnsphere/academy-api/services"
	"github.com/learnsphere/academy-api/utils/auth"
	"github.com/learnsphere/academy-api/utils/cache"
	"github.com/learnsphere/academy-api/utils/middleware"
	"github.com/learnsphere/academy-api/utils/storage"
)

func SetupRoutes(app *fiber.App, store database.Storage, env *config.EnviornmentVariable) {
	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := env.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "learnsphere-academy-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret:        env.JWT_SECRET,
		Expiry:        24 * time.Hour,     // Access token expires in 24 hours
		RefreshExpiry: 7 * 24 * time.Hour, // Refresh token expires in 7 days
		Issuer:        jwtIssuer,
	})

	// Redis backs brute force protection; without it login lockouts are off.
	redisURL := env.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}
	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, store)

	var spacesClient *storage.SpacesClient
	if env.SpacesConfigured() {
		spacesClient, err = storage.NewSpacesClient(storage.SpacesConfig{
			AccessKey: env.DO_SPACES_KEY,
			SecretKey: env.DO_SPACES_SECRET,
			Bucket:    env.DO_SPACES_BUCKET,
			Region:    env.DO_SPACES_REGION,
			Endpoint:  env.DO_SPACES_ENDPOINT,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize Spaces client: %v. Certificate downloads will be disabled.", err)
		}
	}

	entitlementService := services.NewEntitlementService(store)
	certificateService := services.NewCertificateService(store)
	emailService := services.NewEmailService(env)

	authHandler := auth_handlers.NewAuthHandler(store, jwtManager, bruteForceProtection, env.GOOGLE_CLIENT_ID, env.GoogleVerificationEnabled())
	courseHandler := course_handlers.NewCourseHandler(store)
	paymentHandler := payment_handlers.NewPaymentHandler(store, entitlementService, emailService)
	enrollmentHandler := enrollment_handlers.NewEnrollmentHandler(entitlementService, certificateService, emailService)
	certificateHandler := certificate_handlers.NewCertificateHandler(certificateService, spacesClient)
	contactHandler := contact_handlers.NewContactHandler(store)

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
	app.Get("/ping", handlers.CheckHealth(store))

	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}
	authGroup.Post("/google", authHandler.GoogleLogin)
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)

	// Profile routes (authenticated)
	api.Get("/profile", authMiddleware.Required(), authHandler.GetProfile)
	api.Put("/profile", authMiddleware.Required(), authHandler.UpdateProfile)

	// Course catalog (public)
	api.Get("/courses", courseHandler.ListCourses)
	api.Get("/courses/:slug", courseHandler.GetCourse)

	// Payments (authenticated)
	payments := api.Group("/payments", authMiddleware.Required())
	payments.Post("/orders", paymentHandler.CreateOrder)
	payments.Post("/success", paymentHandler.PaymentSuccess)

	// Enrollments (authenticated)
	enrollments := api.Group("/enrollments", authMiddleware.Required())
	enrollments.Get("/", enrollmentHandler.ListEnrollments)
	enrollments.Get("/access/:course_id", enrollmentHandler.CheckAccess)
	enrollments.Put("/:id/progress", enrollmentHandler.UpdateProgress)

	// Certificates. Lookup and verification are public; listing, sharing and
	// downloads are owner-only.
	certificates := api.Group("/certificates")
	certificates.Get("/", authMiddleware.Required(), certificateHandler.ListForUser)
	certificates.Get("/verify/:id", certificateHandler.Verify)
	certificates.Get("/:id", certificateHandler.GetByID)
	certificates.Get("/:id/share", authMiddleware.Required(), certificateHandler.Share)
	certificates.Get("/:id/download-url", authMiddleware.Required(), certificateHandler.DownloadURL)
	certificates.Post("/:id/artifact", authMiddleware.Required(), certificateHandler.UploadArtifact)
	api.Get("/courses/:course_id/certificates", certificateHandler.ByCourse)

	// Contact form (public)
	api.Post("/contact", contactHandler.Submit)
}
