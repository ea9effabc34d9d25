package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/volunteerhub/volunteer-hub-api/internal/auth"
	"github.com/volunteerhub/volunteer-hub-api/internal/config"
	"github.com/volunteerhub/volunteer-hub-api/internal/database"
	"github.com/volunteerhub/volunteer-hub-api/internal/handlers"
	"github.com/volunteerhub/volunteer-hub-api/internal/logging"
	"github.com/volunteerhub/volunteer-hub-api/internal/middleware"
	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"github.com/volunteerhub/volunteer-hub-api/internal/payments"
	"github.com/volunteerhub/volunteer-hub-api/internal/repository"
	"github.com/volunteerhub/volunteer-hub-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	logger := logging.New(cfg.GinMode)
	defer logger.Sync() //nolint:errcheck

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	issuer := auth.NewTokenIssuer(
		cfg.JWTSecret,
		time.Duration(cfg.AccessTokenMin)*time.Minute,
		time.Duration(cfg.RefreshTokenHr)*time.Hour,
	)

	var googleVerifier *auth.GoogleVerifier
	if cfg.GoogleClientID != "" {
		googleVerifier = auth.NewGoogleVerifier(cfg.GoogleClientID)
	}

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	donationRepo := repository.NewDonationRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, issuer, googleVerifier)
	eventService := services.NewEventService(eventRepo, userRepo)
	orgService := services.NewOrganizationService(userRepo)
	donationService := services.NewDonationService(donationRepo, userRepo)
	paymentService := payments.NewService(donationRepo, cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	eventHandler := handlers.NewEventHandler(eventService)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	donationHandler := handlers.NewDonationHandler(donationService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, logger)

	// Initialize Gin router
	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.Recovery())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Volunteer Hub API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register/volunteer", authHandler.RegisterVolunteer)
			authRoutes.POST("/register/org", authHandler.RegisterOrganization)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh", authHandler.Refresh)
			authRoutes.POST("/google", authHandler.GoogleLogin)
		}

		api.GET("/me", middleware.RequireAuth(issuer), authHandler.GetCurrentUser)

		// Volunteer self-service profile
		profile := api.Group("/volunteer-profile")
		profile.Use(middleware.RequireAuth(issuer), middleware.RequireRole(models.RoleVolunteer))
		{
			profile.GET("", authHandler.GetVolunteerProfile)
			profile.PATCH("", authHandler.UpdateVolunteerProfile)
		}

		// Events: listing and detail are public, mutation is org-only,
		// signups are volunteer-only, roster and rating are owner-only.
		events := api.Group("/events")
		{
			events.GET("", middleware.OptionalAuth(issuer), eventHandler.ListEvents)
			events.GET("/:id", middleware.OptionalAuth(issuer), eventHandler.GetEvent)
			events.POST("", middleware.RequireAuth(issuer), middleware.RequireRole(models.RoleOrganization), eventHandler.CreateEvent)
			events.PATCH("/:id", middleware.RequireAuth(issuer), middleware.RequireRole(models.RoleOrganization, models.RoleAdmin), eventHandler.UpdateEvent)
			events.DELETE("/:id", middleware.RequireAuth(issuer), middleware.RequireRole(models.RoleOrganization, models.RoleAdmin), eventHandler.DeleteEvent)
			events.POST("/:id/signup", middleware.RequireAuth(issuer), middleware.RequireRole(models.RoleVolunteer), eventHandler.Signup)
			events.POST("/:id/cancel", middleware.RequireAuth(issuer), middleware.RequireRole(models.RoleVolunteer), eventHandler.CancelSignup)
			events.GET("/:id/signups", middleware.RequireAuth(issuer), eventHandler.ListSignups)
			events.POST("/:id/rate", middleware.RequireAuth(issuer), middleware.RequireRole(models.RoleOrganization, models.RoleAdmin), eventHandler.RateSignup)
		}

		api.GET("/dashboard/stats", middleware.RequireAuth(issuer), middleware.RequireRole(models.RoleVolunteer), eventHandler.GetDashboardStats)
		api.GET("/org/admin", middleware.RequireAuth(issuer), eventHandler.CheckManageAccess)

		// Organization directory (public) and self-service profile
		orgs := api.Group("/organizations")
		{
			orgs.GET("", orgHandler.ListOrganizations)
			orgs.GET("/me", middleware.RequireAuth(issuer), middleware.RequireRole(models.RoleOrganization), orgHandler.GetOwnProfile)
			orgs.PATCH("/me", middleware.RequireAuth(issuer), middleware.RequireRole(models.RoleOrganization), orgHandler.UpdateOwnProfile)
			orgs.GET("/:id", orgHandler.GetOrganization)
		}

		// Donation campaigns
		campaigns := api.Group("/donation-campaigns")
		{
			campaigns.GET("", middleware.OptionalAuth(issuer), donationHandler.ListCampaigns)
			campaigns.GET("/:id", middleware.OptionalAuth(issuer), donationHandler.GetCampaign)
			campaigns.POST("", middleware.RequireAuth(issuer), middleware.RequireRole(models.RoleOrganization), donationHandler.CreateCampaign)
			campaigns.PATCH("/:id", middleware.RequireAuth(issuer), middleware.RequireRole(models.RoleOrganization), donationHandler.UpdateCampaign)
			campaigns.DELETE("/:id", middleware.RequireAuth(issuer), middleware.RequireRole(models.RoleOrganization), donationHandler.DeleteCampaign)
		}

		// Donations: anyone may donate, listing is per-role
		donations := api.Group("/donations")
		{
			donations.POST("", middleware.OptionalAuth(issuer), donationHandler.CreateDonation)
			donations.GET("", middleware.RequireAuth(issuer), donationHandler.ListDonations)
			donations.GET("/:id", middleware.RequireAuth(issuer), donationHandler.GetDonation)
		}

		// Payments
		paymentsGroup := api.Group("/payments")
		{
			paymentsGroup.POST("/donations/create-intent", middleware.OptionalAuth(issuer), paymentHandler.CreateDonationIntent)
			paymentsGroup.POST("/stripe/webhook", paymentHandler.StripeWebhook)
		}
	}

	// Start server
	logger.Info("Server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
