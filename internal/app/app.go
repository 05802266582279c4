package app

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"palette-backend/internal/db"
	"palette-backend/internal/handlers"
	"palette-backend/internal/models"
	"palette-backend/internal/palette"
	"palette-backend/internal/repo"
	"palette-backend/internal/services"
	"palette-backend/internal/storage"
	"palette-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func Run() {
	// Load Env
	if err := utils.LoadEnv(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Init DB
	connString := utils.GetEnv("DATABASE_URL", "")
	if connString == "" {
		// Fallback to individual vars
		connString = "postgres://" + utils.GetEnv("POSTGRES_USER", "postgres") + ":" +
			utils.GetEnv("POSTGRES_PASSWORD", "postgres") + "@" +
			utils.GetEnv("POSTGRES_HOST", "localhost") + ":" +
			utils.GetEnv("POSTGRES_PORT", "5432") + "/" +
			utils.GetEnv("POSTGRES_DB", "palettedb") + "?sslmode=disable"
	}

	if err := db.InitDB(connString); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.CloseDB()

	if err := db.InitSchema(context.Background()); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	port := utils.GetEnv("PORT", "3001")

	// Object storage for uploaded files. The extractor fetches saved objects
	// over HTTP, so the base URL must be absolute; default to our own address.
	uploadDir := utils.GetEnv("UPLOAD_DIR", "uploads")
	baseURL := utils.GetEnv("BASE_URL", "http://localhost:"+port)
	objectStore, err := storage.NewLocalStorage(uploadDir, baseURL)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Extraction pipeline
	fetchTimeout := time.Duration(utils.GetEnvInt("FETCH_TIMEOUT_SECONDS", 15)) * time.Second
	extractor := palette.NewKMeansExtractor(palette.NewFetcher(fetchTimeout))

	// Persistence + services
	store := repo.NewPostgres(db.Pool)
	userService := services.NewUserService()
	photoService := services.NewPhotoService(store, extractor)
	paletteService := services.NewPaletteService(store, extractor)
	socialService := services.NewSocialService()

	// Fiber App
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // uploads are capped at 10MB
	})

	// Middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// Serve uploaded files
	app.Static("/uploads", uploadDir)

	// Routes
	api := app.Group("/api")

	// Public Routes
	api.Post("/register", func(c *fiber.Ctx) error {
		var req models.RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
		}
		user, err := userService.Register(c.Context(), req)
		if err != nil {
			if errors.Is(err, services.ErrUserExists) {
				return c.Status(400).JSON(fiber.Map{"error": "username already exists"})
			}
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(201).JSON(user)
	})

	api.Post("/login", func(c *fiber.Ctx) error {
		var req models.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
		}
		res, err := userService.Login(c.Context(), req)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(res)
	})

	// Public palette feeds
	api.Get("/palettes/public", handlers.PublicPalettesHandler(paletteService))
	api.Get("/palettes/explore", handlers.ExplorePalettesHandler(paletteService))
	api.Get("/users/:user_id/palettes", handlers.UserPublicPalettesHandler(paletteService))

	// Protected Routes
	protected := api.Group("/")
	protected.Use(handlers.AuthMiddleware)

	// Photo upload pipeline
	protected.Post("/photos", handlers.UploadPhotoHandler(photoService, objectStore))
	protected.Get("/photos", handlers.GetUserPhotosHandler(photoService))
	protected.Get("/photos/:photo_id/palette", handlers.GetPhotoPaletteHandler(photoService))
	protected.Delete("/photos/:photo_id", handlers.DeletePhotoHandler(photoService))

	// Palettes
	protected.Post("/palettes", handlers.CreatePaletteHandler(paletteService))
	protected.Get("/palettes", handlers.MyPalettesHandler(paletteService))
	protected.Get("/palettes/:palette_id", handlers.GetPaletteHandler(paletteService))
	protected.Put("/palettes/:palette_id", handlers.UpdatePaletteHandler(paletteService))
	protected.Delete("/palettes/:palette_id", handlers.DeletePaletteHandler(paletteService))
	protected.Post("/palettes/:palette_id/duplicate", handlers.DuplicatePaletteHandler(paletteService))
	protected.Put("/colors/:color_id", handlers.UpdateColorHandler(paletteService))

	// Likes & comments
	protected.Post("/palettes/:palette_id/like", handlers.LikePaletteHandler(socialService))
	protected.Delete("/palettes/:palette_id/like", handlers.UnlikePaletteHandler(socialService))
	protected.Post("/palettes/:palette_id/comments", handlers.AddCommentHandler(socialService))
	protected.Get("/palettes/:palette_id/comments", handlers.ListCommentsHandler(socialService))
	protected.Put("/comments/:comment_id", handlers.UpdateCommentHandler(socialService))
	protected.Delete("/comments/:comment_id", handlers.DeleteCommentHandler(socialService))

	// Profile & social graph
	protected.Get("/profile", handlers.GetProfileHandler(userService))
	protected.Put("/profile", handlers.UpdateProfileHandler(userService))
	protected.Put("/profile/photo", handlers.UploadProfilePhotoHandler(userService, objectStore))
	protected.Get("/users/search", handlers.SearchUsersHandler(userService))
	protected.Get("/users/:user_id/stats", handlers.UserStatsHandler(userService))
	protected.Post("/users/:user_id/follow", handlers.FollowHandler(socialService))
	protected.Delete("/users/:user_id/follow", handlers.UnfollowHandler(socialService))
	protected.Get("/users/:user_id/followers", handlers.FollowersHandler(socialService))
	protected.Get("/users/:user_id/following", handlers.FollowingHandler(socialService))

	// Health Check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Start Server
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Graceful Shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c // Block until signal
	log.Println("Gracefully shutting down...")
	_ = app.Shutdown()
	log.Println("Server shutdown complete")
}
