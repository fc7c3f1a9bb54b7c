package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"github.com/hasibdev/blog-api/internal/auth"
	"github.com/hasibdev/blog-api/internal/comment"
	"github.com/hasibdev/blog-api/internal/config"
	"github.com/hasibdev/blog-api/internal/media"
	"github.com/hasibdev/blog-api/internal/post"
	"github.com/hasibdev/blog-api/internal/storage"
	"github.com/hasibdev/blog-api/internal/user"
)

func SetupRoutes(app *fiber.App, cfg *config.Config, db *gorm.DB, st *storage.Storage) {
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS, PATCH",
		AllowCredentials: true,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Blog API is running",
		})
	})

	tokens := auth.NewTokenService(cfg)
	sessions := auth.NewService(db, tokens)
	protected := auth.Protected(tokens, cfg)

	authHandler := auth.NewHandler(sessions, cfg)
	userHandler := user.NewHandler(db)
	postHandler := post.NewHandler(db, st)
	commentHandler := comment.NewHandler(db)
	mediaHandler := media.NewHandler(st)

	api := app.Group("/api/v1")

	// ==========================================
	// AUTH
	// ==========================================
	authGroup := api.Group("/auth")
	authGroup.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
	}))
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/refresh-token", authHandler.Refresh)
	authGroup.Delete("/logout", protected, authHandler.Logout)
	authGroup.Get("/me", protected, authHandler.Me)

	// ==========================================
	// USERS
	// ==========================================
	userGroup := api.Group("/users")
	userGroup.Get("/:id", userHandler.Get)
	userGroup.Get("/:id/posts", userHandler.GetPosts)
	userGroup.Patch("/:id/update-name", protected, userHandler.UpdateName)
	userGroup.Patch("/:id/update-email", protected, userHandler.UpdateEmail)
	userGroup.Patch("/:id/update-password", protected, userHandler.UpdatePassword)
	userGroup.Patch("/:id/update-profile-picture", protected, userHandler.UpdateProfilePicture)
	userGroup.Patch("/:id/update-bio", protected, userHandler.UpdateBio)
	userGroup.Delete("/:id", protected, userHandler.Delete)

	// ==========================================
	// POSTS
	// ==========================================
	postGroup := api.Group("/posts")
	postGroup.Get("/", postHandler.List)
	postGroup.Get("/:slug", postHandler.GetBySlug)
	postGroup.Get("/:slug/comments", postHandler.GetCommentsBySlug)
	postGroup.Post("/", protected, postHandler.Create)
	postGroup.Patch("/:id/update-title", protected, postHandler.UpdateTitle)
	postGroup.Patch("/:id/update-content-and-subtitle", protected, postHandler.UpdateContentAndSubtitle)
	postGroup.Patch("/:id/update-image", protected, postHandler.UpdateImage)
	postGroup.Patch("/:id/update-category", protected, postHandler.UpdateCategory)
	postGroup.Delete("/:id", protected, postHandler.Delete)

	// ==========================================
	// COMMENTS
	// ==========================================
	commentGroup := api.Group("/comments")
	commentGroup.Use(protected)
	commentGroup.Post("/", commentHandler.Create)
	commentGroup.Post("/reply", commentHandler.CreateReply)
	commentGroup.Put("/:id", commentHandler.Update)
	commentGroup.Put("/reply/:replyId", commentHandler.UpdateReply)
	commentGroup.Delete("/:id", commentHandler.Delete)
	commentGroup.Delete("/reply/:replyId", commentHandler.DeleteReply)

	// ==========================================
	// IMAGES
	// ==========================================
	imageGroup := api.Group("/images")
	imageGroup.Use(protected)
	imageGroup.Post("/", mediaHandler.Upload)
	imageGroup.Delete("/", mediaHandler.Delete)
}
