package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/article-service/internal/api/http/handlers"
	"github.com/spec-kit/article-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Articles       *handlers.ArticlesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	requireUser := cfg.AuthMiddleware.RequireUser()
	requireAdmin := cfg.AuthMiddleware.RequireAdmin()

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	users := api.Group("/users")
	// Static paths before /:id.
	users.Put("/password", requireUser, cfg.Users.ChangePassword)
	users.Get("/", requireAdmin, cfg.Users.List)
	users.Post("/", requireAdmin, cfg.Users.Create)
	users.Get("/:id", requireUser, cfg.Users.Get)
	users.Put("/:id", requireAdmin, cfg.Users.Update)

	api.Get("/articles_home", cfg.Articles.ListHome)
	articles := api.Group("/articles")
	articles.Get("/", cfg.Articles.List)
	articles.Post("/comments", cfg.Articles.AddComment)
	articles.Get("/:url", cfg.Articles.GetByURL)
	articles.Post("/", requireAdmin, cfg.Articles.Create)
	articles.Put("/:id", requireAdmin, cfg.Articles.Update)
	articles.Delete("/:id", requireAdmin, cfg.Articles.Delete)
	articles.Post("/:id/home", requireAdmin, cfg.Articles.ToggleHome)
	articles.Delete("/:id/comments/:commentId", requireAdmin, cfg.Articles.DeleteComment)
}
