package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/article-service/internal/api/dto"
	"github.com/spec-kit/article-service/internal/service"
)

// ArticlesHandler serves public article reads, reader comments and admin edits.
type ArticlesHandler struct {
	service *service.ArticleService
}

// NewArticlesHandler constructs handler.
func NewArticlesHandler(articleService *service.ArticleService) *ArticlesHandler {
	return &ArticlesHandler{service: articleService}
}

// ListHome GET /api/articles_home.
func (h *ArticlesHandler) ListHome(c *fiber.Ctx) error {
	return h.list(c, true)
}

// List GET /api/articles.
func (h *ArticlesHandler) List(c *fiber.Ctx) error {
	return h.list(c, false)
}

func (h *ArticlesHandler) list(c *fiber.Ctx, homeOnly bool) error {
	articles, err := h.service.List(c.UserContext(), homeOnly)
	if err != nil {
		return err
	}
	items := make([]dto.ArticleResponse, 0, len(articles))
	for i := range articles {
		items = append(items, dto.NewArticleResponse(&articles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetByURL GET /api/articles/:url.
func (h *ArticlesHandler) GetByURL(c *fiber.Ctx) error {
	article, err := h.service.GetByURL(c.UserContext(), c.Params("url"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// Create POST /api/articles.
func (h *ArticlesHandler) Create(c *fiber.Ctx) error {
	var req dto.ArticleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	article, err := h.service.Create(c.UserContext(), articleInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// Update PUT /api/articles/:id.
func (h *ArticlesHandler) Update(c *fiber.Ctx) error {
	var req dto.ArticleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	article, err := h.service.Update(c.UserContext(), c.Params("id"), articleInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// Delete DELETE /api/articles/:id.
func (h *ArticlesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ToggleHome POST /api/articles/:id/home.
func (h *ArticlesHandler) ToggleHome(c *fiber.Ctx) error {
	inHome, err := h.service.ToggleHome(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": c.Params("id"), "in_home": inHome}})
}

// AddComment POST /api/articles/comments.
func (h *ArticlesHandler) AddComment(c *fiber.Ctx) error {
	var req dto.CommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	comment, err := h.service.AddComment(c.UserContext(), service.CommentInput{
		ArticleID: req.ArticleID,
		Author:    req.Author,
		Email:     req.Email,
		Content:   req.Content,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// DeleteComment DELETE /api/articles/:id/comments/:commentId.
func (h *ArticlesHandler) DeleteComment(c *fiber.Ctx) error {
	if err := h.service.DeleteComment(c.UserContext(), c.Params("id"), c.Params("commentId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func articleInput(req dto.ArticleRequest) service.ArticleInput {
	return service.ArticleInput{
		Title:   req.Title,
		URL:     req.URL,
		Content: req.Content,
		Tags:    req.Tags,
		InHome:  req.InHome,
	}
}
