package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-platform/internal/api/dto"
	"github.com/spec-kit/blog-platform/internal/auth"
	"github.com/spec-kit/blog-platform/internal/repository"
	"github.com/spec-kit/blog-platform/internal/service"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

// ArticlesHandler exposes the content CRUD endpoints.
type ArticlesHandler struct {
	articles *service.ArticleService
}

// NewArticlesHandler constructs handler.
func NewArticlesHandler(articleService *service.ArticleService) *ArticlesHandler {
	return &ArticlesHandler{articles: articleService}
}

// Create handles POST /api/content.
func (h *ArticlesHandler) Create(c *fiber.Ctx) error {
	ident, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}

	var req dto.ArticleCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.Content == "" {
		return apperrors.NewValidationError("title and content required", nil)
	}

	article, err := h.articles.Create(c.UserContext(), ident, service.ArticleInput{
		Title:   req.Title,
		Content: req.Content,
		Image:   req.Image,
		Tags:    req.Tags,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": article})
}

// Get handles GET /api/content/:id.
func (h *ArticlesHandler) Get(c *fiber.Ctx) error {
	article, err := h.articles.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": article})
}

// List handles GET /api/content.
func (h *ArticlesHandler) List(c *fiber.Ctx) error {
	list, err := h.articles.List(c.UserContext(), parseListOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

// Update handles PUT /api/content/:id.
func (h *ArticlesHandler) Update(c *fiber.Ctx) error {
	var req dto.ArticleUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.Content == "" {
		return apperrors.NewValidationError("title and content required", nil)
	}

	article, err := h.articles.Update(c.UserContext(), c.Params("id"), service.ArticleInput{
		Title:   req.Title,
		Content: req.Content,
		Image:   req.Image,
		Tags:    req.Tags,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": article})
}

// Delete handles DELETE /api/content/:id.
func (h *ArticlesHandler) Delete(c *fiber.Ctx) error {
	if err := h.articles.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// Summary handles GET /api/v1/content/summary.
func (h *ArticlesHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.articles.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// CountByDay handles GET /api/v1/content/count-by-day.
func (h *ArticlesHandler) CountByDay(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days", "30"))
	counts, err := h.articles.CountByDay(c.UserContext(), days)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": counts})
}

// CountByAuthor handles GET /api/v1/content/count-by-author.
func (h *ArticlesHandler) CountByAuthor(c *fiber.Ctx) error {
	counts, err := h.articles.CountByAuthor(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": counts})
}

// TopByComments handles GET /api/v1/content/top-by-comments.
func (h *ArticlesHandler) TopByComments(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	top, err := h.articles.TopByComments(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": top})
}

func parseListOptions(c *fiber.Ctx) repository.ListOptions {
	opts := repository.ListOptions{
		Author: c.Query("author"),
		Search: c.Query("search"),
	}
	opts.Page, _ = strconv.Atoi(c.Query("page", "1"))
	opts.Limit, _ = strconv.Atoi(c.Query("limit", "20"))
	if tags := c.Query("tags"); tags != "" {
		opts.Tags = strings.Split(tags, ",")
	}
	return opts
}
