package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-platform/internal/auth"
	"github.com/spec-kit/blog-platform/internal/cache"
	"github.com/spec-kit/blog-platform/internal/domain"
	"github.com/spec-kit/blog-platform/internal/repository"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

// ArticleInput carries the mutable article fields.
type ArticleInput struct {
	Title   string
	Content string
	Image   string
	Tags    []string
}

// ArticleService coordinates article writes with cache invalidation. Reads go
// through the cache-coherent read path; every write invalidates before its
// response is returned.
type ArticleService struct {
	repo  repository.ArticleRepository
	cache *cache.ArticleCache
}

// NewArticleService builds the service.
func NewArticleService(repo repository.ArticleRepository, articleCache *cache.ArticleCache) *ArticleService {
	return &ArticleService{repo: repo, cache: articleCache}
}

// Create stores a new article owned by the caller.
func (s *ArticleService) Create(ctx context.Context, ident *auth.Identity, input ArticleInput) (*domain.Article, error) {
	article := &domain.Article{
		ID:         uuid.NewString(),
		Title:      input.Title,
		Content:    input.Content,
		Image:      input.Image,
		Tags:       normalizeTags(input.Tags),
		AuthorID:   ident.SubjectID,
		AuthorName: ident.Name,
	}
	if err := s.repo.Create(ctx, article); err != nil {
		return nil, err
	}

	s.cache.InvalidateOnWrite(ctx, "")
	return article, nil
}

// Update replaces the mutable fields of an existing article.
func (s *ArticleService) Update(ctx context.Context, id string, input ArticleInput) (*domain.Article, error) {
	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("article", map[string]any{"id": id})
		}
		return nil, err
	}

	article.Title = input.Title
	article.Content = input.Content
	article.Image = input.Image
	article.Tags = normalizeTags(input.Tags)

	if err := s.repo.Update(ctx, article); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("article", map[string]any{"id": id})
		}
		return nil, err
	}

	s.cache.InvalidateOnWrite(ctx, id)
	return article, nil
}

// Delete removes the article.
func (s *ArticleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("article", map[string]any{"id": id})
		}
		return err
	}

	s.cache.InvalidateOnWrite(ctx, id)
	return nil
}

// GetByID reads through the cache.
func (s *ArticleService) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	return s.cache.GetByID(ctx, id)
}

// List reads through the cache.
func (s *ArticleService) List(ctx context.Context, opts repository.ListOptions) (*domain.ArticleList, error) {
	return s.cache.List(ctx, opts)
}

// Summary, CountByDay, CountByAuthor and TopByComments back the admin
// dashboard. They bypass the cache and hit the primary store directly.
func (s *ArticleService) Summary(ctx context.Context) (*domain.ArticleSummary, error) {
	return s.repo.Summary(ctx)
}

func (s *ArticleService) CountByDay(ctx context.Context, days int) ([]domain.DayCount, error) {
	return s.repo.CountByDay(ctx, days)
}

func (s *ArticleService) CountByAuthor(ctx context.Context) ([]domain.AuthorCount, error) {
	return s.repo.CountByAuthor(ctx)
}

func (s *ArticleService) TopByComments(ctx context.Context, limit int) ([]domain.CommentedArticle, error) {
	return s.repo.TopByComments(ctx, limit)
}

func normalizeTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
