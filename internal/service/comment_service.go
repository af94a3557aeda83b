package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-platform/internal/auth"
	"github.com/spec-kit/blog-platform/internal/cache"
	"github.com/spec-kit/blog-platform/internal/domain"
	"github.com/spec-kit/blog-platform/internal/events"
	"github.com/spec-kit/blog-platform/internal/repository"
)

// CommentService stores comments and publishes the fan-out event after each
// successful write.
type CommentService struct {
	comments  repository.CommentRepository
	articles  *cache.ArticleCache
	publisher *events.Publisher
	logger    *zap.Logger
}

// NewCommentService builds the service.
func NewCommentService(comments repository.CommentRepository, articles *cache.ArticleCache, publisher *events.Publisher, logger *zap.Logger) *CommentService {
	return &CommentService{comments: comments, articles: articles, publisher: publisher, logger: logger}
}

// Create stores a comment on the article and schedules the new_comment event.
// The publish never affects the response of the write.
func (s *CommentService) Create(ctx context.Context, ident *auth.Identity, articleID, content, parentID string) (*domain.Comment, error) {
	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ID:         uuid.NewString(),
		ResourceID: article.ID,
		AuthorID:   ident.SubjectID,
		AuthorName: ident.Name,
		ParentID:   parentID,
		Content:    content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	event, err := events.NewComment(*comment, article.Title, article.AuthorID)
	if err != nil {
		s.logger.Warn("event encode failed", zap.Error(err))
		return comment, nil
	}
	s.publisher.PublishAsync(event)

	return comment, nil
}

// List returns the article's comments in chronological order.
func (s *CommentService) List(ctx context.Context, articleID string) ([]domain.Comment, error) {
	if _, err := s.articles.GetByID(ctx, articleID); err != nil {
		return nil, err
	}
	return s.comments.ListByArticle(ctx, articleID)
}
