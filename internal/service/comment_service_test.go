package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-platform/internal/auth"
	"github.com/spec-kit/blog-platform/internal/cache"
	"github.com/spec-kit/blog-platform/internal/domain"
	"github.com/spec-kit/blog-platform/internal/events"
	"github.com/spec-kit/blog-platform/internal/kvstore"
	"github.com/spec-kit/blog-platform/internal/repository"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

type fakeArticlePrimary struct {
	articles map[string]domain.Article
}

func (p *fakeArticlePrimary) GetByID(_ context.Context, id string) (*domain.Article, error) {
	article, ok := p.articles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &article, nil
}

func (p *fakeArticlePrimary) GetAuthorID(_ context.Context, id string) (string, error) {
	article, ok := p.articles[id]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return article.AuthorID, nil
}

func (p *fakeArticlePrimary) List(_ context.Context, _ repository.ListOptions) (*domain.ArticleList, error) {
	return &domain.ArticleList{Items: []domain.Article{}}, nil
}

type fakeCommentRepository struct {
	byArticle map[string][]domain.Comment
}

func newFakeCommentRepository() *fakeCommentRepository {
	return &fakeCommentRepository{byArticle: make(map[string][]domain.Comment)}
}

func (r *fakeCommentRepository) Create(_ context.Context, comment *domain.Comment) error {
	comment.CreatedAt = time.Now()
	r.byArticle[comment.ResourceID] = append(r.byArticle[comment.ResourceID], *comment)
	return nil
}

func (r *fakeCommentRepository) ListByArticle(_ context.Context, articleID string) ([]domain.Comment, error) {
	return r.byArticle[articleID], nil
}

func newCommentService(store kvstore.Store, articles ...domain.Article) (*CommentService, *fakeCommentRepository) {
	primary := &fakeArticlePrimary{articles: make(map[string]domain.Article)}
	for _, a := range articles {
		primary.articles[a.ID] = a
	}
	articleCache := cache.NewArticleCache(store, primary, time.Hour, zap.NewNop())
	publisher := events.NewPublisher(store, zap.NewNop())
	repo := newFakeCommentRepository()
	return NewCommentService(repo, articleCache, publisher, zap.NewNop()), repo
}

func TestCommentCreatePublishesEvent(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	svc, _ := newCommentService(store, domain.Article{ID: "a1", Title: "My Article", AuthorID: "owner-1"})

	sub, err := store.Subscribe(ctx, events.Channel)
	require.NoError(t, err)
	defer sub.Close()

	ident := &auth.Identity{SubjectID: "u2", Role: domain.RoleReader, Name: "Bob"}
	comment, err := svc.Create(ctx, ident, "a1", "great read", "")
	require.NoError(t, err)
	assert.Equal(t, "a1", comment.ResourceID)
	assert.Equal(t, "u2", comment.AuthorID)
	assert.Equal(t, "Bob", comment.AuthorName)

	select {
	case payload := <-sub.Messages():
		var event events.Event
		require.NoError(t, json.Unmarshal([]byte(payload), &event))
		assert.Equal(t, events.TypeNewComment, event.Type)

		var p events.NewCommentPayload
		require.NoError(t, json.Unmarshal(event.Payload, &p))
		assert.Equal(t, comment.ID, p.Comment.ID)
		assert.Equal(t, "My Article", p.ResourceTitle)
		assert.Equal(t, "owner-1", p.ResourceAuthorID)
	case <-time.After(time.Second):
		t.Fatal("new_comment event not published")
	}
}

func TestCommentCreateUnknownArticle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCommentService(kvstore.NewMemoryStore())

	ident := &auth.Identity{SubjectID: "u2", Role: domain.RoleReader}
	_, err := svc.Create(ctx, ident, "missing", "hello", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestCommentListChronological(t *testing.T) {
	ctx := context.Background()
	svc, repo := newCommentService(kvstore.NewMemoryStore(), domain.Article{ID: "a1", Title: "x", AuthorID: "owner-1"})

	ident := &auth.Identity{SubjectID: "u2", Role: domain.RoleReader, Name: "Bob"}
	first, err := svc.Create(ctx, ident, "a1", "first", "")
	require.NoError(t, err)
	second, err := svc.Create(ctx, ident, "a1", "second", first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ParentID)

	comments, err := svc.List(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)
	require.Len(t, repo.byArticle["a1"], 2)

	_, err = svc.List(ctx, "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}
