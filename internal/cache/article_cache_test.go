package cache

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-platform/internal/domain"
	"github.com/spec-kit/blog-platform/internal/kvstore"
	"github.com/spec-kit/blog-platform/internal/repository"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

// fakePrimary is an in-memory authoritative store that counts reads.
type fakePrimary struct {
	articles  map[string]domain.Article
	getCalls  int
	listCalls int
}

func newFakePrimary(articles ...domain.Article) *fakePrimary {
	p := &fakePrimary{articles: make(map[string]domain.Article)}
	for _, a := range articles {
		p.articles[a.ID] = a
	}
	return p
}

func (p *fakePrimary) GetByID(_ context.Context, id string) (*domain.Article, error) {
	p.getCalls++
	article, ok := p.articles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &article, nil
}

func (p *fakePrimary) GetAuthorID(_ context.Context, id string) (string, error) {
	article, ok := p.articles[id]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return article.AuthorID, nil
}

func (p *fakePrimary) List(_ context.Context, _ repository.ListOptions) (*domain.ArticleList, error) {
	p.listCalls++
	items := make([]domain.Article, 0, len(p.articles))
	for _, a := range p.articles {
		items = append(items, a)
	}
	return &domain.ArticleList{Items: items, Total: int64(len(items)), Page: 1, Limit: 20}, nil
}

func newTestCache(store kvstore.Store, primary Primary) *ArticleCache {
	return NewArticleCache(store, primary, time.Hour, zap.NewNop())
}

func TestGetByIDReadThrough(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	primary := newFakePrimary(domain.Article{ID: "a1", Title: "first", AuthorID: "u1"})
	c := newTestCache(store, primary)

	article, err := c.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "first", article.Title)
	assert.Equal(t, 1, primary.getCalls)

	// second read is served from cache
	article, err = c.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "first", article.Title)
	assert.Equal(t, 1, primary.getCalls)
	assert.Contains(t, store.Keys(), "content:a1")
}

func TestGetByIDNotFound(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(kvstore.NewMemoryStore(), newFakePrimary())

	_, err := c.GetByID(ctx, "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestWriteInvalidationFreshRead(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	primary := newFakePrimary(domain.Article{ID: "a1", Title: "old", AuthorID: "u1"})
	c := newTestCache(store, primary)

	_, err := c.GetByID(ctx, "a1")
	require.NoError(t, err)
	_, err = c.List(ctx, repository.ListOptions{})
	require.NoError(t, err)

	// the write lands in the primary and invalidates before responding
	primary.articles["a1"] = domain.Article{ID: "a1", Title: "new", AuthorID: "u1"}
	c.InvalidateOnWrite(ctx, "a1")

	article, err := c.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "new", article.Title, "read after write must observe the new state")

	list, err := c.List(ctx, repository.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, "new", list.Items[0].Title)
}

func TestInvalidateDropsAllListKeys(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	primary := newFakePrimary(domain.Article{ID: "a1", Title: "x", AuthorID: "u1"})
	c := newTestCache(store, primary)

	_, err := c.List(ctx, repository.ListOptions{Page: 1})
	require.NoError(t, err)
	_, err = c.List(ctx, repository.ListOptions{Page: 2})
	require.NoError(t, err)
	require.Equal(t, 2, primary.listCalls)

	c.InvalidateOnWrite(ctx, "")

	for _, key := range store.Keys() {
		assert.NotContains(t, key, "content:list:")
	}
}

func TestCanonicalListKeyDeterministic(t *testing.T) {
	a := CanonicalListKey(repository.ListOptions{Page: 2, Limit: 10, Tags: []string{"go", "redis"}, Author: "u1"})
	b := CanonicalListKey(repository.ListOptions{Page: 2, Limit: 10, Tags: []string{"redis", "go"}, Author: "u1"})
	assert.Equal(t, a, b, "tag order must not change the key")

	c := CanonicalListKey(repository.ListOptions{Page: 3, Limit: 10, Tags: []string{"go", "redis"}, Author: "u1"})
	assert.NotEqual(t, a, c)

	assert.Equal(t, "content:list:limit=20&page=1", CanonicalListKey(repository.ListOptions{}))
}

func TestCacheFailureDegradesToPrimary(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	store.FailOps = true
	primary := newFakePrimary(domain.Article{ID: "a1", Title: "first", AuthorID: "u1"})
	c := newTestCache(store, primary)

	article, err := c.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "first", article.Title)

	// writes proceed without invalidation when the store is down
	c.InvalidateOnWrite(ctx, "a1")

	list, err := c.List(ctx, repository.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
}

func TestAuthorIDPrefersCacheThenPrimary(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	primary := newFakePrimary(domain.Article{ID: "a1", Title: "x", AuthorID: "u1"})
	c := newTestCache(store, primary)

	authorID, err := c.AuthorID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "u1", authorID)

	_, err = c.AuthorID(ctx, "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}
