// Package cache implements the read-through cache over the primary content
// store. The primary store stays authoritative; cache failures degrade
// silently to it and writes invalidate coarsely before responding.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-platform/internal/domain"
	"github.com/spec-kit/blog-platform/internal/kvstore"
	"github.com/spec-kit/blog-platform/internal/repository"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

const (
	articleKeyPrefix = "content:"
	listKeyPrefix    = "content:list:"
	listKeyPattern   = "content:list:*"
)

// Primary is the authoritative read surface the cache fronts.
type Primary interface {
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	GetAuthorID(ctx context.Context, id string) (string, error)
	List(ctx context.Context, opts repository.ListOptions) (*domain.ArticleList, error)
}

// ArticleCache is the cache-coherent read path for content resources.
type ArticleCache struct {
	store   kvstore.Store
	primary Primary
	ttl     time.Duration
	logger  *zap.Logger
}

// NewArticleCache builds the read path.
func NewArticleCache(store kvstore.Store, primary Primary, ttl time.Duration, logger *zap.Logger) *ArticleCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ArticleCache{store: store, primary: primary, ttl: ttl, logger: logger}
}

func articleKey(id string) string {
	return articleKeyPrefix + id
}

// CanonicalListKey serializes list options into a deterministic cache key.
// Tag order does not matter; url.Values encodes keys sorted.
func CanonicalListKey(opts repository.ListOptions) string {
	opts = opts.Normalize()

	values := url.Values{}
	values.Set("page", strconv.Itoa(opts.Page))
	values.Set("limit", strconv.Itoa(opts.Limit))
	if len(opts.Tags) > 0 {
		tags := append([]string(nil), opts.Tags...)
		sort.Strings(tags)
		values.Set("tags", strings.Join(tags, ","))
	}
	if opts.Author != "" {
		values.Set("author", opts.Author)
	}
	if opts.Search != "" {
		values.Set("search", opts.Search)
	}
	return listKeyPrefix + values.Encode()
}

// GetByID returns the article from cache when fresh, populating from the
// primary store on a miss. Absent articles map to NotFound.
func (c *ArticleCache) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	key := articleKey(id)
	if cached, err := c.store.Get(ctx, key); err == nil {
		var article domain.Article
		if err := json.Unmarshal([]byte(cached), &article); err == nil {
			return &article, nil
		}
		c.logger.Warn("corrupt cache entry", zap.String("key", key))
	} else if !errors.Is(err, kvstore.ErrNotFound) {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	article, err := c.primary.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("article", map[string]any{"id": id})
		}
		return nil, err
	}

	c.populate(ctx, key, article)
	return article, nil
}

// List returns the paginated envelope from cache when fresh, populating from
// the primary store on a miss.
func (c *ArticleCache) List(ctx context.Context, opts repository.ListOptions) (*domain.ArticleList, error) {
	key := CanonicalListKey(opts)
	if cached, err := c.store.Get(ctx, key); err == nil {
		var list domain.ArticleList
		if err := json.Unmarshal([]byte(cached), &list); err == nil {
			return &list, nil
		}
		c.logger.Warn("corrupt cache entry", zap.String("key", key))
	} else if !errors.Is(err, kvstore.ErrNotFound) {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	list, err := c.primary.List(ctx, opts)
	if err != nil {
		return nil, err
	}

	c.populate(ctx, key, list)
	return list, nil
}

// AuthorID resolves current ownership for authorization, preferring the
// cached article and falling back to the primary store.
func (c *ArticleCache) AuthorID(ctx context.Context, id string) (string, error) {
	if cached, err := c.store.Get(ctx, articleKey(id)); err == nil {
		var article domain.Article
		if err := json.Unmarshal([]byte(cached), &article); err == nil && article.AuthorID != "" {
			return article.AuthorID, nil
		}
	}

	authorID, err := c.primary.GetAuthorID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFound("article", map[string]any{"id": id})
		}
		return "", err
	}
	return authorID, nil
}

// InvalidateOnWrite drops every list entry and, when id is given, the single
// resource entry. Called before the write's response returns; a failed
// invalidation is logged and the stale entries self-correct at TTL expiry.
func (c *ArticleCache) InvalidateOnWrite(ctx context.Context, id string) {
	if err := c.store.DeleteByPattern(ctx, listKeyPattern); err != nil {
		c.logger.Warn("list cache invalidation failed", zap.Error(err))
	}
	if id == "" {
		return
	}
	if err := c.store.Delete(ctx, articleKey(id)); err != nil {
		c.logger.Warn("cache invalidation failed", zap.String("id", id), zap.Error(err))
	}
}

func (c *ArticleCache) populate(ctx context.Context, key string, value any) {
	encoded, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, key, string(encoded), c.ttl); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
