package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-platform/internal/domain"
)

// ListOptions filter and page the article listing. They are canonicalized by
// the cache layer into a deterministic key.
type ListOptions struct {
	Page   int
	Limit  int
	Tags   []string
	Author string
	Search string
}

// Normalize clamps page and limit to their allowed ranges.
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit <= 0 {
		o.Limit = 20
	}
	if o.Limit > 100 {
		o.Limit = 100
	}
	return o
}

// ArticleRepository defines persistence access for content resources. The
// primary store is authoritative; the cache layer sits in front of reads.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	Update(ctx context.Context, article *domain.Article) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	GetAuthorID(ctx context.Context, id string) (string, error)
	List(ctx context.Context, opts ListOptions) (*domain.ArticleList, error)
	Summary(ctx context.Context) (*domain.ArticleSummary, error)
	CountByDay(ctx context.Context, days int) ([]domain.DayCount, error)
	CountByAuthor(ctx context.Context) ([]domain.AuthorCount, error)
	TopByComments(ctx context.Context, limit int) ([]domain.CommentedArticle, error)
}

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository returns a Postgres-backed implementation.
func NewArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &articleRepository{pool: pool}
}

const articleColumns = `
        a.id, a.title, a.content, COALESCE(a.image, ''), a.tags,
        a.author_id, COALESCE(u.name, ''), a.created_at, a.updated_at`

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	const query = `
        INSERT INTO articles (id, title, content, image, tags, author_id)
        VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		article.ID,
		article.Title,
		article.Content,
		article.Image,
		article.Tags,
		article.AuthorID,
	).Scan(&article.CreatedAt, &article.UpdatedAt)
}

func (r *articleRepository) Update(ctx context.Context, article *domain.Article) error {
	const query = `
        UPDATE articles
        SET title=$1, content=$2, image=NULLIF($3, ''), tags=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`

	return r.pool.QueryRow(ctx, query,
		article.Title,
		article.Content,
		article.Image,
		article.Tags,
		article.ID,
	).Scan(&article.UpdatedAt)
}

func (r *articleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	query := `
        SELECT ` + articleColumns + `
        FROM articles a LEFT JOIN users u ON u.id = a.author_id
        WHERE a.id=$1`

	var article domain.Article
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&article.Image,
		&article.Tags,
		&article.AuthorID,
		&article.AuthorName,
		&article.CreatedAt,
		&article.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) GetAuthorID(ctx context.Context, id string) (string, error) {
	var authorID string
	if err := r.pool.QueryRow(ctx, `SELECT author_id FROM articles WHERE id=$1`, id).Scan(&authorID); err != nil {
		return "", err
	}
	return authorID, nil
}

func (r *articleRepository) List(ctx context.Context, opts ListOptions) (*domain.ArticleList, error) {
	opts = opts.Normalize()

	where := make([]string, 0, 3)
	args := make([]any, 0, 5)

	if len(opts.Tags) > 0 {
		args = append(args, opts.Tags)
		where = append(where, fmt.Sprintf("a.tags && $%d", len(args)))
	}
	if opts.Author != "" {
		args = append(args, opts.Author)
		where = append(where, fmt.Sprintf("a.author_id = $%d", len(args)))
	}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		where = append(where, fmt.Sprintf("(a.title ILIKE $%d OR a.content ILIKE $%d)", len(args), len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM articles a` + clause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, err
	}

	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)
	listQuery := fmt.Sprintf(`
        SELECT `+articleColumns+`
        FROM articles a LEFT JOIN users u ON u.id = a.author_id%s
        ORDER BY a.created_at DESC
        LIMIT $%d OFFSET $%d`, clause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Article, 0, opts.Limit)
	for rows.Next() {
		var article domain.Article
		if err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.Content,
			&article.Image,
			&article.Tags,
			&article.AuthorID,
			&article.AuthorName,
			&article.CreatedAt,
			&article.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, article)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.ArticleList{
		Items: items,
		Total: total,
		Page:  opts.Page,
		Limit: opts.Limit,
	}, nil
}

func (r *articleRepository) Summary(ctx context.Context) (*domain.ArticleSummary, error) {
	// 200 words per minute, averaged over the most recent articles.
	const query = `
        SELECT COUNT(*),
               COALESCE((
                   SELECT ROUND(AVG(array_length(regexp_split_to_array(content, '\s+'), 1)) / 200.0, 1)
                   FROM (SELECT content FROM articles ORDER BY created_at DESC LIMIT 100) recent
               ), 0)
        FROM articles`

	var summary domain.ArticleSummary
	if err := r.pool.QueryRow(ctx, query).Scan(&summary.Total, &summary.AverageReadTimeMinutes); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *articleRepository) CountByDay(ctx context.Context, days int) ([]domain.DayCount, error) {
	const query = `
        SELECT to_char(created_at, 'YYYY-MM-DD') AS day, COUNT(*)
        FROM articles
        WHERE created_at >= $1
        GROUP BY day
        ORDER BY day`

	return queryDayCounts(ctx, r.pool, query, days)
}

func (r *articleRepository) CountByAuthor(ctx context.Context) ([]domain.AuthorCount, error) {
	const query = `
        SELECT a.author_id, COALESCE(u.name, 'Unknown'), COUNT(*)
        FROM articles a LEFT JOIN users u ON u.id = a.author_id
        GROUP BY a.author_id, u.name
        ORDER BY COUNT(*) DESC
        LIMIT 20`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.AuthorCount
	for rows.Next() {
		var ac domain.AuthorCount
		if err := rows.Scan(&ac.AuthorID, &ac.AuthorName, &ac.Count); err != nil {
			return nil, err
		}
		counts = append(counts, ac)
	}
	return counts, rows.Err()
}

func (r *articleRepository) TopByComments(ctx context.Context, limit int) ([]domain.CommentedArticle, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
        SELECT a.id, a.title, COUNT(c.id)
        FROM articles a JOIN comments c ON c.article_id = a.id
        GROUP BY a.id, a.title
        ORDER BY COUNT(c.id) DESC
        LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var top []domain.CommentedArticle
	for rows.Next() {
		var ca domain.CommentedArticle
		if err := rows.Scan(&ca.ArticleID, &ca.Title, &ca.Comments); err != nil {
			return nil, err
		}
		top = append(top, ca)
	}
	return top, rows.Err()
}
