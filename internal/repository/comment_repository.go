package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-platform/internal/domain"
)

// CommentRepository defines persistence access for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByArticle(ctx context.Context, articleID string) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository returns a Postgres-backed implementation.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (id, article_id, author_id, author_name, parent_id, content)
        VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		comment.ID,
		comment.ResourceID,
		comment.AuthorID,
		comment.AuthorName,
		comment.ParentID,
		comment.Content,
	).Scan(&comment.CreatedAt)
}

func (r *commentRepository) ListByArticle(ctx context.Context, articleID string) ([]domain.Comment, error) {
	const query = `
        SELECT id, article_id, author_id, author_name, COALESCE(parent_id, ''), content, created_at
        FROM comments
        WHERE article_id=$1
        ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]domain.Comment, 0)
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.ResourceID,
			&comment.AuthorID,
			&comment.AuthorName,
			&comment.ParentID,
			&comment.Content,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}
