package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-platform/internal/domain"
)

// UserRepository defines persistence access for identities.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	Summary(ctx context.Context) (*domain.UserSummary, error)
	SignupsByDay(ctx context.Context, days int) ([]domain.DayCount, error)
	CountByRole(ctx context.Context) ([]domain.RoleCount, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, name, email, password_hash, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, role, created_at, updated_at
        FROM users WHERE id=$1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, role, created_at, updated_at
        FROM users WHERE email=$1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, role, created_at, updated_at
        FROM users ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	const query = `UPDATE users SET role=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, role, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) Summary(ctx context.Context) (*domain.UserSummary, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE updated_at >= $1),
               COUNT(*) FILTER (WHERE created_at >= $1)
        FROM users`

	cutoff := time.Now().AddDate(0, 0, -30)
	var summary domain.UserSummary
	if err := r.pool.QueryRow(ctx, query, cutoff).Scan(
		&summary.Total,
		&summary.ActiveLast30Days,
		&summary.NewLast30Days,
	); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *userRepository) SignupsByDay(ctx context.Context, days int) ([]domain.DayCount, error) {
	const query = `
        SELECT to_char(created_at, 'YYYY-MM-DD') AS day, COUNT(*)
        FROM users
        WHERE created_at >= $1
        GROUP BY day
        ORDER BY day`

	return queryDayCounts(ctx, r.pool, query, days)
}

func (r *userRepository) CountByRole(ctx context.Context) ([]domain.RoleCount, error) {
	const query = `
        SELECT role, COUNT(*)
        FROM users
        GROUP BY role
        ORDER BY COUNT(*) DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.RoleCount
	for rows.Next() {
		var rc domain.RoleCount
		if err := rows.Scan(&rc.Role, &rc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, rc)
	}
	return counts, rows.Err()
}

// queryDayCounts runs a per-day aggregate and fills missing days with zero,
// oldest first.
func queryDayCounts(ctx context.Context, pool *pgxpool.Pool, query string, days int) ([]domain.DayCount, error) {
	if days <= 0 {
		days = 30
	}
	start := time.Now().AddDate(0, 0, -(days - 1)).Truncate(24 * time.Hour)

	rows, err := pool.Query(ctx, query, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDay := make(map[string]int64, days)
	for rows.Next() {
		var day string
		var count int64
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		byDay[day] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	counts := make([]domain.DayCount, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		counts = append(counts, domain.DayCount{Day: day, Count: byDay[day]})
	}
	return counts, nil
}
