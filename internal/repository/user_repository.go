package repository

import (
	"context"
	"fmt"

	"tenera-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed admin user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

// List retrieves all admin users with their roles.
func (r *userRepository) List(ctx context.Context) ([]model.AdminUser, error) {
	query := `
		SELECT u.id, u.email, u.full_name, u.created_at,
		       COALESCE(array_agg(ur.role) FILTER (WHERE ur.role IS NOT NULL), '{}')
		FROM admin_users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		GROUP BY u.id
		ORDER BY u.email
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query admin users")
		return nil, fmt.Errorf("failed to query admin users: %w", err)
	}
	defer rows.Close()

	var users []model.AdminUser
	for rows.Next() {
		var u model.AdminUser
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.CreatedAt, &u.Roles); err != nil {
			return nil, fmt.Errorf("failed to scan admin user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admin users: %w", err)
	}

	return users, nil
}

// GetByID retrieves a single user with roles.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AdminUser, error) {
	query := `
		SELECT u.id, u.email, u.full_name, u.created_at,
		       COALESCE(array_agg(ur.role) FILTER (WHERE ur.role IS NOT NULL), '{}')
		FROM admin_users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		WHERE u.id = $1
		GROUP BY u.id
	`

	var u model.AdminUser
	err := r.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.FullName, &u.CreatedAt, &u.Roles)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to query admin user")
		return nil, fmt.Errorf("failed to query admin user: %w", err)
	}

	return &u, nil
}

// Create inserts a new admin user.
func (r *userRepository) Create(ctx context.Context, user *model.AdminUser) error {
	query := `INSERT INTO admin_users (id, email, full_name, created_at) VALUES ($1, $2, $3, $4)`

	if _, err := r.pool.Exec(ctx, query, user.ID, user.Email, user.FullName, user.CreatedAt); err != nil {
		r.logger.Error().Err(err).Str("email", user.Email).Msg("failed to create admin user")
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	return nil
}

// GrantRole adds a role to a user; granting twice is a no-op.
func (r *userRepository) GrantRole(ctx context.Context, userID uuid.UUID, role string) error {
	query := `
		INSERT INTO user_roles (user_id, role, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id, role) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, userID, role); err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("role", role).
			Msg("failed to grant role")
		return fmt.Errorf("failed to grant role: %w", err)
	}

	return nil
}

// RevokeRole removes a role from a user.
func (r *userRepository) RevokeRole(ctx context.Context, userID uuid.UUID, role string) error {
	query := `DELETE FROM user_roles WHERE user_id = $1 AND role = $2`

	if _, err := r.pool.Exec(ctx, query, userID, role); err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("role", role).
			Msg("failed to revoke role")
		return fmt.Errorf("failed to revoke role: %w", err)
	}

	return nil
}
