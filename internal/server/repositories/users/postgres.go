package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contacthub/internal/common"
	"github.com/dmitrijs2005/contacthub/internal/dbx"
	"github.com/dmitrijs2005/contacthub/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User, roleName string) (*models.User, error) {
	query := `
		INSERT INTO users (email, hashed_password, role_id)
		VALUES ($1, $2, (SELECT id FROM roles WHERE name = $3))
		RETURNING id, is_active, role_id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.HashedPassword, roleName).
		Scan(&user.ID, &user.IsActive, &user.RoleID, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.RoleName = roleName
	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT u.id, u.email, u.hashed_password, u.is_active, u.avatar, u.role_id, r.name, u.created_at
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.email = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT u.id, u.email, u.hashed_password, u.is_active, u.avatar, u.role_id, r.name, u.created_at
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Activate(ctx context.Context, id string) error {
	query := `
		UPDATE users SET is_active = true
		WHERE id = $1
	`
	return r.execAffectingOne(ctx, query, id)
}

func (r *PostgresRepository) UpdateAvatar(ctx context.Context, id, url string) error {
	query := `
		UPDATE users SET avatar = $2
		WHERE id = $1
	`
	return r.execAffectingOne(ctx, query, id, url)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	query := `
		UPDATE users SET hashed_password = $2
		WHERE id = $1
	`
	return r.execAffectingOne(ctx, query, id, hashedPassword)
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.HashedPassword, &user.IsActive,
		&user.Avatar, &user.RoleID, &user.RoleName, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) execAffectingOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
