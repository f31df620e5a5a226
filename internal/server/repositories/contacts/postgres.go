package contacts

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

const contactColumns = `id, first_name, last_name, email, phone_number, birthday, additional_info, owner_id, created_at, updated_at`

// Day-of-year distance from today to the contact's next birthday, wrapping
// the year boundary. 366 keeps leap years from going negative.
const birthdayWindow = `((EXTRACT(DOY FROM birthday)::int - EXTRACT(DOY FROM CURRENT_DATE)::int + 366) % 366)`

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	query := `
		INSERT INTO contacts (first_name, last_name, email, phone_number, birthday, additional_info, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		contact.FirstName, contact.LastName, contact.Email, contact.PhoneNumber,
		contact.Birthday, contact.AdditionalInfo, contact.OwnerID).
		Scan(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return contact, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE id = $1 AND owner_id = $2
	`
	return r.scanContact(r.db.QueryRowContext(ctx, query, id, ownerID))
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string, skip, limit int) ([]*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE owner_id = $1
		ORDER BY last_name, first_name
		OFFSET $2 LIMIT $3
	`
	return r.queryContacts(ctx, query, ownerID, skip, limit)
}

func (r *PostgresRepository) Update(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	query := `
		UPDATE contacts
		SET first_name = $3, last_name = $4, email = $5, phone_number = $6,
		    birthday = $7, additional_info = $8, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		contact.ID, contact.OwnerID,
		contact.FirstName, contact.LastName, contact.Email, contact.PhoneNumber,
		contact.Birthday, contact.AdditionalInfo).
		Scan(&contact.CreatedAt, &contact.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return contact, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `
		DELETE FROM contacts
		WHERE id = $1 AND owner_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, ownerID)
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

func (r *PostgresRepository) UpcomingBirthdays(ctx context.Context, ownerID string, days int) ([]*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE owner_id = $1 AND ` + birthdayWindow + ` <= $2
		ORDER BY ` + birthdayWindow + `, last_name
	`
	return r.queryContacts(ctx, query, ownerID, days)
}

func (r *PostgresRepository) GetByIDAdmin(ctx context.Context, id string) (*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE id = $1
	`
	return r.scanContact(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) ListAdmin(ctx context.Context, skip, limit int) ([]*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		ORDER BY last_name, first_name
		OFFSET $1 LIMIT $2
	`
	return r.queryContacts(ctx, query, skip, limit)
}

func (r *PostgresRepository) UpcomingBirthdaysAdmin(ctx context.Context, days int) ([]*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE ` + birthdayWindow + ` <= $1
		ORDER BY ` + birthdayWindow + `, last_name
	`
	return r.queryContacts(ctx, query, days)
}

func (r *PostgresRepository) scanContact(row *sql.Row) (*models.Contact, error) {
	c := &models.Contact{}
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber,
		&c.Birthday, &c.AdditionalInfo, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) queryContacts(ctx context.Context, query string, args ...any) ([]*models.Contact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Contact
	for rows.Next() {
		c := &models.Contact{}
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber,
			&c.Birthday, &c.AdditionalInfo, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
