package contacts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/contacthub/internal/common"
	"github.com/dmitrijs2005/contacthub/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func sampleContact() *models.Contact {
	return &models.Contact{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@example.com",
		PhoneNumber: "+1-555-0100",
		Birthday:    time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC),
		OwnerID:     "owner-1",
	}
}

func contactRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "phone_number",
		"birthday", "additional_info", "owner_id", "created_at", "updated_at"})
	for _, id := range ids {
		rows.AddRow(id, "Jane", "Doe", "jane@example.com", "+1-555-0100",
			time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC), nil, "owner-1", time.Now(), time.Now())
	}
	return rows
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
		AddRow("c-1", time.Now(), time.Now())
	mock.ExpectQuery(`INSERT\s+INTO\s+contacts`).
		WithArgs("Jane", "Doe", "jane@example.com", "+1-555-0100", sqlmock.AnyArg(), sqlmock.AnyArg(), "owner-1").
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), sampleContact())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "c-1" {
		t.Fatalf("unexpected contact: %+v", got)
	}
}

func TestGetByID_OwnerScoped(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`WHERE\s+id\s*=\s*\$1\s+AND\s+owner_id\s*=\s*\$2`).
		WithArgs("c-1", "owner-1").
		WillReturnRows(contactRows("c-1"))

	got, err := repo.GetByID(context.Background(), "c-1", "owner-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ID != "c-1" || got.OwnerID != "owner-1" {
		t.Fatalf("unexpected contact: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`WHERE\s+id\s*=\s*\$1\s+AND\s+owner_id\s*=\s*\$2`).
		WithArgs("c-1", "other-owner").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "c-1", "other-owner")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestList_Pagination(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)WHERE\s+owner_id\s*=\s*\$1.*OFFSET\s+\$2\s+LIMIT\s+\$3`).
		WithArgs("owner-1", 10, 5).
		WillReturnRows(contactRows("c-1", "c-2"))

	got, err := repo.List(context.Background(), "owner-1", 10, 5)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(got))
	}
}

func TestList_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`WHERE\s+owner_id\s*=\s*\$1`).
		WithArgs("owner-1", 0, 10).
		WillReturnRows(contactRows())

	got, err := repo.List(context.Background(), "owner-1", 0, 10)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE\s+contacts`).
		WillReturnError(sql.ErrNoRows)

	c := sampleContact()
	c.ID = "c-404"
	_, err := repo.Update(context.Background(), c)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now())
	mock.ExpectQuery(`UPDATE\s+contacts`).
		WithArgs("c-1", "owner-1", "Jane", "Doe", "jane@example.com", "+1-555-0100", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	c := sampleContact()
	c.ID = "c-1"
	got, err := repo.Update(context.Background(), c)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.ID != "c-1" {
		t.Fatalf("unexpected contact: %+v", got)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+contacts\s+WHERE\s+id\s*=\s*\$1\s+AND\s+owner_id\s*=\s*\$2`).
		WithArgs("c-1", "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "c-1", "owner-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+contacts`).
		WithArgs("c-404", "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "c-404", "owner-1")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestUpcomingBirthdays_OwnerScoped(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`EXTRACT\(DOY\s+FROM\s+birthday\)`).
		WithArgs("owner-1", 7).
		WillReturnRows(contactRows("c-1"))

	got, err := repo.UpcomingBirthdays(context.Background(), "owner-1", 7)
	if err != nil {
		t.Fatalf("UpcomingBirthdays error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(got))
	}
}

func TestListAdmin_Unscoped(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM\s+contacts\s+ORDER\s+BY.*OFFSET\s+\$1\s+LIMIT\s+\$2`).
		WithArgs(0, 10).
		WillReturnRows(contactRows("c-1", "c-2", "c-3"))

	got, err := repo.ListAdmin(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("ListAdmin error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 contacts, got %d", len(got))
	}
}
