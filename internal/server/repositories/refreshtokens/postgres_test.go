package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/contacthub/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+refresh_tokens`).
		WithArgs("u-1", "tok-abc", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), "u-1", "tok-abc", time.Hour); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestFind_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	expires := time.Now().Add(time.Hour)
	rows := sqlmock.NewRows([]string{"user_id", "expires_at"}).AddRow("u-1", expires)
	mock.ExpectQuery(`SELECT\s+user_id,\s*expires_at\s+FROM\s+refresh_tokens`).
		WithArgs("tok-abc").
		WillReturnRows(rows)

	got, err := repo.Find(context.Background(), "tok-abc")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if got.UserID != "u-1" || got.Token != "tok-abc" {
		t.Fatalf("unexpected token: %+v", got)
	}
}

func TestFind_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+user_id,\s*expires_at`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+token\s*=\s*\$1`).
		WithArgs("tok-abc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "tok-abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDeleteForUser_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+user_id\s*=\s*\$1`).
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.DeleteForUser(context.Background(), "u-1"); err != nil {
		t.Fatalf("DeleteForUser error: %v", err)
	}
}
