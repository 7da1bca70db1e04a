package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/opsdeck/opsdeck/internal/common"
	"github.com/opsdeck/opsdeck/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var userColumns = []string{"id", "email", "full_name", "hashed_password", "is_active", "is_superuser"}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(email,\s*full_name,\s*hashed_password,\s*is_active,\s*is_superuser\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id\s*$`

	rows := sqlmock.NewRows([]string{"id"}).AddRow(42)
	mock.ExpectQuery(q).
		WithArgs("alice@example.com", "Alice", "hashed", true, false).
		WillReturnRows(rows)

	u := &models.User{Email: "alice@example.com", FullName: "Alice", HashedPassword: "hashed", IsActive: true}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 42 || got.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.User{Email: "alice@example.com"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want ErrorAlreadyExists, got %v", err)
	}
}

func TestGetByEmail_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(userColumns).
		AddRow(7, "bob@example.com", "Bob", "hashed", true, true)
	mock.ExpectQuery(`SELECT\s+id,\s+email,.+FROM\s+users\s+WHERE\s+email\s*=\s*\$1`).
		WithArgs("bob@example.com").
		WillReturnRows(rows)

	u, err := repo.GetByEmail(context.Background(), "bob@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if u.ID != 7 || !u.IsSuperuser {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestList_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(userColumns).
		AddRow(1, "a@example.com", "A", "h1", true, false).
		AddRow(2, "b@example.com", "B", "h2", false, false)
	mock.ExpectQuery(`SELECT\s+id,\s+email,.+FROM\s+users\s+ORDER\s+BY\s+id\s+OFFSET\s+\$1\s+LIMIT\s+\$2`).
		WithArgs(int64(0), int64(100)).
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), 0, 100)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[1].Email != "b@example.com" {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestCount_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+count\(\*\)\s+FROM\s+users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	n, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if n != 5 {
		t.Fatalf("want 5, got %d", n)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE\s+users`).WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), &models.User{ID: 99})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestUpdate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Update(context.Background(), &models.User{ID: 1, Email: "taken@example.com"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want ErrorAlreadyExists, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 7); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+users`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}
