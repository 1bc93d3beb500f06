package posts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/cryptown/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const listQ = `(?s)^SELECT\s+postid,\s*userid,\s*post,\s*datetime\s+FROM\s+posts\s+ORDER\s+BY\s+datetime,\s*postid$`

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	q := `(?s)^INSERT\s+INTO\s+posts\s*\(postid,\s*userid,\s*post,\s*datetime\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)$`
	mock.ExpectExec(q).WithArgs("p-1", "u-1", "hello", ts).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("p-2", "u-1", "again", ts).WillReturnError(errors.New("db down"))

	if err := repo.Create(context.Background(), &models.Post{ID: "p-1", UserID: "u-1", Body: "hello", DateTime: ts}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	err := repo.Create(context.Background(), &models.Post{ID: "p-2", UserID: "u-1", Body: "again", DateTime: ts})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+posts\s+WHERE\s+postid\s*=\s*\$1\)$`
	mock.ExpectQuery(q).WithArgs("p-1").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(q).WithArgs("p-x").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := repo.Exists(context.Background(), "p-1")
	if err != nil || !ok {
		t.Fatalf("p-1: ok=%v err=%v", ok, err)
	}
	ok, err = repo.Exists(context.Background(), "p-x")
	if err != nil || ok {
		t.Fatalf("p-x: ok=%v err=%v", ok, err)
	}
}

func TestList_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	t1 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)
	rows := sqlmock.NewRows([]string{"postid", "userid", "post", "datetime"}).
		AddRow("p-1", "u-1", "first", t1).
		AddRow("p-2", "u-2", "second", t2)
	mock.ExpectQuery(listQ).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "p-1" || got[1].Body != "second" {
		t.Fatalf("unexpected posts: %+v", got)
	}
}

func TestList_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).WillReturnError(errors.New("boom"))

	if _, err := repo.List(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestList_RowError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"postid", "userid", "post", "datetime"}).
		AddRow("p-1", "u-1", "first", time.Now()).
		RowError(0, errors.New("row broke"))
	mock.ExpectQuery(listQ).WillReturnRows(rows)

	if _, err := repo.List(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
