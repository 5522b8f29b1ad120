package database

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

func newClientWithMock(t *testing.T) (*Client, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewClientWithDB(db), mock, db
}

func userRows(id int, username, password string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "username", "password", "created_at", "updated_at"}).
		AddRow(id, username, password, now, now)
}

func postRows(id int, title, body string, authorID int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "title", "body", "author_id", "created_at", "updated_at"}).
		AddRow(id, title, body, authorID, now, now)
}

func TestGetUser_Found(t *testing.T) {
	c, mock, db := newClientWithMock(t)
	defer db.Close()

	q := `(?s)SELECT\s+id,\s*username,\s*password,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`
	mock.ExpectQuery(q).WithArgs(7).WillReturnRows(userRows(7, "alice", "p1"))

	got, err := c.GetUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetUser error: %v", err)
	}
	if got == nil || got.ID != 7 || got.Username != "alice" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	c, mock, db := newClientWithMock(t)
	defer db.Close()

	q := `(?s)SELECT\s+id,\s*username,\s*password,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`
	mock.ExpectQuery(q).WithArgs(99).WillReturnError(sql.ErrNoRows)

	got, err := c.GetUser(context.Background(), 99)
	if err != nil {
		t.Fatalf("GetUser error: %v", err)
	}
	if got != nil {
		t.Fatalf("want nil user, got %+v", got)
	}
}

func TestGetUserByUsername_Found(t *testing.T) {
	c, mock, db := newClientWithMock(t)
	defer db.Close()

	q := `(?s)SELECT\s+id,\s*username,\s*password,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1`
	mock.ExpectQuery(q).WithArgs("alice").WillReturnRows(userRows(1, "alice", "p1"))

	got, err := c.GetUserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername error: %v", err)
	}
	if got == nil || got.Username != "alice" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreateUser_Success(t *testing.T) {
	c, mock, db := newClientWithMock(t)
	defer db.Close()

	q := `(?s)INSERT\s+INTO\s+users\s*\(username,\s*password\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+id,\s*username,\s*password,\s*created_at,\s*updated_at`
	mock.ExpectQuery(q).WithArgs("alice", "p1").WillReturnRows(userRows(1, "alice", "p1"))

	got, err := c.CreateUser(context.Background(), "alice", "p1")
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if got.ID != 1 || got.Username != "alice" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	c, mock, db := newClientWithMock(t)
	defer db.Close()

	q := `(?s)INSERT\s+INTO\s+users`
	mock.ExpectQuery(q).WithArgs("alice", "p1").WillReturnError(&pq.Error{Code: "23505"})

	_, err := c.CreateUser(context.Background(), "alice", "p1")
	if !IsUniqueViolation(err) {
		t.Fatalf("want unique violation, got %v", err)
	}
}

func TestCreateUser_DBError(t *testing.T) {
	c, mock, db := newClientWithMock(t)
	defer db.Close()

	q := `(?s)INSERT\s+INTO\s+users`
	mock.ExpectQuery(q).WithArgs("alice", "p1").WillReturnError(errors.New("db down"))

	_, err := c.CreateUser(context.Background(), "alice", "p1")
	if err == nil || !regexp.MustCompile(`failed to create user: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	if IsUniqueViolation(err) {
		t.Fatalf("plain db error misclassified as unique violation")
	}
}

func TestUpdateUser_SingleColumn(t *testing.T) {
	c, mock, db := newClientWithMock(t)
	defer db.Close()

	q := `(?s)UPDATE\s+users\s+SET\s+updated_at\s*=\s*NOW\(\),\s*password\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+id,\s*username,\s*password,\s*created_at,\s*updated_at`
	mock.ExpectQuery(q).WithArgs(1, "p2").WillReturnRows(userRows(1, "alice", "p2"))

	got, err := c.UpdateUser(context.Background(), 1, map[string]any{"password": "p2"})
	if err != nil {
		t.Fatalf("UpdateUser error: %v", err)
	}
	if got.Password != "p2" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestUpdateUser_NoColumns(t *testing.T) {
	c, mock, db := newClientWithMock(t)
	defer db.Close()

	q := `(?s)UPDATE\s+users\s+SET\s+updated_at\s*=\s*NOW\(\)\s+WHERE\s+id\s*=\s*\$1\s+RETURNING`
	mock.ExpectQuery(q).WithArgs(1).WillReturnRows(userRows(1, "alice", "p1"))

	got, err := c.UpdateUser(context.Background(), 1, map[string]any{})
	if err != nil {
		t.Fatalf("UpdateUser error: %v", err)
	}
	if got.Username != "alice" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	c, mock, db := newClientWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)UPDATE\s+users`).WithArgs(99).WillReturnError(sql.ErrNoRows)

	_, err := c.UpdateUser(context.Background(), 99, map[string]any{})
	if err == nil || !regexp.MustCompile(`user 99 not found`).MatchString(err.Error()) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestDeleteUser_RemovesOwnedPosts(t *testing.T) {
	c, mock, db := newClientWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)DELETE\s+FROM\s+posts\s+WHERE\s+author_id\s*=\s*\$1`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`(?s)DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := c.DeleteUser(context.Background(), 1); err != nil {
		t.Fatalf("DeleteUser error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestDeleteUser_RollsBackOnError(t *testing.T) {
	c, mock, db := newClientWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)DELETE\s+FROM\s+posts`).
		WithArgs(1).
		WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	err := c.DeleteUser(context.Background(), 1)
	if err == nil || !regexp.MustCompile(`failed to delete user posts: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped delete error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestGetPost_Found(t *testing.T) {
	c, mock, db := newClientWithMock(t)
	defer db.Close()

	q := `(?s)SELECT\s+id,\s*title,\s*body,\s*author_id,\s*created_at,\s*updated_at\s+FROM\s+posts\s+WHERE\s+id\s*=\s*\$1`
	mock.ExpectQuery(q).WithArgs(3).WillReturnRows(postRows(3, "T", "B", 1))

	got, err := c.GetPost(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetPost error: %v", err)
	}
	if got == nil || got.Title != "T" || got.AuthorID != 1 {
		t.Fatalf("unexpected post: %+v", got)
	}
}

func TestListPosts(t *testing.T) {
	c, mock, db := newClientWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "body", "author_id", "created_at", "updated_at"}).
		AddRow(1, "T1", "B1", 1, now, now).
		AddRow(2, "T2", "B2", 1, now, now)
	mock.ExpectQuery(`(?s)SELECT\s+.*\s+FROM\s+posts\s+ORDER\s+BY\s+id`).WillReturnRows(rows)

	got, err := c.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPosts error: %v", err)
	}
	if len(got) != 2 || got[1].Title != "T2" {
		t.Fatalf("unexpected posts: %+v", got)
	}
}

func TestListPostsByAuthor(t *testing.T) {
	c, mock, db := newClientWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM\s+posts\s+WHERE\s+author_id\s*=\s*\$1`).
		WithArgs(1).
		WillReturnRows(postRows(1, "T", "B", 1))

	got, err := c.ListPostsByAuthor(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListPostsByAuthor error: %v", err)
	}
	if len(got) != 1 || got[0].AuthorID != 1 {
		t.Fatalf("unexpected posts: %+v", got)
	}
}

func TestCreatePost_Success(t *testing.T) {
	c, mock, db := newClientWithMock(t)
	defer db.Close()

	q := `(?s)INSERT\s+INTO\s+posts\s*\(title,\s*body,\s*author_id\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING`
	mock.ExpectQuery(q).WithArgs("T", "B", 1).WillReturnRows(postRows(5, "T", "B", 1))

	got, err := c.CreatePost(context.Background(), "T", "B", 1)
	if err != nil {
		t.Fatalf("CreatePost error: %v", err)
	}
	if got.ID != 5 {
		t.Fatalf("unexpected post: %+v", got)
	}
}

func TestUpdatePost_SingleColumn(t *testing.T) {
	c, mock, db := newClientWithMock(t)
	defer db.Close()

	q := `(?s)UPDATE\s+posts\s+SET\s+updated_at\s*=\s*NOW\(\),\s*title\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s+RETURNING`
	mock.ExpectQuery(q).WithArgs(3, "new").WillReturnRows(postRows(3, "new", "B", 1))

	got, err := c.UpdatePost(context.Background(), 3, map[string]any{"title": "new"})
	if err != nil {
		t.Fatalf("UpdatePost error: %v", err)
	}
	if got.Title != "new" || got.Body != "B" {
		t.Fatalf("unexpected post: %+v", got)
	}
}

func TestUpdatePost_NotFound(t *testing.T) {
	c, mock, db := newClientWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)UPDATE\s+posts`).WithArgs(99).WillReturnError(sql.ErrNoRows)

	_, err := c.UpdatePost(context.Background(), 99, map[string]any{})
	if err == nil || !regexp.MustCompile(`post 99 not found`).MatchString(err.Error()) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestDeletePost(t *testing.T) {
	c, mock, db := newClientWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)DELETE\s+FROM\s+posts\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := c.DeletePost(context.Background(), 3); err != nil {
		t.Fatalf("DeletePost error: %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(&pq.Error{Code: "23505"}) {
		t.Fatal("pq 23505 should be a unique violation")
	}
	if IsUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatal("foreign key violation is not a unique violation")
	}
	if IsUniqueViolation(errors.New("db down")) {
		t.Fatal("plain error is not a unique violation")
	}
}
