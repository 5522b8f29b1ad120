// Package database provides queries for blog API database operations.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

// =============================================================================
// USER QUERIES
// =============================================================================

// GetUser retrieves a user by ID.
func (c *Client) GetUser(ctx context.Context, id int) (*User, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, username, password, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)

	return scanUser(row)
}

// GetUserByUsername retrieves a user by username.
func (c *Client) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, username, password, created_at, updated_at
		FROM users
		WHERE username = $1
	`, username)

	return scanUser(row)
}

// ListUsers retrieves all users.
func (c *Client) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, username, password, created_at, updated_at
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Password, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

// CreateUser inserts a new user. Username uniqueness is enforced by the schema;
// callers can classify the failure with IsUniqueViolation.
func (c *Client) CreateUser(ctx context.Context, username, password string) (*User, error) {
	var u User
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password)
		VALUES ($1, $2)
		RETURNING id, username, password, created_at, updated_at
	`, username, password).Scan(&u.ID, &u.Username, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &u, nil
}

// UpdateUser applies the given column updates to a user and returns the result.
// Columns absent from updates keep their stored values.
func (c *Client) UpdateUser(ctx context.Context, id int, updates map[string]any) (*User, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{id}
	argIdx := 2

	for col, value := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, argIdx))
		args = append(args, value)
		argIdx++
	}

	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE id = $1
		RETURNING id, username, password, created_at, updated_at
	`, strings.Join(setClauses, ", "))

	u, err := scanUser(c.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %d not found", id)
	}
	return u, nil
}

// DeleteUser removes a user and all posts they own.
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE author_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete user posts: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

// =============================================================================
// POST QUERIES
// =============================================================================

// GetPost retrieves a post by ID.
func (c *Client) GetPost(ctx context.Context, id int) (*Post, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, title, body, author_id, created_at, updated_at
		FROM posts
		WHERE id = $1
	`, id)

	return scanPost(row)
}

// ListPosts retrieves all posts.
func (c *Client) ListPosts(ctx context.Context) ([]*Post, error) {
	return c.queryPosts(ctx, `
		SELECT id, title, body, author_id, created_at, updated_at
		FROM posts
		ORDER BY id
	`)
}

// ListPostsByAuthor retrieves all posts owned by the given user.
func (c *Client) ListPostsByAuthor(ctx context.Context, authorID int) ([]*Post, error) {
	return c.queryPosts(ctx, `
		SELECT id, title, body, author_id, created_at, updated_at
		FROM posts
		WHERE author_id = $1
		ORDER BY id
	`, authorID)
}

// CreatePost inserts a new post owned by the given user.
func (c *Client) CreatePost(ctx context.Context, title, body string, authorID int) (*Post, error) {
	var p Post
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, body, author_id)
		VALUES ($1, $2, $3)
		RETURNING id, title, body, author_id, created_at, updated_at
	`, title, body, authorID).Scan(&p.ID, &p.Title, &p.Body, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return &p, nil
}

// UpdatePost applies the given column updates to a post and returns the result.
// Columns absent from updates keep their stored values.
func (c *Client) UpdatePost(ctx context.Context, id int, updates map[string]any) (*Post, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{id}
	argIdx := 2

	for col, value := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, argIdx))
		args = append(args, value)
		argIdx++
	}

	query := fmt.Sprintf(`
		UPDATE posts
		SET %s
		WHERE id = $1
		RETURNING id, title, body, author_id, created_at, updated_at
	`, strings.Join(setClauses, ", "))

	p, err := scanPost(c.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("post %d not found", id)
	}
	return p, nil
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, id int) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

func scanPost(row rowScanner) (*Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Body, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}
	return &p, nil
}

func (c *Client) queryPosts(ctx context.Context, query string, args ...any) ([]*Post, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, &p)
	}
	return posts, rows.Err()
}
