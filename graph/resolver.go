// Package graph provides GraphQL resolvers for the blog API.
package graph

//go:generate go run github.com/99designs/gqlgen generate

import (
	"context"

	"github.com/bloghub/blog-api/internal/database"
)

// Store is the storage boundary the resolvers operate against.
// *database.Client satisfies it; tests substitute fakes.
type Store interface {
	GetUser(ctx context.Context, id int) (*database.User, error)
	GetUserByUsername(ctx context.Context, username string) (*database.User, error)
	ListUsers(ctx context.Context) ([]*database.User, error)
	CreateUser(ctx context.Context, username, password string) (*database.User, error)
	UpdateUser(ctx context.Context, id int, updates map[string]any) (*database.User, error)
	DeleteUser(ctx context.Context, id int) error

	GetPost(ctx context.Context, id int) (*database.Post, error)
	ListPosts(ctx context.Context) ([]*database.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID int) ([]*database.Post, error)
	CreatePost(ctx context.Context, title, body string, authorID int) (*database.Post, error)
	UpdatePost(ctx context.Context, id int, updates map[string]any) (*database.Post, error)
	DeletePost(ctx context.Context, id int) error
}

// Resolver is the root resolver for GraphQL queries and mutations.
type Resolver struct {
	store Store
}

// NewResolver creates a new resolver with the given dependencies.
func NewResolver(store Store) *Resolver {
	return &Resolver{
		store: store,
	}
}
