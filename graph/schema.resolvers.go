package graph

// This file will be automatically regenerated based on the schema, any resolver implementations
// will be copied through when generating and any unknown code will be moved to the end.
// Code generated by github.com/99designs/gqlgen version v0.17.45

import (
	"context"
	"errors"
	"github.com/bloghub/blog-api/internal/database"
)

// CreatePost creates a post owned by the user with the given username.
func (r *mutationResolver) CreatePost(ctx context.Context, title string, body string, username string) (*PostPayload, error) {
	user, err := r.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &PostPayload{OK: false, Message: msgUserInvalid}, nil
	}

	post, err := r.store.CreatePost(ctx, title, body, user.ID)
	if err != nil {
		return nil, err
	}
	return &PostPayload{OK: true, Message: msgPostCreated, Post: mapPostToGraphQL(post)}, nil
}

// UpdatePost updates the supplied fields of a post. Nil or empty arguments
// leave the stored values unchanged.
func (r *mutationResolver) UpdatePost(ctx context.Context, postID *int, title *string, body *string) (*PostPayload, error) {
	post, err := r.store.GetPost(ctx, intValue(postID))
	if err != nil {
		return nil, err
	}
	if post == nil {
		return &PostPayload{OK: false, Message: msgPostNotFound}, nil
	}

	updates := map[string]any{}
	if title != nil && *title != "" {
		updates["title"] = *title
	}
	if body != nil && *body != "" {
		updates["body"] = *body
	}

	updated, err := r.store.UpdatePost(ctx, post.ID, updates)
	if err != nil {
		return nil, err
	}
	return &PostPayload{OK: true, Message: msgPostUpdated, Post: mapPostToGraphQL(updated)}, nil
}

// DeletePost removes a post by ID.
func (r *mutationResolver) DeletePost(ctx context.Context, postID *int) (*PostPayload, error) {
	post, err := r.store.GetPost(ctx, intValue(postID))
	if err != nil {
		return nil, err
	}
	if post == nil {
		return &PostPayload{OK: false, Message: msgPostInvalid}, nil
	}

	if err := r.store.DeletePost(ctx, post.ID); err != nil {
		return nil, err
	}
	return &PostPayload{OK: true, Message: msgPostDeleted}, nil
}

// CreateUser registers a new user with a unique username.
func (r *mutationResolver) CreateUser(ctx context.Context, username *string, password *string) (*UserPayload, error) {
	name := stringValue(username)

	existing, err := r.store.GetUserByUsername(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &UserPayload{OK: false, Message: msgUsernameTaken}, nil
	}

	user, err := r.store.CreateUser(ctx, name, stringValue(password))
	if err != nil {
		// The existence check above races with concurrent inserts; the unique
		// constraint is the authoritative answer.
		if database.IsUniqueViolation(err) {
			return &UserPayload{OK: false, Message: msgUsernameTaken}, nil
		}
		return nil, err
	}
	return &UserPayload{OK: true, Message: msgUserCreated, User: mapUserToGraphQL(user)}, nil
}

// UpdateUser updates the supplied fields of a user. Nil or empty arguments
// leave the stored values unchanged.
func (r *mutationResolver) UpdateUser(ctx context.Context, userID *int, username *string, password *string) (*UserPayload, error) {
	user, err := r.store.GetUser(ctx, intValue(userID))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &UserPayload{OK: false, Message: msgUserNotFound}, nil
	}

	updates := map[string]any{}
	if username != nil && *username != "" {
		updates["username"] = *username
	}
	if password != nil && *password != "" {
		updates["password"] = *password
	}

	updated, err := r.store.UpdateUser(ctx, user.ID, updates)
	if err != nil {
		return nil, err
	}
	return &UserPayload{OK: true, Message: msgUserUpdated, User: mapUserToGraphQL(updated)}, nil
}

// DeleteUser removes a user by ID, along with the posts they own.
func (r *mutationResolver) DeleteUser(ctx context.Context, userID *int) (*UserPayload, error) {
	user, err := r.store.GetUser(ctx, intValue(userID))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &UserPayload{OK: false, Message: msgUserDeleteFailed}, nil
	}

	if err := r.store.DeleteUser(ctx, user.ID); err != nil {
		return nil, err
	}
	return &UserPayload{OK: true, Message: msgUserDeleted}, nil
}

// Author resolves the owning user of a post.
func (r *postResolver) Author(ctx context.Context, obj *Post) (*User, error) {
	user, err := r.store.GetUser(ctx, obj.AuthorID)
	if err != nil {
		return nil, err
	}
	return mapUserToGraphQL(user), nil
}

// Health returns the service health status.
func (r *queryResolver) Health(ctx context.Context) (*Health, error) {
	return &Health{
		Status:  "ok",
		Version: "0.1.0",
	}, nil
}

// GetAllPosts returns every post.
func (r *queryResolver) GetAllPosts(ctx context.Context) ([]*Post, error) {
	posts, err := r.store.ListPosts(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*Post, len(posts))
	for i, p := range posts {
		result[i] = mapPostToGraphQL(p)
	}
	return result, nil
}

// GetPost returns a single post by ID. A missing post is a top-level error,
// unlike the mutations below which report business failures in the payload.
func (r *queryResolver) GetPost(ctx context.Context, postID *int) (*Post, error) {
	post, err := r.store.GetPost(ctx, intValue(postID))
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errors.New(msgPostNotFound)
	}
	return mapPostToGraphQL(post), nil
}

// GetAllUsers returns every user.
func (r *queryResolver) GetAllUsers(ctx context.Context) ([]*User, error) {
	users, err := r.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*User, len(users))
	for i, u := range users {
		result[i] = mapUserToGraphQL(u)
	}
	return result, nil
}

// GetUser returns a single user by ID.
func (r *queryResolver) GetUser(ctx context.Context, userID *int) (*User, error) {
	user, err := r.store.GetUser(ctx, intValue(userID))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(msgUserNotFound)
	}
	return mapUserToGraphQL(user), nil
}

// Posts resolves the posts owned by a user.
func (r *userResolver) Posts(ctx context.Context, obj *User) ([]*Post, error) {
	posts, err := r.store.ListPostsByAuthor(ctx, obj.UUID)
	if err != nil {
		return nil, err
	}

	result := make([]*Post, len(posts))
	for i, p := range posts {
		result[i] = mapPostToGraphQL(p)
	}
	return result, nil
}

// Mutation returns MutationResolver implementation.
func (r *Resolver) Mutation() MutationResolver { return &mutationResolver{r} }

// Post returns PostResolver implementation.
func (r *Resolver) Post() PostResolver { return &postResolver{r} }

// Query returns QueryResolver implementation.
func (r *Resolver) Query() QueryResolver { return &queryResolver{r} }

// User returns UserResolver implementation.
func (r *Resolver) User() UserResolver { return &userResolver{r} }

type mutationResolver struct{ *Resolver }
type postResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }
type userResolver struct{ *Resolver }

// !!! WARNING !!!
// The code below was going to be deleted when updating resolvers. It has been copied here so you have
// one last chance to move it out of harms way if you want. There are two reasons this happens:
//   - When renaming or deleting a resolver the old code will be put in here. You can safely delete
//     it when you're done.
//   - You have helper methods in this file. Move them out to keep these resolver files clean.
const (
	msgPostNotFound     = "Post não encontrado"
	msgPostCreated      = "Post criado"
	msgPostUpdated      = "Post atualizado"
	msgPostInvalid      = "Post inválido."
	msgPostDeleted      = "Post removido com sucesso."
	msgUserNotFound     = "Usuário não encontrado"
	msgUserInvalid      = "Usuário inválido"
	msgUsernameTaken    = "username já existe"
	msgUserCreated      = "Criado com sucesso"
	msgUserUpdated      = "Usuário atualizado"
	msgUserDeleteFailed = "Falha ao remover usuário"
	msgUserDeleted      = "Usuário removido com sucesso."
)

func mapPostToGraphQL(p *database.Post) *Post {
	if p == nil {
		return nil
	}
	return &Post{
		UUID:     p.ID,
		Title:    p.Title,
		Body:     p.Body,
		AuthorID: p.AuthorID,
	}
}
func mapUserToGraphQL(u *database.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		UUID:     u.ID,
		Username: u.Username,
		Password: u.Password,
	}
}
func intValue(v *int) int {
	if v != nil {
		return *v
	}
	return 0
}
func stringValue(v *string) string {
	if v != nil {
		return *v
	}
	return ""
}
