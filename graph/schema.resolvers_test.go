package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloghub/blog-api/internal/database"
)

// --- fake store ---

type fakeStore struct {
	users map[int]*database.User
	posts map[int]*database.Post

	nextUserID int
	nextPostID int

	// when set, every call fails with this error
	err error

	// when set, CreateUser fails with a unique violation even if the
	// existence check saw nothing (simulates a concurrent insert)
	conflictOnCreateUser bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      map[int]*database.User{},
		posts:      map[int]*database.Post{},
		nextUserID: 1,
		nextPostID: 1,
	}
}

func (f *fakeStore) addUser(username, password string) *database.User {
	u := &database.User{ID: f.nextUserID, Username: username, Password: password}
	f.users[u.ID] = u
	f.nextUserID++
	return u
}

func (f *fakeStore) addPost(title, body string, authorID int) *database.Post {
	p := &database.Post{ID: f.nextPostID, Title: title, Body: body, AuthorID: authorID}
	f.posts[p.ID] = p
	f.nextPostID++
	return p
}

func (f *fakeStore) GetUser(ctx context.Context, id int) (*database.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[id], nil
}

func (f *fakeStore) GetUserByUsername(ctx context.Context, username string) (*database.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListUsers(ctx context.Context) ([]*database.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var users []*database.User
	for id := 1; id < f.nextUserID; id++ {
		if u, ok := f.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (f *fakeStore) CreateUser(ctx context.Context, username, password string) (*database.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.conflictOnCreateUser {
		return nil, &pq.Error{Code: "23505"}
	}
	return f.addUser(username, password), nil
}

func (f *fakeStore) UpdateUser(ctx context.Context, id int, updates map[string]any) (*database.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	if v, ok := updates["username"]; ok {
		u.Username = v.(string)
	}
	if v, ok := updates["password"]; ok {
		u.Password = v.(string)
	}
	return u, nil
}

func (f *fakeStore) DeleteUser(ctx context.Context, id int) error {
	if f.err != nil {
		return f.err
	}
	for pid, p := range f.posts {
		if p.AuthorID == id {
			delete(f.posts, pid)
		}
	}
	delete(f.users, id)
	return nil
}

func (f *fakeStore) GetPost(ctx context.Context, id int) (*database.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.posts[id], nil
}

func (f *fakeStore) ListPosts(ctx context.Context) ([]*database.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	var posts []*database.Post
	for id := 1; id < f.nextPostID; id++ {
		if p, ok := f.posts[id]; ok {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func (f *fakeStore) ListPostsByAuthor(ctx context.Context, authorID int) ([]*database.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	var posts []*database.Post
	for id := 1; id < f.nextPostID; id++ {
		if p, ok := f.posts[id]; ok && p.AuthorID == authorID {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func (f *fakeStore) CreatePost(ctx context.Context, title, body string, authorID int) (*database.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.addPost(title, body, authorID), nil
}

func (f *fakeStore) UpdatePost(ctx context.Context, id int, updates map[string]any) (*database.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, errors.New("post not found")
	}
	if v, ok := updates["title"]; ok {
		p.Title = v.(string)
	}
	if v, ok := updates["body"]; ok {
		p.Body = v.(string)
	}
	return p, nil
}

func (f *fakeStore) DeletePost(ctx context.Context, id int) error {
	if f.err != nil {
		return f.err
	}
	delete(f.posts, id)
	return nil
}

// --- helpers ---

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func newTestResolver(store Store) *Resolver {
	return NewResolver(store)
}

// --- query tests ---

func TestGetAllPosts(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice", "p1")
	store.addPost("T1", "B1", alice.ID)
	store.addPost("T2", "B2", alice.ID)

	r := newTestResolver(store)
	posts, err := r.Query().GetAllPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "T1", posts[0].Title)
	assert.Equal(t, alice.ID, posts[0].AuthorID)
}

func TestGetPost_NotFound(t *testing.T) {
	r := newTestResolver(newFakeStore())

	_, err := r.Query().GetPost(context.Background(), intPtr(99))
	require.EqualError(t, err, "Post não encontrado")
}

func TestGetPost_NilID(t *testing.T) {
	r := newTestResolver(newFakeStore())

	_, err := r.Query().GetPost(context.Background(), nil)
	require.EqualError(t, err, "Post não encontrado")
}

func TestGetUser(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice", "p1")

	r := newTestResolver(store)
	user, err := r.Query().GetUser(context.Background(), intPtr(alice.ID))
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, alice.ID, user.UUID)
}

func TestGetUser_NotFound(t *testing.T) {
	r := newTestResolver(newFakeStore())

	_, err := r.Query().GetUser(context.Background(), intPtr(99))
	require.EqualError(t, err, "Usuário não encontrado")
}

func TestGetAllUsers(t *testing.T) {
	store := newFakeStore()
	store.addUser("alice", "p1")
	store.addUser("bob", "p2")

	r := newTestResolver(store)
	users, err := r.Query().GetAllUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bob", users[1].Username)
}

func TestQueries_StoreError(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("db down")

	r := newTestResolver(store)
	_, err := r.Query().GetAllPosts(context.Background())
	require.EqualError(t, err, "db down")
	_, err = r.Query().GetUser(context.Background(), intPtr(1))
	require.EqualError(t, err, "db down")
}

// --- post mutation tests ---

func TestCreatePost(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice", "p1")

	r := newTestResolver(store)
	payload, err := r.Mutation().CreatePost(context.Background(), "T", "B", "alice")
	require.NoError(t, err)
	require.True(t, payload.OK)
	assert.Equal(t, "Post criado", payload.Message)
	require.NotNil(t, payload.Post)
	assert.Equal(t, alice.ID, payload.Post.AuthorID)

	author, err := r.Post().Author(context.Background(), payload.Post)
	require.NoError(t, err)
	assert.Equal(t, "alice", author.Username)
}

func TestCreatePost_UnknownUsername(t *testing.T) {
	store := newFakeStore()

	r := newTestResolver(store)
	payload, err := r.Mutation().CreatePost(context.Background(), "T", "B", "ghost")
	require.NoError(t, err)
	assert.False(t, payload.OK)
	assert.Equal(t, "Usuário inválido", payload.Message)
	assert.Nil(t, payload.Post)
	assert.Empty(t, store.posts)
}

func TestUpdatePost_TitleOnly(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice", "p1")
	post := store.addPost("old title", "old body", alice.ID)

	r := newTestResolver(store)
	payload, err := r.Mutation().UpdatePost(context.Background(), intPtr(post.ID), strPtr("new title"), nil)
	require.NoError(t, err)
	require.True(t, payload.OK)
	assert.Equal(t, "Post atualizado", payload.Message)
	assert.Equal(t, "new title", payload.Post.Title)
	assert.Equal(t, "old body", payload.Post.Body)
}

func TestUpdatePost_BodyOnly(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice", "p1")
	post := store.addPost("old title", "old body", alice.ID)

	r := newTestResolver(store)
	payload, err := r.Mutation().UpdatePost(context.Background(), intPtr(post.ID), nil, strPtr("new body"))
	require.NoError(t, err)
	assert.Equal(t, "old title", payload.Post.Title)
	assert.Equal(t, "new body", payload.Post.Body)
}

func TestUpdatePost_EmptyStringMeansNoChange(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice", "p1")
	post := store.addPost("old title", "old body", alice.ID)

	r := newTestResolver(store)
	payload, err := r.Mutation().UpdatePost(context.Background(), intPtr(post.ID), strPtr(""), strPtr(""))
	require.NoError(t, err)
	require.True(t, payload.OK)
	assert.Equal(t, "old title", payload.Post.Title)
	assert.Equal(t, "old body", payload.Post.Body)
}

func TestUpdatePost_NotFound(t *testing.T) {
	r := newTestResolver(newFakeStore())

	payload, err := r.Mutation().UpdatePost(context.Background(), intPtr(99), strPtr("x"), nil)
	require.NoError(t, err)
	assert.False(t, payload.OK)
	assert.Equal(t, "Post não encontrado", payload.Message)
	assert.Nil(t, payload.Post)
}

func TestDeletePost(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice", "p1")
	post := store.addPost("T", "B", alice.ID)

	r := newTestResolver(store)
	payload, err := r.Mutation().DeletePost(context.Background(), intPtr(post.ID))
	require.NoError(t, err)
	require.True(t, payload.OK)
	assert.Equal(t, "Post removido com sucesso.", payload.Message)
	assert.Empty(t, store.posts)

	// repeated delete yields the same not-found envelope
	payload, err = r.Mutation().DeletePost(context.Background(), intPtr(post.ID))
	require.NoError(t, err)
	assert.False(t, payload.OK)
	assert.Equal(t, "Post inválido.", payload.Message)
}

// --- user mutation tests ---

func TestCreateUser(t *testing.T) {
	store := newFakeStore()

	r := newTestResolver(store)
	payload, err := r.Mutation().CreateUser(context.Background(), strPtr("alice"), strPtr("p1"))
	require.NoError(t, err)
	require.True(t, payload.OK)
	assert.Equal(t, "Criado com sucesso", payload.Message)
	require.NotNil(t, payload.User)
	assert.Equal(t, "alice", payload.User.Username)
	assert.Len(t, store.users, 1)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	store := newFakeStore()
	store.addUser("alice", "p1")

	r := newTestResolver(store)
	payload, err := r.Mutation().CreateUser(context.Background(), strPtr("alice"), strPtr("p2"))
	require.NoError(t, err)
	assert.False(t, payload.OK)
	assert.Equal(t, "username já existe", payload.Message)
	assert.Nil(t, payload.User)
	assert.Len(t, store.users, 1)
}

func TestCreateUser_InsertRace(t *testing.T) {
	store := newFakeStore()
	store.conflictOnCreateUser = true

	r := newTestResolver(store)
	payload, err := r.Mutation().CreateUser(context.Background(), strPtr("alice"), strPtr("p1"))
	require.NoError(t, err)
	assert.False(t, payload.OK)
	assert.Equal(t, "username já existe", payload.Message)
}

func TestUpdateUser_PasswordOnly(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice", "p1")

	r := newTestResolver(store)
	payload, err := r.Mutation().UpdateUser(context.Background(), intPtr(alice.ID), nil, strPtr("p2"))
	require.NoError(t, err)
	require.True(t, payload.OK)
	assert.Equal(t, "Usuário atualizado", payload.Message)
	assert.Equal(t, "alice", payload.User.Username)
	assert.Equal(t, "p2", payload.User.Password)
}

func TestUpdateUser_NotFound(t *testing.T) {
	r := newTestResolver(newFakeStore())

	payload, err := r.Mutation().UpdateUser(context.Background(), intPtr(99), strPtr("x"), nil)
	require.NoError(t, err)
	assert.False(t, payload.OK)
	assert.Equal(t, "Usuário não encontrado", payload.Message)
}

func TestDeleteUser(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice", "p1")
	store.addPost("T", "B", alice.ID)

	r := newTestResolver(store)
	payload, err := r.Mutation().DeleteUser(context.Background(), intPtr(alice.ID))
	require.NoError(t, err)
	require.True(t, payload.OK)
	assert.Equal(t, "Usuário removido com sucesso.", payload.Message)
	assert.Empty(t, store.users)
	assert.Empty(t, store.posts, "owned posts are removed with the user")
}

func TestDeleteUser_NotFound(t *testing.T) {
	r := newTestResolver(newFakeStore())

	payload, err := r.Mutation().DeleteUser(context.Background(), intPtr(99))
	require.NoError(t, err)
	assert.False(t, payload.OK)
	assert.Equal(t, "Falha ao remover usuário", payload.Message)
}

// --- relation resolver tests ---

func TestUserPosts(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice", "p1")
	bob := store.addUser("bob", "p2")
	store.addPost("A1", "B", alice.ID)
	store.addPost("B1", "B", bob.ID)
	store.addPost("A2", "B", alice.ID)

	r := newTestResolver(store)
	posts, err := r.User().Posts(context.Background(), &User{UUID: alice.ID, Username: "alice"})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "A1", posts[0].Title)
	assert.Equal(t, "A2", posts[1].Title)
}

// --- full lifecycle ---

func TestLifecycle(t *testing.T) {
	store := newFakeStore()
	r := newTestResolver(store)
	ctx := context.Background()

	created, err := r.Mutation().CreateUser(ctx, strPtr("alice"), strPtr("p1"))
	require.NoError(t, err)
	require.True(t, created.OK)

	postPayload, err := r.Mutation().CreatePost(ctx, "T", "B", "alice")
	require.NoError(t, err)
	require.True(t, postPayload.OK)

	author, err := r.Post().Author(ctx, postPayload.Post)
	require.NoError(t, err)
	assert.Equal(t, "alice", author.Username)

	deleted, err := r.Mutation().DeletePost(ctx, intPtr(postPayload.Post.UUID))
	require.NoError(t, err)
	require.True(t, deleted.OK)

	_, err = r.Query().GetPost(ctx, intPtr(postPayload.Post.UUID))
	require.EqualError(t, err, "Post não encontrado")
}
