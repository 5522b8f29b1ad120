// Package graph provides GraphQL model types for the blog API.
package graph

// Health reports service status.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// User is the wire representation of an author.
type User struct {
	UUID     int    `json:"uuid"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Post is the wire representation of a blog post.
type Post struct {
	UUID     int    `json:"uuid"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	AuthorID int    `json:"authorId"`
}

// PostPayload is the mutation result envelope for post operations.
type PostPayload struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Post    *Post  `json:"post,omitempty"`
}

// UserPayload is the mutation result envelope for user operations.
type UserPayload struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}
