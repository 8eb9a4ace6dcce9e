package domain

import "time"

type ForumPost struct {
	ID        string         `json:"id"`
	AuthorID  string         `json:"author_id"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Tags      []string       `json:"tags"`
	Comments  []ForumComment `json:"comments,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type ForumComment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
