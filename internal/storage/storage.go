// Package storage persists generated news posts.
package storage

import (
	"context"
	"time"
)

// Post is a generated social-media post, optionally published to Facebook.
type Post struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Published  bool      `json:"published"`
	FacebookID string    `json:"facebook_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// PostStore archives posts across process restarts.
type PostStore interface {
	SavePost(ctx context.Context, post *Post) error
	MarkPublished(ctx context.Context, id, facebookID string) error
	ListPosts(ctx context.Context, limit int) ([]*Post, error)
	Close() error
}
