package model

import (
	"encoding/json"
	"time"
)

// Comment is a reply scoped to a Post.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"comment"`
	Author    Identity  `json:"author"`
	PostID    string    `json:"blogId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Comment) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID        string          `json:"id"`
		MongoID   string          `json:"_id"`
		Comment   string          `json:"comment"`
		Content   string          `json:"content"`
		Author    json.RawMessage `json:"author"`
		CreatedBy json.RawMessage `json:"createdBy"`
		BlogID    string          `json:"blogId"`
		PostID    string          `json:"postId"`
		CreatedAt time.Time       `json:"createdAt"`
		UpdatedAt time.Time       `json:"updatedAt"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	author, err := decodeAuthor(raw.Author, raw.CreatedBy)
	if err != nil {
		return err
	}

	*c = Comment{
		ID:        firstNonEmpty(raw.ID, raw.MongoID),
		Text:      firstNonEmpty(raw.Comment, raw.Content),
		Author:    author,
		PostID:    firstNonEmpty(raw.BlogID, raw.PostID),
		CreatedAt: raw.CreatedAt,
		UpdatedAt: raw.UpdatedAt,
	}
	return nil
}

// CommentResponse is the envelope returned by comment create and update.
type CommentResponse struct {
	Message string  `json:"message"`
	Data    Comment `json:"data"`
}

// NewCommentRequest is the body of POST /blog/:id/comment.
type NewCommentRequest struct {
	Comment string `json:"comment"`
}

// UpdateCommentRequest is the body of PATCH /blog/comment/:id.
type UpdateCommentRequest struct {
	Content string `json:"content"`
}
