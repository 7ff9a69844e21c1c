package model

import (
	"encoding/json"
	"time"
)

// Post is a blog article. The API sends the id as "_id" on some routes and
// the author as "createdBy"; both spellings are accepted.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Author    Identity  `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Post) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID        string          `json:"id"`
		MongoID   string          `json:"_id"`
		Title     string          `json:"title"`
		Body      string          `json:"body"`
		Author    json.RawMessage `json:"author"`
		CreatedBy json.RawMessage `json:"createdBy"`
		CreatedAt time.Time       `json:"createdAt"`
		UpdatedAt time.Time       `json:"updatedAt"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	author, err := decodeAuthor(raw.CreatedBy, raw.Author)
	if err != nil {
		return err
	}

	*p = Post{
		ID:        firstNonEmpty(raw.MongoID, raw.ID),
		Title:     raw.Title,
		Body:      raw.Body,
		Author:    author,
		CreatedAt: raw.CreatedAt,
		UpdatedAt: raw.UpdatedAt,
	}
	return nil
}

// PageMeta is the pagination block of a post listing.
type PageMeta struct {
	Count      int `json:"count"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

// PostPage is the envelope returned by GET /blog.
type PostPage struct {
	Data []Post   `json:"data"`
	Meta PageMeta `json:"meta"`
}

// PostDetail is the envelope returned by GET /blog/:id.
type PostDetail struct {
	Data     Post      `json:"data"`
	Comments []Comment `json:"comments"`
}

// PostResponse is the envelope returned by post create and update.
type PostResponse struct {
	Message string `json:"message"`
	Data    Post   `json:"data"`
}

// PostInput is the body of POST /blog.
type PostInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// PostPatch is the body of PATCH /blog/:id. Nil fields are left unchanged.
type PostPatch struct {
	Title *string `json:"title,omitempty"`
	Body  *string `json:"body,omitempty"`
}

// ListQuery holds the optional query parameters of GET /blog.
// Zero values are not sent.
type ListQuery struct {
	Page   int
	Limit  int
	Sort   string
	SortBy string
}

// decodeAuthor accepts either a populated user object or a bare user id.
func decodeAuthor(candidates ...json.RawMessage) (Identity, error) {
	for _, raw := range candidates {
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		if raw[0] == '"' {
			var id string
			if err := json.Unmarshal(raw, &id); err != nil {
				return Identity{}, err
			}
			return Identity{ID: id}, nil
		}
		var ident Identity
		if err := json.Unmarshal(raw, &ident); err != nil {
			return Identity{}, err
		}
		return ident, nil
	}
	return Identity{}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
