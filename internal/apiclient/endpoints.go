package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/blogdesk/blogdesk-go/internal/model"
)

// SignUp registers a new account. It does not sign in.
func (c *Client) SignUp(ctx context.Context, req model.SignUpRequest) (model.SignUpResponse, error) {
	var out model.SignUpResponse
	status, err := c.do(ctx, call{
		endpoint: "sign_up",
		method:   http.MethodPost,
		path:     "/auth/signup",
		body:     req,
		out:      &out,
	})
	if err != nil {
		return model.SignUpResponse{}, err
	}
	if err := checkShape(status, out.Data.ID != "", "sign up response has no user id"); err != nil {
		return model.SignUpResponse{}, err
	}
	return out, nil
}

// SignIn exchanges email and password for an identity and credential.
func (c *Client) SignIn(ctx context.Context, req model.SignInRequest) (model.AuthResponse, error) {
	var out model.AuthResponse
	status, err := c.do(ctx, call{
		endpoint: "sign_in",
		method:   http.MethodPost,
		path:     "/auth/signin",
		body:     req,
		out:      &out,
	})
	if err != nil {
		return model.AuthResponse{}, err
	}
	if err := checkShape(status, out.Data.ID != "" && out.Token != "", "sign in response has no user id or token"); err != nil {
		return model.AuthResponse{}, err
	}
	return out, nil
}

// ListPosts returns one page of posts.
func (c *Client) ListPosts(ctx context.Context, q model.ListQuery) (model.PostPage, error) {
	var out model.PostPage
	status, err := c.do(ctx, call{
		endpoint: "list_posts",
		method:   http.MethodGet,
		path:     "/blog",
		query:    listValues(q),
		out:      &out,
	})
	if err != nil {
		return model.PostPage{}, err
	}
	if err := checkShape(status, out.Data != nil, "post list has no data"); err != nil {
		return model.PostPage{}, err
	}
	for _, p := range out.Data {
		if err := checkShape(status, p.ID != "", "post without id in list"); err != nil {
			return model.PostPage{}, err
		}
	}
	return out, nil
}

// GetPost returns a post with its comments.
func (c *Client) GetPost(ctx context.Context, id string) (model.PostDetail, error) {
	var out model.PostDetail
	status, err := c.do(ctx, call{
		endpoint: "get_post",
		method:   http.MethodGet,
		path:     "/blog/" + url.PathEscape(id),
		out:      &out,
	})
	if err != nil {
		return model.PostDetail{}, err
	}
	if err := checkShape(status, out.Data.ID != "", "post response has no id"); err != nil {
		return model.PostDetail{}, err
	}
	for _, cm := range out.Comments {
		if err := checkShape(status, cm.ID != "", "comment without id"); err != nil {
			return model.PostDetail{}, err
		}
	}
	if out.Comments == nil {
		out.Comments = []model.Comment{}
	}
	return out, nil
}

// CreatePost publishes a new post authored by the session identity.
func (c *Client) CreatePost(ctx context.Context, in model.PostInput) (model.PostResponse, error) {
	return c.writePost(ctx, "create_post", http.MethodPost, "/blog", in)
}

// UpdatePost applies a partial update to a post.
func (c *Client) UpdatePost(ctx context.Context, id string, patch model.PostPatch) (model.PostResponse, error) {
	return c.writePost(ctx, "update_post", http.MethodPatch, "/blog/"+url.PathEscape(id), patch)
}

func (c *Client) writePost(ctx context.Context, endpoint, method, path string, body any) (model.PostResponse, error) {
	var out model.PostResponse
	status, err := c.do(ctx, call{
		endpoint: endpoint,
		method:   method,
		path:     path,
		body:     body,
		out:      &out,
	})
	if err != nil {
		return model.PostResponse{}, err
	}
	if err := checkShape(status, out.Data.ID != "", "post response has no id"); err != nil {
		return model.PostResponse{}, err
	}
	return out, nil
}

// DeletePost removes a post. A 204 yields an empty response.
func (c *Client) DeletePost(ctx context.Context, id string) (model.MessageResponse, error) {
	return c.remove(ctx, "delete_post", "/blog/"+url.PathEscape(id))
}

// AddComment posts a comment on a post.
func (c *Client) AddComment(ctx context.Context, postID, text string) (model.CommentResponse, error) {
	return c.writeComment(ctx, "add_comment", http.MethodPost,
		"/blog/"+url.PathEscape(postID)+"/comment", model.NewCommentRequest{Comment: text})
}

// UpdateComment replaces a comment's text.
func (c *Client) UpdateComment(ctx context.Context, commentID, text string) (model.CommentResponse, error) {
	return c.writeComment(ctx, "update_comment", http.MethodPatch,
		"/blog/comment/"+url.PathEscape(commentID), model.UpdateCommentRequest{Content: text})
}

func (c *Client) writeComment(ctx context.Context, endpoint, method, path string, body any) (model.CommentResponse, error) {
	var out model.CommentResponse
	status, err := c.do(ctx, call{
		endpoint: endpoint,
		method:   method,
		path:     path,
		body:     body,
		out:      &out,
	})
	if err != nil {
		return model.CommentResponse{}, err
	}
	if err := checkShape(status, out.Data.ID != "", "comment response has no id"); err != nil {
		return model.CommentResponse{}, err
	}
	return out, nil
}

// DeleteComment removes a comment. A 204 yields an empty response.
func (c *Client) DeleteComment(ctx context.Context, commentID string) (model.MessageResponse, error) {
	return c.remove(ctx, "delete_comment", "/blog/comment/"+url.PathEscape(commentID))
}

func (c *Client) remove(ctx context.Context, endpoint, path string) (model.MessageResponse, error) {
	var out model.MessageResponse
	if _, err := c.do(ctx, call{
		endpoint: endpoint,
		method:   http.MethodDelete,
		path:     path,
		out:      &out,
	}); err != nil {
		return model.MessageResponse{}, err
	}
	return out, nil
}

func listValues(q model.ListQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	return v
}
