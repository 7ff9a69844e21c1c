package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/blogdesk/blogdesk-go/internal/model"
)

const (
	listSort   = "createdAt"
	listSortBy = "desc"

	emptyPostMessage = "Please fill in both title and content"
)

// PostAPI is the part of the API client used for posts.
type PostAPI interface {
	ListPosts(ctx context.Context, q model.ListQuery) (model.PostPage, error)
	GetPost(ctx context.Context, id string) (model.PostDetail, error)
	CreatePost(ctx context.Context, in model.PostInput) (model.PostResponse, error)
	UpdatePost(ctx context.Context, id string, patch model.PostPatch) (model.PostResponse, error)
	DeletePost(ctx context.Context, id string) (model.MessageResponse, error)
}

// IdentitySource reports the signed-in identity.
type IdentitySource interface {
	Identity() (model.Identity, bool)
}

// PostInput is the create and edit form.
type PostInput struct {
	Title string `validate:"required,max=200"`
	Body  string `validate:"required"`
}

// PostService handles listing, reading and authoring posts.
type PostService struct {
	api      PostAPI
	session  IdentitySource
	validate *validator.Validate
	inflight *inflight
	pageSize int
}

// NewPostService creates a new PostService.
func NewPostService(api PostAPI, session IdentitySource, validate *validator.Validate, pageSize int) *PostService {
	if pageSize <= 0 {
		pageSize = 6
	}
	return &PostService{
		api:      api,
		session:  session,
		validate: validate,
		inflight: newInflight(),
		pageSize: pageSize,
	}
}

// List returns one page of posts, newest first. Pages start at 1.
func (s *PostService) List(ctx context.Context, page int) (model.PostPage, error) {
	if page < 1 {
		page = 1
	}
	return s.api.ListPosts(ctx, model.ListQuery{
		Page:   page,
		Limit:  s.pageSize,
		Sort:   listSort,
		SortBy: listSortBy,
	})
}

// Get returns a post and its comments.
func (s *PostService) Get(ctx context.Context, id string) (model.PostDetail, error) {
	return s.api.GetPost(ctx, id)
}

// GetForEdit returns a post only if the signed-in identity wrote it.
func (s *PostService) GetForEdit(ctx context.Context, id string) (model.Post, error) {
	ident, err := s.identity()
	if err != nil {
		return model.Post{}, err
	}
	return s.owned(ctx, ident, id, "edit this blog")
}

// Create publishes a new post.
func (s *PostService) Create(ctx context.Context, in PostInput) (model.Post, error) {
	ident, err := s.identity()
	if err != nil {
		return model.Post{}, err
	}
	in, err = s.validatePost(in)
	if err != nil {
		return model.Post{}, err
	}

	release, err := s.inflight.acquire("create-post", ident.ID)
	if err != nil {
		return model.Post{}, err
	}
	defer release()

	resp, err := s.api.CreatePost(ctx, model.PostInput{Title: in.Title, Body: in.Body})
	if err != nil {
		return model.Post{}, err
	}
	return resp.Data, nil
}

// Update replaces the title and body of a post the identity owns.
func (s *PostService) Update(ctx context.Context, id string, in PostInput) (model.Post, error) {
	ident, err := s.identity()
	if err != nil {
		return model.Post{}, err
	}
	in, err = s.validatePost(in)
	if err != nil {
		return model.Post{}, err
	}

	release, err := s.inflight.acquire("update-post", id)
	if err != nil {
		return model.Post{}, err
	}
	defer release()

	if _, err := s.owned(ctx, ident, id, "edit this blog"); err != nil {
		return model.Post{}, err
	}

	resp, err := s.api.UpdatePost(ctx, id, model.PostPatch{Title: &in.Title, Body: &in.Body})
	if err != nil {
		return model.Post{}, err
	}
	return resp.Data, nil
}

// Delete removes a post the identity owns.
func (s *PostService) Delete(ctx context.Context, id string) error {
	ident, err := s.identity()
	if err != nil {
		return err
	}

	release, err := s.inflight.acquire("delete-post", id)
	if err != nil {
		return err
	}
	defer release()

	if _, err := s.owned(ctx, ident, id, "delete this blog"); err != nil {
		return err
	}

	_, err = s.api.DeletePost(ctx, id)
	return err
}

func (s *PostService) identity() (model.Identity, error) {
	ident, ok := s.session.Identity()
	if !ok {
		return model.Identity{}, ErrNotSignedIn
	}
	return ident, nil
}

func (s *PostService) owned(ctx context.Context, ident model.Identity, id, action string) (model.Post, error) {
	detail, err := s.api.GetPost(ctx, id)
	if err != nil {
		return model.Post{}, err
	}
	if !ident.Owns(detail.Data.Author) {
		return model.Post{}, &AuthorizationError{Action: action}
	}
	return detail.Data, nil
}

func (s *PostService) validatePost(in PostInput) (PostInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)

	err := validateInput(s.validate, in)
	var validationErr *ValidationError
	if errors.As(err, &validationErr) && validationErr.Tag == "required" {
		validationErr.Message = emptyPostMessage
	}
	return in, err
}
