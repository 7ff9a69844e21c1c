package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/blogdesk/blogdesk-go/internal/model"
)

var ErrCommentNotFound = errors.New("comment not found")

// CommentAPI is the part of the API client used for comments.
type CommentAPI interface {
	GetPost(ctx context.Context, id string) (model.PostDetail, error)
	AddComment(ctx context.Context, postID, text string) (model.CommentResponse, error)
	UpdateComment(ctx context.Context, commentID, text string) (model.CommentResponse, error)
	DeleteComment(ctx context.Context, commentID string) (model.MessageResponse, error)
}

type commentInput struct {
	Comment string `validate:"required,max=2000"`
}

// CommentService handles comments on posts.
type CommentService struct {
	api      CommentAPI
	session  IdentitySource
	validate *validator.Validate
	inflight *inflight
}

// NewCommentService creates a new CommentService.
func NewCommentService(api CommentAPI, session IdentitySource, validate *validator.Validate) *CommentService {
	return &CommentService{
		api:      api,
		session:  session,
		validate: validate,
		inflight: newInflight(),
	}
}

// Lookup finds a comment on a post.
func (s *CommentService) Lookup(ctx context.Context, postID, commentID string) (model.Comment, error) {
	detail, err := s.api.GetPost(ctx, postID)
	if err != nil {
		return model.Comment{}, err
	}
	for _, c := range detail.Comments {
		if c.ID == commentID {
			return c, nil
		}
	}
	return model.Comment{}, ErrCommentNotFound
}

// Add comments on a post as the signed-in identity.
func (s *CommentService) Add(ctx context.Context, postID, text string) (model.Comment, error) {
	if _, ok := s.session.Identity(); !ok {
		return model.Comment{}, ErrNotSignedIn
	}
	text, err := s.validateText(text)
	if err != nil {
		return model.Comment{}, err
	}

	release, err := s.inflight.acquire("add-comment", postID)
	if err != nil {
		return model.Comment{}, err
	}
	defer release()

	resp, err := s.api.AddComment(ctx, postID, text)
	if err != nil {
		return model.Comment{}, err
	}
	return resp.Data, nil
}

// Update replaces the text of a comment the identity wrote.
func (s *CommentService) Update(ctx context.Context, comment model.Comment, text string) (model.Comment, error) {
	if err := s.authorize(comment, "edit this comment"); err != nil {
		return model.Comment{}, err
	}
	text, err := s.validateText(text)
	if err != nil {
		return model.Comment{}, err
	}

	release, err := s.inflight.acquire("update-comment", comment.ID)
	if err != nil {
		return model.Comment{}, err
	}
	defer release()

	resp, err := s.api.UpdateComment(ctx, comment.ID, text)
	if err != nil {
		return model.Comment{}, err
	}
	return resp.Data, nil
}

// Delete removes a comment the identity wrote.
func (s *CommentService) Delete(ctx context.Context, comment model.Comment) error {
	if err := s.authorize(comment, "delete this comment"); err != nil {
		return err
	}

	release, err := s.inflight.acquire("delete-comment", comment.ID)
	if err != nil {
		return err
	}
	defer release()

	_, err = s.api.DeleteComment(ctx, comment.ID)
	return err
}

func (s *CommentService) authorize(comment model.Comment, action string) error {
	ident, ok := s.session.Identity()
	if !ok {
		return ErrNotSignedIn
	}
	if !ident.Owns(comment.Author) {
		return &AuthorizationError{Action: action}
	}
	return nil
}

func (s *CommentService) validateText(text string) (string, error) {
	in := commentInput{Comment: strings.TrimSpace(text)}
	if err := validateInput(s.validate, in); err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) && validationErr.Tag == "required" {
			validationErr.Message = "Please write a comment first"
		}
		return "", err
	}
	return in.Comment, nil
}
