package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/blogdesk/blogdesk-go/internal/model"
)

// AuthAPI is the part of the API client used for authentication.
type AuthAPI interface {
	SignUp(ctx context.Context, req model.SignUpRequest) (model.SignUpResponse, error)
	SignIn(ctx context.Context, req model.SignInRequest) (model.AuthResponse, error)
}

// SessionStore is the part of the session store the services need.
type SessionStore interface {
	Login(ctx context.Context, identity model.Identity, credential string) error
	Logout(ctx context.Context) error
	Identity() (model.Identity, bool)
}

// SignUpInput is the sign-up form.
type SignUpInput struct {
	Name        string `validate:"required,max=100"`
	Email       string `validate:"required,email"`
	Password    string `validate:"required,min=6"`
	Designation string `validate:"max=100"`
}

// SignInInput is the sign-in form.
type SignInInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// AuthService handles sign up, sign in and sign out.
type AuthService struct {
	api      AuthAPI
	session  SessionStore
	validate *validator.Validate
	inflight *inflight
}

// NewAuthService creates a new AuthService.
func NewAuthService(api AuthAPI, session SessionStore, validate *validator.Validate) *AuthService {
	return &AuthService{
		api:      api,
		session:  session,
		validate: validate,
		inflight: newInflight(),
	}
}

// SignUp creates an account. The caller is not signed in afterwards.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (model.Identity, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Designation = strings.TrimSpace(in.Designation)
	if err := validateInput(s.validate, in); err != nil {
		return model.Identity{}, err
	}

	release, err := s.inflight.acquire("signup", strings.ToLower(in.Email))
	if err != nil {
		return model.Identity{}, err
	}
	defer release()

	resp, err := s.api.SignUp(ctx, model.SignUpRequest{
		Name:        in.Name,
		Email:       in.Email,
		Password:    in.Password,
		Designation: in.Designation,
	})
	if err != nil {
		return model.Identity{}, err
	}
	return resp.Data, nil
}

// SignIn authenticates and stores the returned identity and credential in
// the session, replacing any previous one.
func (s *AuthService) SignIn(ctx context.Context, in SignInInput) (model.Identity, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validateInput(s.validate, in); err != nil {
		return model.Identity{}, err
	}

	release, err := s.inflight.acquire("signin", strings.ToLower(in.Email))
	if err != nil {
		return model.Identity{}, err
	}
	defer release()

	resp, err := s.api.SignIn(ctx, model.SignInRequest{Email: in.Email, Password: in.Password})
	if err != nil {
		return model.Identity{}, err
	}

	if err := s.session.Login(ctx, resp.Data, resp.Token); err != nil {
		return model.Identity{}, err
	}
	return resp.Data, nil
}

// SignOut clears the session.
func (s *AuthService) SignOut(ctx context.Context) error {
	return s.session.Logout(ctx)
}

// CurrentIdentity returns the signed-in identity, if any.
func (s *AuthService) CurrentIdentity() (model.Identity, bool) {
	return s.session.Identity()
}
