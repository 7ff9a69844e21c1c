package service

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/blogdesk/blogdesk-go/internal/model"
)

// fakeAPI implements AuthAPI, PostAPI and CommentAPI in memory.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	posts    map[string]model.PostDetail
	signIn   model.AuthResponse
	err      error
	listArgs model.ListQuery

	// block, when set, is waited on inside mutating calls.
	block chan struct{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{posts: map[string]model.PostDetail{}}
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeAPI) wait() {
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeAPI) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) SignUp(_ context.Context, req model.SignUpRequest) (model.SignUpResponse, error) {
	f.record("SignUp")
	if f.err != nil {
		return model.SignUpResponse{}, f.err
	}
	return model.SignUpResponse{Message: "created", Data: model.Identity{ID: "new", Name: req.Name, Email: req.Email}}, nil
}

func (f *fakeAPI) SignIn(context.Context, model.SignInRequest) (model.AuthResponse, error) {
	f.record("SignIn")
	if f.err != nil {
		return model.AuthResponse{}, f.err
	}
	return f.signIn, nil
}

func (f *fakeAPI) ListPosts(_ context.Context, q model.ListQuery) (model.PostPage, error) {
	f.record("ListPosts")
	f.listArgs = q
	return model.PostPage{Data: []model.Post{}, Meta: model.PageMeta{Page: q.Page, TotalPages: 3}}, f.err
}

func (f *fakeAPI) GetPost(_ context.Context, id string) (model.PostDetail, error) {
	f.record("GetPost")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return model.PostDetail{}, f.err
	}
	return f.posts[id], nil
}

func (f *fakeAPI) CreatePost(_ context.Context, in model.PostInput) (model.PostResponse, error) {
	f.record("CreatePost")
	f.wait()
	return model.PostResponse{Data: model.Post{ID: "p-new", Title: in.Title, Body: in.Body}}, f.err
}

func (f *fakeAPI) UpdatePost(_ context.Context, id string, patch model.PostPatch) (model.PostResponse, error) {
	f.record("UpdatePost")
	f.wait()
	return model.PostResponse{Data: model.Post{ID: id, Title: *patch.Title, Body: *patch.Body}}, f.err
}

func (f *fakeAPI) DeletePost(context.Context, string) (model.MessageResponse, error) {
	f.record("DeletePost")
	f.wait()
	return model.MessageResponse{}, f.err
}

func (f *fakeAPI) AddComment(_ context.Context, postID, text string) (model.CommentResponse, error) {
	f.record("AddComment")
	f.wait()
	return model.CommentResponse{Data: model.Comment{ID: "c-new", PostID: postID, Text: text}}, f.err
}

func (f *fakeAPI) UpdateComment(_ context.Context, id, text string) (model.CommentResponse, error) {
	f.record("UpdateComment")
	f.wait()
	return model.CommentResponse{Data: model.Comment{ID: id, Text: text}}, f.err
}

func (f *fakeAPI) DeleteComment(context.Context, string) (model.MessageResponse, error) {
	f.record("DeleteComment")
	f.wait()
	return model.MessageResponse{}, f.err
}

// fakeSession implements SessionStore.
type fakeSession struct {
	identity   model.Identity
	credential string
	loginErr   error
}

func (s *fakeSession) Login(_ context.Context, ident model.Identity, credential string) error {
	if s.loginErr != nil {
		return s.loginErr
	}
	s.identity, s.credential = ident, credential
	return nil
}

func (s *fakeSession) Logout(context.Context) error {
	s.identity, s.credential = model.Identity{}, ""
	return nil
}

func (s *fakeSession) Identity() (model.Identity, bool) {
	return s.identity, !s.identity.IsZero()
}

var (
	owner    = model.Identity{ID: "u1", Name: "Owner"}
	stranger = model.Identity{ID: "u2", Name: "Stranger"}
)

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}
