package handler

import (
	"log/slog"
	"net/http"

	"github.com/blogdesk/blogdesk-go/internal/service"
	"github.com/blogdesk/blogdesk-go/internal/view"
)

// AuthForm is the data of the sign-in and sign-up pages.
type AuthForm struct {
	Name        string
	Email       string
	Designation string
	Next        string
}

// AuthHandler serves sign in, sign up and sign out.
type AuthHandler struct {
	service  *service.AuthService
	renderer *Renderer
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, renderer *Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, renderer: renderer, logger: logger}
}

// HandleSignInPage handles GET /signin requests.
func (h *AuthHandler) HandleSignInPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.service.CurrentIdentity(); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "signin.html", "Sign In", view.Notice{},
		AuthForm{Next: r.URL.Query().Get("next")})
}

// HandleSignIn handles POST /signin requests.
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := AuthForm{Email: r.PostForm.Get("email"), Next: r.PostForm.Get("next")}
	ident, err := h.service.SignIn(r.Context(), service.SignInInput{
		Email:    form.Email,
		Password: r.PostForm.Get("password"),
	})
	if err != nil {
		h.renderer.Render(w, r, statusFor(err), "signin.html", "Sign In",
			view.Failure(service.Message(err, "Failed to sign in")), form)
		return
	}

	h.logger.Info("signed in", "user_id", ident.ID)
	redirectWithNotice(w, r, safeNext(form.Next), view.Success("Signed in successfully"))
}

// HandleSignUpPage handles GET /signup requests.
func (h *AuthHandler) HandleSignUpPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "signup.html", "Sign Up", view.Notice{}, AuthForm{})
}

// HandleSignUp handles POST /signup requests.
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := AuthForm{
		Name:        r.PostForm.Get("name"),
		Email:       r.PostForm.Get("email"),
		Designation: r.PostForm.Get("designation"),
	}
	if _, err := h.service.SignUp(r.Context(), service.SignUpInput{
		Name:        form.Name,
		Email:       form.Email,
		Password:    r.PostForm.Get("password"),
		Designation: form.Designation,
	}); err != nil {
		h.renderer.Render(w, r, statusFor(err), "signup.html", "Sign Up",
			view.Failure(service.Message(err, "Failed to create account")), form)
		return
	}

	redirectWithNotice(w, r, "/signin", view.Success("Account created successfully"))
}

// HandleLogout handles POST /logout requests.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.SignOut(r.Context()); err != nil {
		h.logger.Error("failed to clear stored session", "error", err)
	}
	redirectWithNotice(w, r, "/", view.Info("You have been signed out"))
}
