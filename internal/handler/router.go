package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/blogdesk/blogdesk-go/internal/metrics"
	"github.com/blogdesk/blogdesk-go/internal/middleware"
	"github.com/blogdesk/blogdesk-go/internal/service"
	"github.com/blogdesk/blogdesk-go/internal/view"
)

const maxFormBytes = 1 << 20 // 1MB

// RouterConfig holds everything the local web UI is built from.
type RouterConfig struct {
	Auth     *service.AuthService
	Posts    *service.PostService
	Comments *service.CommentService
	Session  IdentitySource
	Views    *view.Builder
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger

	CSRF           middleware.CSRFConfig
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter builds the chi router. Background work started for the router
// stops when ctx is done.
func NewRouter(ctx context.Context, cfg RouterConfig) (http.Handler, error) {
	renderer, err := NewRenderer(cfg.Session, cfg.Logger)
	if err != nil {
		return nil, err
	}

	authHandler := NewAuthHandler(cfg.Auth, renderer, cfg.Logger)
	postHandler := NewPostHandler(cfg.Posts, cfg.Views, renderer, cfg.Logger)
	commentHandler := NewCommentHandler(cfg.Comments, cfg.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger, renderer.RenderPanic))
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, signedIn := cfg.Session.Identity()
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "signedIn": signedIn})
	})
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(cfg.Gatherer))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst))
		r.Use(middleware.BodyLimit(maxFormBytes))
		r.Use(middleware.CSRF(cfg.CSRF))

		r.Get("/", postHandler.HandleList)
		r.Get("/blog/{id}", postHandler.HandleShow)

		r.Get("/signin", authHandler.HandleSignInPage)
		r.Post("/signin", authHandler.HandleSignIn)
		r.Get("/signup", authHandler.HandleSignUpPage)
		r.Post("/signup", authHandler.HandleSignUp)
		r.Post("/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(cfg.Session, "/signin"))

			r.Get("/create", postHandler.HandleNewPage)
			r.Post("/create", postHandler.HandleCreate)
			r.Get("/blog/{id}/edit", postHandler.HandleEditPage)
			r.Post("/blog/{id}/edit", postHandler.HandleUpdate)
			r.Get("/blog/{id}/delete", postHandler.HandleDeletePage)
			r.Post("/blog/{id}/delete", postHandler.HandleDelete)

			r.Post("/blog/{id}/comments", commentHandler.HandleAdd)
			r.Post("/blog/{id}/comments/{commentID}/edit", commentHandler.HandleUpdate)
			r.Post("/blog/{id}/comments/{commentID}/delete", commentHandler.HandleDelete)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		renderer.Render(w, r, http.StatusNotFound, "error.html", "Not found", view.Failure("Page not found"), nil)
	})

	return r, nil
}
