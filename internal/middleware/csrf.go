package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/blogdesk/blogdesk-go/internal/crypto"
)

const (
	csrfCookieName = "blogdesk_csrf"
	csrfFieldName  = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"
)

type csrfContextKey struct{}

// CSRFConfig configures the CSRF middleware.
type CSRFConfig struct {
	Secret       string
	TTL          time.Duration
	CookieSecure bool
}

// CSRF issues a signed form token on every request and requires a valid one
// on state-changing methods. Tokens are bound to a per-browser cookie.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	if cfg.TTL <= 0 {
		cfg.TTL = 12 * time.Hour
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			binding := ""
			if c, err := r.Cookie(csrfCookieName); err == nil {
				binding = c.Value
			}

			if !isSafeMethod(r.Method) {
				submitted := r.Header.Get(csrfHeaderName)
				if submitted == "" {
					if err := r.ParseForm(); err != nil {
						var tooLarge *http.MaxBytesError
						if errors.As(err, &tooLarge) {
							http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
							return
						}
						http.Error(w, "invalid form", http.StatusBadRequest)
						return
					}
					submitted = r.PostForm.Get(csrfFieldName)
				}
				if binding == "" || crypto.ValidateCSRFToken(submitted, cfg.Secret, binding) != nil {
					slog.Warn("csrf validation failed",
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)
					http.Error(w, "Your form expired. Go back, reload the page and try again.", http.StatusForbidden)
					return
				}
			}

			if binding == "" {
				binding = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     csrfCookieName,
					Value:    binding,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.CookieSecure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			token, err := crypto.GenerateCSRFToken(cfg.Secret, binding, cfg.TTL)
			if err != nil {
				slog.Error("failed to generate csrf token", slog.String("error", err.Error()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), csrfContextKey{}, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CSRFToken returns the form token issued for this request.
func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfContextKey{}).(string)
	return token
}

// CSRFFieldName is the hidden form field that carries the token.
func CSRFFieldName() string {
	return csrfFieldName
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}
