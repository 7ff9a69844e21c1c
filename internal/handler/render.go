package handler

import (
	"bytes"
	"embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/blogdesk/blogdesk-go/internal/apiclient"
	"github.com/blogdesk/blogdesk-go/internal/middleware"
	"github.com/blogdesk/blogdesk-go/internal/model"
	"github.com/blogdesk/blogdesk-go/internal/service"
	"github.com/blogdesk/blogdesk-go/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

const flashCookieName = "blogdesk_flash"

var pageNames = []string{
	"home.html",
	"post.html",
	"post_form.html",
	"delete.html",
	"signin.html",
	"signup.html",
	"error.html",
}

// IdentitySource reports the signed-in identity.
type IdentitySource interface {
	Identity() (model.Identity, bool)
}

// Page is what every template receives.
type Page struct {
	Title     string
	Viewer    model.Identity
	SignedIn  bool
	Notice    view.Notice
	CSRFField string
	CSRFToken string
	Data      any
}

// Renderer executes the embedded page templates inside the shared layout.
type Renderer struct {
	pages      map[string]*template.Template
	identities IdentitySource
	logger     *slog.Logger
}

// NewRenderer parses all page templates.
func NewRenderer(identities IdentitySource, logger *slog.Logger) (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages, identities: identities, logger: logger}, nil
}

// Render writes page with status. A pending flash notice is shown unless
// notice is already set.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name, title string, notice view.Notice, data any) {
	t, ok := rd.pages[name]
	if !ok {
		rd.logger.Error("unknown template", "template", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if flash := popFlash(w, r); notice.IsZero() {
		notice = flash
	}

	viewer, signedIn := rd.identities.Identity()
	page := Page{
		Title:     title,
		Viewer:    viewer,
		SignedIn:  signedIn,
		Notice:    notice,
		CSRFField: middleware.CSRFFieldName(),
		CSRFToken: middleware.CSRFToken(r.Context()),
		Data:      data,
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		rd.logger.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// RenderPanic is the recovery page.
func (rd *Renderer) RenderPanic(w http.ResponseWriter, r *http.Request) {
	rd.Render(w, r, http.StatusInternalServerError, "error.html", "Something went wrong",
		view.Failure("Something went wrong. Please try again."), nil)
}

// redirectWithNotice stores notice for the next page and redirects to target.
func redirectWithNotice(w http.ResponseWriter, r *http.Request, target string, notice view.Notice) {
	setFlash(w, notice)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func setFlash(w http.ResponseWriter, notice view.Notice) {
	raw, err := json.Marshal(notice)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func popFlash(w http.ResponseWriter, r *http.Request) view.Notice {
	c, err := r.Cookie(flashCookieName)
	if err != nil {
		return view.Notice{}
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Value: "", Path: "/", MaxAge: -1})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return view.Notice{}
	}
	var notice view.Notice
	if err := json.Unmarshal(raw, &notice); err != nil {
		return view.Notice{}
	}
	return notice
}

// statusFor maps an error to the status of the re-rendered form.
func statusFor(err error) int {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrRequestInFlight):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotSignedIn):
		return http.StatusUnauthorized
	}
	if apiErr, ok := apiclient.AsError(err); ok {
		if apiErr.Kind == apiclient.KindHTTP && apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// safeNext keeps post-sign-in redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
