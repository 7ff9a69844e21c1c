package middleware

import (
	"net/http"
	"net/url"

	"github.com/blogdesk/blogdesk-go/internal/model"
)

// IdentitySource reports the signed-in identity.
type IdentitySource interface {
	Identity() (model.Identity, bool)
}

// RequireSession redirects to signinPath when nobody is signed in. The
// original path is passed along as "next".
func RequireSession(identities IdentitySource, signinPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := identities.Identity(); !ok {
				target := signinPath
				if r.Method == http.MethodGet {
					target += "?next=" + url.QueryEscape(r.URL.RequestURI())
				}
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
