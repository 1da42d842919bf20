package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/performance-dashboard/internal"
	"github.com/frahmantamala/performance-dashboard/internal/identity"
	"github.com/frahmantamala/performance-dashboard/pkg/logger"
)

const (
	DefaultLoginPath = "/login"
	DefaultHomePath  = "/"
)

// SessionReader is the part of session.Manager the guard consults.
type SessionReader interface {
	IsAuthenticated() bool
	HasPermission(required identity.Role) bool
	Current() (*identity.Identity, bool)
}

type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}

// Guard gates views on the current session. Anonymous visitors go to the
// login view and under-privileged identities to the home view; neither sees
// an error page.
type Guard struct {
	Session   SessionReader
	LoginPath string
	HomePath  string
	Logger    *slog.Logger
}

func NewGuard(s SessionReader, l *slog.Logger) *Guard {
	return &Guard{
		Session:   s,
		LoginPath: DefaultLoginPath,
		HomePath:  DefaultHomePath,
		Logger:    l,
	}
}

// Decide answers the access question without any HTTP involved. A nil
// required role only asks for an authenticated session.
func (g *Guard) Decide(required *identity.Role) Decision {
	if !g.Session.IsAuthenticated() {
		return RedirectLogin
	}
	if required != nil && !g.Session.HasPermission(*required) {
		return RedirectHome
	}
	return Allow
}

func (g *Guard) RequireAuthenticated() func(http.Handler) http.Handler {
	return g.require(nil)
}

func (g *Guard) RequireRole(role identity.Role) func(http.Handler) http.Handler {
	return g.require(&role)
}

func (g *Guard) require(required *identity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch g.Decide(required) {
			case RedirectLogin:
				g.logger().Warn("access denied: no session", "path", r.URL.Path)
				http.Redirect(w, r, g.loginPath(), http.StatusFound)
				return
			case RedirectHome:
				g.logger().Warn("access denied: role below requirement",
					"path", r.URL.Path,
					"required_role", *required)
				http.Redirect(w, r, g.homePath(), http.StatusFound)
				return
			}

			ctx := r.Context()
			if current, ok := g.Session.Current(); ok {
				ctx = internal.ContextWithIdentityID(ctx, current.ID)
				ctx = logger.With(ctx, "identity_id", current.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (g *Guard) logger() *slog.Logger {
	if g.Logger == nil {
		return logger.LoggerWrapper()
	}
	return g.Logger
}

func (g *Guard) loginPath() string {
	if g.LoginPath == "" {
		return DefaultLoginPath
	}
	return g.LoginPath
}

func (g *Guard) homePath() string {
	if g.HomePath == "" {
		return DefaultHomePath
	}
	return g.HomePath
}
