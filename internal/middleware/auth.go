package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/navhub/internal/auth"
	"github.com/2beens/navhub/internal/telemetry/tracing"
	"github.com/2beens/navhub/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "session"

const LoginPath = "/login"

type sessionContextKey struct{}

func SessionToContext(ctx context.Context, session *auth.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

func SessionFromContext(ctx context.Context) (*auth.Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(*auth.Session)
	return session, ok
}

type AuthMiddlewareHandler struct {
	sessions     auth.SessionStore
	allowedPaths map[string]bool
}

func NewAuthMiddlewareHandler(sessions auth.SessionStore) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		sessions: sessions,
		allowedPaths: map[string]bool{
			// login-logout handle the session cookie themselves
			"/login":  true,
			"/logout": true,

			"/favicon.ico": true,

			// no such api route, passes through to the json 404
			"/api/login": true,
		},
	}
}

// AuthCheck validates the session cookie for every path that is not
// always allowed. The session is renewed on every successful check and
// carried to the handlers via the request context.
func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				log.Tracef("[missing session cookie] [auth middleware] unauthorized => %s", r.URL.Path)
				span.SetStatus(codes.Error, "missing-session-cookie")
				h.unauthenticated(w, r)
				return
			}

			session, err := h.sessions.Validate(ctx, cookie.Value)
			if errors.Is(err, auth.ErrNoSession) {
				log.Tracef("[invalid session] [auth middleware] unauthorized => %s", r.URL.Path)
				span.SetStatus(codes.Error, "no-session")
				h.unauthenticated(w, r)
				return
			}
			if err != nil {
				log.Errorf("[failed session check] => %s: %s", r.URL.Path, err)
				span.SetStatus(codes.Error, "session-check-err")
				span.RecordError(err)
				h.unauthenticated(w, r)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(SessionToContext(ctx, session)))
		})
	}
}

// unauthenticated replies per route class: the JSON API gets a 401
// payload, page routes get redirected to the login form
func (h *AuthMiddlewareHandler) unauthenticated(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		pkg.WriteResponse(w, pkg.ContentType.JSON, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, LoginPath, http.StatusFound)
}
