package web

import (
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/navhub/internal/auth"
	"github.com/2beens/navhub/internal/middleware"
	"github.com/2beens/navhub/internal/telemetry/metrics"
	"github.com/2beens/navhub/internal/telemetry/tracing"
	"github.com/2beens/navhub/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:embed templates
var templatesFS embed.FS

// Handler serves the HTML side of the portal: the login form, the
// logout flow and the home page. Everything except /login, /logout and
// /favicon.ico sits behind the auth middleware.
type Handler struct {
	sessions        auth.SessionStore
	credentials     auth.CredentialStore
	defaultUsername string
	sessionTTL      time.Duration
	metricsManager  *metrics.Manager
	templates       *template.Template
}

func NewHandler(
	sessions auth.SessionStore,
	credentials auth.CredentialStore,
	defaultUsername string,
	sessionTTL time.Duration,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		sessions:        sessions,
		credentials:     credentials,
		defaultUsername: defaultUsername,
		sessionTTL:      sessionTTL,
		metricsManager:  metricsManager,
		templates:       template.Must(template.ParseFS(templatesFS, "templates/*.html")),
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc(middleware.LoginPath, handler.handleLoginPage).Methods("GET").Name("login-page")
	mainRouter.HandleFunc(middleware.LoginPath, handler.handleLogin).Methods("POST").Name("login")
	mainRouter.HandleFunc("/logout", handler.handleLogout).Methods("GET", "POST").Name("logout")
	mainRouter.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteResponse(w, pkg.ContentType.Text, "not found", http.StatusNotFound)
	})

	// everything else renders the home page (for authenticated visitors)
	mainRouter.PathPrefix("/").HandlerFunc(handler.handleHomePage).Name("home")
}

type loginPageData struct {
	ErrorMessage string
}

type homePageData struct {
	Username string
}

func (handler *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "webHandler.loginPage")
	defer span.End()

	handler.renderLoginForm(w, loginPageData{})
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "webHandler.login")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		log.Errorf("login failed, parse form error: %s", err)
		span.SetStatus(codes.Error, "parse-form-err")
		handler.renderLoginForm(w, loginPageData{ErrorMessage: "wrong request format"})
		return
	}

	// an empty username means the default account
	username := strings.TrimSpace(r.Form.Get("username"))
	if username == "" {
		username = handler.defaultUsername
	}
	password := r.Form.Get("password")

	storedSecret, err := handler.credentials.Get(ctx, username)
	if err != nil {
		log.Errorf("login failed, get credential for %s: %s", username, err)
		span.SetStatus(codes.Error, "get-credential-err")
		span.RecordError(err)
		pkg.WriteResponse(w, pkg.ContentType.Text, "internal server error", http.StatusInternalServerError)
		return
	}

	if password != storedSecret {
		log.Tracef("[login] failed login attempt for user: %s", username)
		handler.metricsManager.CounterLoginFailed.Inc()
		span.SetStatus(codes.Error, "wrong-credentials")
		handler.renderLoginForm(w, loginPageData{ErrorMessage: "wrong username or password"})
		return
	}

	session, err := handler.sessions.Create(ctx, username)
	if err != nil {
		log.Errorf("login failed, create session for %s: %s", username, err)
		span.SetStatus(codes.Error, "create-session-err")
		span.RecordError(err)
		pkg.WriteResponse(w, pkg.ContentType.Text, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.setSessionCookie(w, session.Token)
	handler.metricsManager.CounterLoginSuccess.Inc()
	log.Printf("user [%s] logged in, valid for %s", username, handler.sessionTTL)
	span.SetStatus(codes.Ok, "ok")

	http.Redirect(w, r, "/", http.StatusFound)
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "webHandler.logout")
	defer span.End()

	// invalidating an unknown or expired token is a no-op
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := handler.sessions.Invalidate(ctx, cookie.Value); err != nil {
			log.Errorf("logout, invalidate session: %s", err)
			span.RecordError(err)
		}
	}

	handler.clearSessionCookie(w)
	span.SetStatus(codes.Ok, "ok")
	http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
}

func (handler *Handler) handleHomePage(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "webHandler.home")
	defer span.End()

	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		// the auth middleware gates this path already, this is the
		// handler keeping its own contract when mounted elsewhere
		span.SetStatus(codes.Error, "no-session")
		http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
		return
	}

	// the middleware renewed the session server side, push the fresh
	// lifetime out to the browser cookie too
	handler.setSessionCookie(w, session.Token)
	span.SetStatus(codes.Ok, "ok")

	handler.renderTemplate(w, "index.html", homePageData{Username: session.Username})
}

func (handler *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(handler.sessionTTL.Seconds()),
	})
}

func (handler *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func (handler *Handler) renderLoginForm(w http.ResponseWriter, data loginPageData) {
	handler.renderTemplate(w, "login.html", data)
}

func (handler *Handler) renderTemplate(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", pkg.ContentType.HTML)
	if err := handler.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Errorf("render %s: %s", name, err)
	}
}
