package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/2beens/navhub/internal/auth"
	"github.com/2beens/navhub/internal/catalog"
	"github.com/2beens/navhub/internal/middleware"
	"github.com/2beens/navhub/internal/telemetry/metrics"
	"github.com/2beens/navhub/internal/telemetry/tracing"
	"github.com/2beens/navhub/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

// Handler serves the JSON API: the catalog records and the
// password-change flow. All routes sit behind the auth middleware.
type Handler struct {
	catalog        *catalog.Catalog
	credentials    auth.CredentialStore
	metricsManager *metrics.Manager
}

func NewHandler(
	portalCatalog *catalog.Catalog,
	credentials auth.CredentialStore,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		catalog:        portalCatalog,
		credentials:    credentials,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	apiRouter := mainRouter.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/menus", handler.handleGetMenus).Methods("GET", "OPTIONS").Name("menus")
	apiRouter.HandleFunc("/cards", handler.handleGetCards).Methods("GET", "OPTIONS").Name("cards")
	apiRouter.HandleFunc("/ads", handler.handleGetAds).Methods("GET", "OPTIONS").Name("ads")
	apiRouter.HandleFunc("/friends", handler.handleGetFriends).Methods("GET", "OPTIONS").Name("friends")
	apiRouter.HandleFunc("/change-password", handler.handleChangePassword).Methods("POST", "OPTIONS").Name("change-password")

	// all the rest of /api/*
	apiRouter.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteResponse(w, pkg.ContentType.JSON, `{"error":"Not found"}`, http.StatusNotFound)
	})
}

func (handler *Handler) handleGetMenus(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "apiHandler.menus")
	defer span.End()

	handler.writeJson(w, handler.catalog.SortedMenus())
}

func (handler *Handler) handleGetCards(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "apiHandler.cards")
	defer span.End()

	// only an absent filter means "all cards", any present value is
	// matched against the menu ids and can match nothing
	rawMenuID := r.URL.Query().Get("menuId")
	if rawMenuID == "" {
		handler.writeJson(w, handler.catalog.Cards)
		return
	}

	menuID, err := strconv.Atoi(rawMenuID)
	if err != nil {
		handler.writeJson(w, []catalog.Card{})
		return
	}

	handler.writeJson(w, handler.catalog.CardsForMenu(menuID))
}

func (handler *Handler) handleGetAds(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "apiHandler.ads")
	defer span.End()

	handler.writeJson(w, handler.catalog.Ads)
}

func (handler *Handler) handleGetFriends(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "apiHandler.friends")
	defer span.End()

	handler.writeJson(w, handler.catalog.Friends)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type changePasswordResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (handler *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "apiHandler.changePassword")
	defer span.End()

	session, ok := middleware.SessionFromContext(ctx)
	if !ok {
		// the auth middleware gates /api/* already, this is the
		// handler keeping its own contract when mounted elsewhere
		span.SetStatus(codes.Error, "no-session")
		pkg.WriteResponse(w, pkg.ContentType.JSON, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var changeReq changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&changeReq); err != nil {
		log.Errorf("change password, unmarshal json params: %s", err)
		span.SetStatus(codes.Error, "bad-request")
		handler.writeChangePasswordResponse(w, http.StatusBadRequest, false, "wrong request format")
		return
	}

	storedSecret, err := handler.credentials.Get(ctx, session.Username)
	if err != nil {
		log.Errorf("change password, get credential for %s: %s", session.Username, err)
		span.SetStatus(codes.Error, "get-credential-err")
		span.RecordError(err)
		handler.writeChangePasswordResponse(w, http.StatusInternalServerError, false, "internal error")
		return
	}

	if storedSecret != changeReq.CurrentPassword {
		log.Tracef("[password] failed change password attempt for user: %s", session.Username)
		span.SetStatus(codes.Error, "wrong-current-password")
		handler.writeChangePasswordResponse(w, http.StatusUnauthorized, false, "current password incorrect")
		return
	}

	if err := handler.credentials.Set(ctx, session.Username, changeReq.NewPassword); err != nil {
		log.Errorf("change password, set credential for %s: %s", session.Username, err)
		span.SetStatus(codes.Error, "set-credential-err")
		span.RecordError(err)
		handler.writeChangePasswordResponse(w, http.StatusInternalServerError, false, "internal error")
		return
	}

	handler.metricsManager.CounterPasswordChanges.Inc()
	log.Printf("password changed for user [%s]", session.Username)
	span.SetStatus(codes.Ok, "ok")

	// other sessions of the same user stay valid on purpose, the
	// client is expected to log out and back in
	handler.writeChangePasswordResponse(w, http.StatusOK, true, "password changed")
}

func (handler *Handler) writeChangePasswordResponse(w http.ResponseWriter, statusCode int, success bool, message string) {
	respBytes, err := json.Marshal(changePasswordResponse{
		Success: success,
		Message: message,
	})
	if err != nil {
		log.Errorf("marshal change password response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, statusCode)
}

func (handler *Handler) writeJson(w http.ResponseWriter, payload any) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("marshal api response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, payloadBytes)
}
