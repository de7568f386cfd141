package social

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	dto "github.com/dropDatabas3/holamaria/internal/http/dto/social"
	"github.com/dropDatabas3/holamaria/internal/http/helpers"
	"github.com/dropDatabas3/holamaria/internal/http/services/session"
	svc "github.com/dropDatabas3/holamaria/internal/http/services/social"
	"github.com/dropDatabas3/holamaria/internal/oauth"
	"github.com/dropDatabas3/holamaria/internal/observability/logger"
)

// CallbackController procesa el retorno del proveedor después de la
// autorización.
type CallbackController struct {
	service  *svc.Service
	sessions *session.Manager
}

func NewCallbackController(s *svc.Service, sessions *session.Manager) *CallbackController {
	return &CallbackController{service: s, sessions: sessions}
}

// Callback maneja GET /{provider}/login/callback/
func (c *CallbackController) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("CallbackController.Callback"))

	provider := chi.URLParam(r, "provider")
	q := r.URL.Query()

	// El proveedor puede volver con un error propio en lugar de code.
	if idpErr := strings.TrimSpace(q.Get("error")); idpErr != "" {
		log.Warn("provider returned error",
			logger.Provider(provider), logger.String("idp_error", idpErr))
		helpers.WriteError(w, http.StatusBadRequest, idpErr)
		return
	}

	code := strings.TrimSpace(q.Get("code"))
	state := strings.TrimSpace(q.Get("state"))

	acc, _, err := c.service.Callback(ctx, provider, code, state)
	if err != nil {
		writeCallbackError(w, log, provider, err)
		return
	}

	if err := c.sessions.Establish(w, acc.ID); err != nil {
		log.Error("session establish failed", logger.AccountID(acc.ID), logger.Err(err))
		helpers.WriteError(w, http.StatusInternalServerError, "could not establish session")
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.CallbackResponse{
		SocialType: acc.Provider,
		UserEmail:  acc.Email,
		Username:   acc.DisplayName,
	})
}

func writeCallbackError(w http.ResponseWriter, log *zap.Logger, provider string, err error) {
	switch {
	case errors.Is(err, oauth.ErrUnknownProvider):
		helpers.WriteError(w, http.StatusNotFound, "unknown provider: "+provider)
	case errors.Is(err, oauth.ErrMissingCode):
		helpers.WriteError(w, http.StatusBadRequest, "Code Not Found")
	case errors.Is(err, oauth.ErrMissingState):
		helpers.WriteError(w, http.StatusBadRequest, "State Not Found")
	case errors.Is(err, oauth.ErrStateExpired):
		helpers.WriteError(w, http.StatusBadRequest, "state expired")
	case errors.Is(err, oauth.ErrStateInvalid),
		errors.Is(err, oauth.ErrStateProvider),
		errors.Is(err, oauth.ErrStateClient):
		helpers.WriteError(w, http.StatusBadRequest, "invalid state")
	case oauth.IsTransport(err):
		helpers.WriteError(w, http.StatusBadGateway, "provider unavailable")
	default:
		var exchErr *oauth.ExchangeError
		var profErr *oauth.ProfileError
		var normErr *oauth.NormalizeError
		var recErr *svc.ReconcileError
		switch {
		case errors.As(err, &exchErr):
			helpers.WriteError(w, http.StatusBadRequest, "token exchange rejected")
		case errors.As(err, &profErr):
			helpers.WriteError(w, http.StatusBadRequest, "profile fetch rejected")
		case errors.As(err, &normErr):
			helpers.WriteError(w, http.StatusBadRequest, normErr.Error())
		case errors.As(err, &recErr):
			helpers.WriteError(w, http.StatusBadRequest, recErr.Error())
		default:
			log.Error("callback failed", logger.Provider(provider), logger.Err(err))
			helpers.WriteError(w, http.StatusInternalServerError, "social login failed")
		}
	}
}
