package social

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/holamaria/internal/http/helpers"
	svc "github.com/dropDatabas3/holamaria/internal/http/services/social"
	"github.com/dropDatabas3/holamaria/internal/oauth"
	"github.com/dropDatabas3/holamaria/internal/observability/logger"
)

// StartController redirige al navegador a la página de autorización
// del proveedor.
type StartController struct {
	service *svc.Service
}

func NewStartController(s *svc.Service) *StartController {
	return &StartController{service: s}
}

// Login maneja GET /{provider}/login/
func (c *StartController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("StartController.Login"))

	provider := chi.URLParam(r, "provider")
	target, err := c.service.AuthorizeURL(provider)
	if err != nil {
		if errors.Is(err, oauth.ErrUnknownProvider) {
			log.Warn("unknown provider", logger.Provider(provider))
			helpers.WriteError(w, http.StatusNotFound, "unknown provider: "+provider)
			return
		}
		log.Error("authorize url build failed", logger.Provider(provider), logger.Err(err))
		helpers.WriteError(w, http.StatusInternalServerError, "could not start login")
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}
