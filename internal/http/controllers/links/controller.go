// Package links contiene el controller que consume los links firmados
// de los mails de activación y verificación.
package links

import (
	"context"
	"errors"
	"net/http"
	"strings"

	dto "github.com/dropDatabas3/holamaria/internal/http/dto/auth"
	"github.com/dropDatabas3/holamaria/internal/http/helpers"
	svc "github.com/dropDatabas3/holamaria/internal/http/services/links"
	"github.com/dropDatabas3/holamaria/internal/observability/logger"
	"github.com/dropDatabas3/holamaria/internal/security/signedlink"
	"github.com/dropDatabas3/holamaria/internal/store/core"
)

// Controller procesa los links firmados de los mails.
type Controller struct {
	service *svc.Service
}

func NewController(s *svc.Service) *Controller {
	return &Controller{service: s}
}

// Activate maneja GET /active/?code=...
func (c *Controller) Activate(w http.ResponseWriter, r *http.Request) {
	c.consume(w, r, "Account activated successfully.", c.service.Activate)
}

// Verify maneja GET /verify/?code=...
func (c *Controller) Verify(w http.ResponseWriter, r *http.Request) {
	c.consume(w, r, "Email confirmed successfully.", c.service.Verify)
}

func (c *Controller) consume(w http.ResponseWriter, r *http.Request, okMsg string, fn func(ctx context.Context, code string) error) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("links.Controller"))

	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		helpers.WriteError(w, http.StatusBadRequest, "Code Not Found")
		return
	}

	if err := fn(ctx, code); err != nil {
		switch {
		case errors.Is(err, signedlink.ErrExpired):
			helpers.WriteError(w, http.StatusBadRequest, "expired time")
		case errors.Is(err, signedlink.ErrInvalid):
			helpers.WriteError(w, http.StatusBadRequest, "invalid code")
		case errors.Is(err, core.ErrNotFound):
			helpers.WriteError(w, http.StatusNotFound, "account not found")
		default:
			log.Error("link consumption failed", logger.Err(err))
			helpers.WriteError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: okMsg})
}
