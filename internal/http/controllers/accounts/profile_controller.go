package accounts

import (
	"net/http"

	dto "github.com/dropDatabas3/holamaria/internal/http/dto/auth"
	"github.com/dropDatabas3/holamaria/internal/http/helpers"
	"github.com/dropDatabas3/holamaria/internal/http/middlewares"
	svc "github.com/dropDatabas3/holamaria/internal/http/services/accounts"
	"github.com/dropDatabas3/holamaria/internal/http/services/session"
	"github.com/dropDatabas3/holamaria/internal/observability/logger"
	"github.com/dropDatabas3/holamaria/internal/store/core"
)

// ProfileController maneja la vista y edición de la cuenta propia.
// Todas sus rutas pasan por el middleware de sesión.
type ProfileController struct {
	service  *svc.Service
	sessions *session.Manager
}

func NewProfileController(s *svc.Service, sessions *session.Manager) *ProfileController {
	return &ProfileController{service: s, sessions: sessions}
}

// Get maneja GET /profile/
func (c *ProfileController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	acc, err := c.service.Get(ctx, middlewares.GetAccountID(ctx))
	if err != nil {
		writeAccountError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toProfile(acc))
}

// Update maneja PUT /profile/
func (c *ProfileController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.ProfileUpdateRequest
	if err := helpers.DecodeJSON(w, r, maxBodyBytes, &req); err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, err := c.service.UpdateProfile(ctx, middlewares.GetAccountID(ctx), req.Username)
	if err != nil {
		writeAccountError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toProfile(acc))
}

// Delete maneja DELETE /profile/
func (c *ProfileController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ProfileController.Delete"))

	id := middlewares.GetAccountID(ctx)
	if err := c.service.Delete(ctx, id); err != nil {
		writeAccountError(w, err)
		return
	}
	c.sessions.Destroy(w, r)
	log.Info("account deleted", logger.AccountID(id))
	helpers.WriteJSON(w, http.StatusOK, dto.SuccessResponse{Success: true})
}

func toProfile(acc *core.Account) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:            acc.ID,
		Email:         acc.Email,
		Username:      acc.DisplayName,
		Provider:      acc.Provider,
		EmailVerified: acc.EmailVerified,
		Active:        acc.Active,
	}
}
