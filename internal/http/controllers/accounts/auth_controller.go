package accounts

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/holamaria/internal/http/dto/auth"
	"github.com/dropDatabas3/holamaria/internal/http/helpers"
	svc "github.com/dropDatabas3/holamaria/internal/http/services/accounts"
	"github.com/dropDatabas3/holamaria/internal/http/services/session"
	"github.com/dropDatabas3/holamaria/internal/observability/logger"
	"github.com/dropDatabas3/holamaria/internal/store/core"
)

const maxBodyBytes = 1 << 20

// AuthController maneja registro, login y logout.
type AuthController struct {
	service  *svc.Service
	sessions *session.Manager
}

func NewAuthController(s *svc.Service, sessions *session.Manager) *AuthController {
	return &AuthController{service: s, sessions: sessions}
}

// Register maneja POST /register/
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthController.Register"))

	var req dto.RegisterRequest
	if err := helpers.DecodeJSON(w, r, maxBodyBytes, &req); err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, err := c.service.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		writeAccountError(w, err)
		return
	}

	log.Info("registration accepted", logger.AccountID(acc.ID))
	helpers.WriteJSON(w, http.StatusCreated, dto.RegisterResponse{
		Success:  true,
		Email:    acc.Email,
		Username: acc.DisplayName,
	})
}

// Login maneja POST /login/
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthController.Login"))

	var req dto.LoginRequest
	if err := helpers.DecodeJSON(w, r, maxBodyBytes, &req); err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, err := c.service.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		writeAccountError(w, err)
		return
	}

	if err := c.sessions.Establish(w, acc.ID); err != nil {
		log.Error("session establish failed", logger.AccountID(acc.ID), logger.Err(err))
		helpers.WriteError(w, http.StatusInternalServerError, "could not establish session")
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.LoginResponse{
		Success:  true,
		Email:    acc.Email,
		Username: acc.DisplayName,
	})
}

// Logout maneja POST /logout/
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	c.sessions.Destroy(w, r)
	helpers.WriteJSON(w, http.StatusOK, dto.SuccessResponse{Success: true})
}

func writeAccountError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrValidation):
		helpers.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, svc.ErrEmailTaken):
		helpers.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, svc.ErrInvalidCredentials):
		helpers.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, svc.ErrInactive):
		helpers.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, svc.ErrFederated):
		helpers.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, svc.ErrMailDelivery):
		helpers.WriteError(w, http.StatusBadGateway, "could not send email")
	case errors.Is(err, core.ErrNotFound):
		helpers.WriteError(w, http.StatusNotFound, "account not found")
	default:
		helpers.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
