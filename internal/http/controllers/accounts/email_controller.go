package accounts

import (
	"net/http"

	dto "github.com/dropDatabas3/holamaria/internal/http/dto/auth"
	"github.com/dropDatabas3/holamaria/internal/http/helpers"
	"github.com/dropDatabas3/holamaria/internal/http/middlewares"
	svc "github.com/dropDatabas3/holamaria/internal/http/services/accounts"
)

// EmailController maneja cambio de email, reset de password y reenvíos
// de mail.
type EmailController struct {
	service *svc.Service
}

func NewEmailController(s *svc.Service) *EmailController {
	return &EmailController{service: s}
}

// ChangeEmail maneja POST /change-email/
func (c *EmailController) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.ChangeEmailRequest
	if err := helpers.DecodeJSON(w, r, maxBodyBytes, &req); err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, err := c.service.ChangeEmail(ctx, middlewares.GetAccountID(ctx), req.NewEmail)
	if err != nil {
		writeAccountError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ChangeEmailResponse{
		Success: true,
		Email:   acc.Email,
	})
}

// ResetPassword maneja POST /reset-password/
func (c *EmailController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.ResetPasswordRequest
	if err := helpers.DecodeJSON(w, r, maxBodyBytes, &req); err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := c.service.ResetPassword(ctx, middlewares.GetAccountID(ctx), req.Password); err != nil {
		writeAccountError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "Password reset successfully."})
}

// SendRegister maneja POST /send/register/ y reenvía el mail de
// activación. No requiere sesión: la cuenta todavía no puede loguear.
func (c *EmailController) SendRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.ResendRequest
	if err := helpers.DecodeJSON(w, r, maxBodyBytes, &req); err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := c.service.ResendActivation(ctx, req.Email); err != nil {
		writeAccountError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.SuccessResponse{Success: true})
}

// SendChangeEmail maneja POST /send/change-email/ y reenvía el mail de
// verificación a la cuenta autenticada.
func (c *EmailController) SendChangeEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := c.service.ResendChangeEmail(ctx, middlewares.GetAccountID(ctx)); err != nil {
		writeAccountError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.SuccessResponse{Success: true})
}
