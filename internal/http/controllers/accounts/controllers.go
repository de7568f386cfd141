// Package accounts contiene los controllers de cuenta local: registro,
// login por password, perfil y operaciones de email.
package accounts

import (
	svc "github.com/dropDatabas3/holamaria/internal/http/services/accounts"
	"github.com/dropDatabas3/holamaria/internal/http/services/session"
)

// Controllers agrupa los controllers de cuenta.
type Controllers struct {
	Auth    *AuthController
	Profile *ProfileController
	Email   *EmailController
}

// NewControllers crea el agregador de controllers de cuenta.
func NewControllers(s *svc.Service, sessions *session.Manager) *Controllers {
	return &Controllers{
		Auth:    NewAuthController(s, sessions),
		Profile: NewProfileController(s, sessions),
		Email:   NewEmailController(s),
	}
}
