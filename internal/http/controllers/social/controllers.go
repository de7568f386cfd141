// Package social contiene los controllers del login federado.
package social

import (
	svc "github.com/dropDatabas3/holamaria/internal/http/services/social"
	"github.com/dropDatabas3/holamaria/internal/http/services/session"
)

// Controllers agrupa los controllers del dominio social.
type Controllers struct {
	Start    *StartController
	Callback *CallbackController
}

// NewControllers crea el agregador de controllers sociales.
func NewControllers(s *svc.Service, sessions *session.Manager) *Controllers {
	return &Controllers{
		Start:    NewStartController(s),
		Callback: NewCallbackController(s, sessions),
	}
}
