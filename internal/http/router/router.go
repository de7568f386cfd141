// Package router arma el chi.Router del servicio: middlewares
// globales, rutas de login federado, rutas de cuenta local y
// endpoints operativos.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	accountsctrl "github.com/dropDatabas3/holamaria/internal/http/controllers/accounts"
	healthctrl "github.com/dropDatabas3/holamaria/internal/http/controllers/health"
	linksctrl "github.com/dropDatabas3/holamaria/internal/http/controllers/links"
	socialctrl "github.com/dropDatabas3/holamaria/internal/http/controllers/social"
	"github.com/dropDatabas3/holamaria/internal/http/middlewares"
	"github.com/dropDatabas3/holamaria/internal/http/services/session"
	"github.com/dropDatabas3/holamaria/internal/rate"
)

// Deps agrupa todo lo que el router necesita para armar el árbol de
// rutas.
type Deps struct {
	Social   *socialctrl.Controllers
	Accounts *accountsctrl.Controllers
	Links    *linksctrl.Controller
	Health   *healthctrl.Controller

	Sessions     *session.Manager
	LoginLimiter rate.Limiter
	Registry     prometheus.Gatherer
}

// New construye el router completo del servicio.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middlewares.WithRequestID())
	r.Use(middlewares.WithRecover())
	r.Use(middlewares.WithLogging())
	r.Use(middlewares.WithSecurityHeaders())

	// Login federado. Las URLs llevan slash final, y se aceptan ambas
	// variantes de la ruta de activación.
	r.Group(func(r chi.Router) {
		r.Use(middlewares.WithNoStore())
		r.Get("/{provider}/login/", d.Social.Start.Login)
		r.Get("/{provider}/login/callback/", d.Social.Callback.Callback)
	})

	// Links firmados de mails.
	r.Get("/active/", d.Links.Activate)
	r.Get("/activate/", d.Links.Activate)
	r.Get("/verify/", d.Links.Verify)

	// Cuenta local.
	r.Group(func(r chi.Router) {
		r.Use(middlewares.WithNoStore())
		if d.LoginLimiter != nil {
			r.Use(middlewares.WithRateLimit(d.LoginLimiter))
		}
		r.Post("/register/", d.Accounts.Auth.Register)
		r.Post("/login/", d.Accounts.Auth.Login)
		r.Post("/send/register/", d.Accounts.Email.SendRegister)
	})
	r.Post("/logout/", d.Accounts.Auth.Logout)

	// Rutas autenticadas.
	r.Group(func(r chi.Router) {
		r.Use(middlewares.WithNoStore())
		r.Use(middlewares.WithSessionRequired(d.Sessions))
		r.Get("/profile/", d.Accounts.Profile.Get)
		r.Put("/profile/", d.Accounts.Profile.Update)
		r.Delete("/profile/", d.Accounts.Profile.Delete)
		r.Post("/change-email/", d.Accounts.Email.ChangeEmail)
		r.Post("/reset-password/", d.Accounts.Email.ResetPassword)
		r.Post("/send/change-email/", d.Accounts.Email.SendChangeEmail)
	})

	// Operativo.
	r.Get("/healthz", d.Health.Check)
	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	return r
}
