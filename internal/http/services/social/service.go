// Package social implementa el flujo de login federado: construcción
// de la URL de autorización, y el callback que canjea el código,
// obtiene el perfil, lo normaliza y lo reconcilia contra el almacén.
package social

import (
	"context"
	"time"

	"github.com/dropDatabas3/holamaria/internal/metrics"
	"github.com/dropDatabas3/holamaria/internal/oauth"
	"github.com/dropDatabas3/holamaria/internal/observability/logger"
	"github.com/dropDatabas3/holamaria/internal/store/core"
)

// Deps agrupa las dependencias del servicio social.
type Deps struct {
	Registry   *oauth.Registry
	Client     *oauth.Client
	Redirects  *oauth.RedirectBuilder
	States     *oauth.StateSigner
	Reconciler *Reconciler
}

type Service struct {
	deps Deps
}

func NewService(d Deps) *Service {
	return &Service{deps: d}
}

// AuthorizeURL devuelve la URL del proveedor a la que redirigir al
// navegador para iniciar el login.
func (s *Service) AuthorizeURL(providerID string) (string, error) {
	return s.deps.Redirects.Build(providerID)
}

// Callback ejecuta la secuencia completa del retorno del proveedor.
// Cada etapa corta el flujo al primer fallo; el resultado etiquetado
// alimenta la métrica de callbacks.
func (s *Service) Callback(ctx context.Context, providerID, code, state string) (*core.Account, bool, error) {
	log := logger.From(ctx).With(logger.Component("social"), logger.Provider(providerID))
	start := time.Now()

	cfg, err := s.deps.Registry.Get(providerID)
	if err != nil {
		metrics.SocialCallbacksTotal.WithLabelValues(providerID, ResultUnknownProvider).Inc()
		return nil, false, err
	}
	if code == "" {
		metrics.SocialCallbacksTotal.WithLabelValues(providerID, ResultMissingCode).Inc()
		return nil, false, oauth.ErrMissingCode
	}
	if cfg.RequiresState {
		if state == "" {
			metrics.SocialCallbacksTotal.WithLabelValues(providerID, ResultMissingState).Inc()
			return nil, false, oauth.ErrMissingState
		}
		if err := s.deps.States.Verify(state, providerID, cfg.ClientID); err != nil {
			metrics.SocialCallbacksTotal.WithLabelValues(providerID, ResultStateInvalid).Inc()
			log.Warn("state rejected", logger.Err(err))
			return nil, false, err
		}
	}

	accessToken, err := s.deps.Client.Exchange(ctx, providerID, code, state)
	if err != nil {
		metrics.SocialCallbacksTotal.WithLabelValues(providerID, ResultExchangeFailed).Inc()
		log.Warn("token exchange failed", logger.Err(err))
		return nil, false, err
	}

	profile, err := s.deps.Client.FetchProfile(ctx, providerID, accessToken)
	if err != nil {
		metrics.SocialCallbacksTotal.WithLabelValues(providerID, ResultProfileFailed).Inc()
		log.Warn("profile fetch failed", logger.Err(err))
		return nil, false, err
	}

	identity, err := oauth.Normalize(providerID, profile)
	if err != nil {
		metrics.SocialCallbacksTotal.WithLabelValues(providerID, ResultNormalizeFailed).Inc()
		log.Warn("profile normalization failed", logger.Err(err))
		return nil, false, err
	}

	acc, created, err := s.deps.Reconciler.Reconcile(ctx, identity)
	if err != nil {
		metrics.SocialCallbacksTotal.WithLabelValues(providerID, ResultReconcileFailed).Inc()
		log.Error("reconciliation failed", logger.Err(err))
		return nil, false, err
	}

	metrics.SocialCallbacksTotal.WithLabelValues(providerID, ResultOK).Inc()
	metrics.LoginsTotal.WithLabelValues(providerID).Inc()
	log.Info("social login completed",
		logger.AccountID(acc.ID),
		logger.Bool("created", created),
		logger.DurationMs(time.Since(start).Milliseconds()),
	)
	return acc, created, nil
}
