// Package links consume los links firmados que mandan los mails:
// activación de cuenta nueva y confirmación de cambio de email.
package links

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/holamaria/internal/oauth"
	"github.com/dropDatabas3/holamaria/internal/observability/logger"
	"github.com/dropDatabas3/holamaria/internal/security/signedlink"
	"github.com/dropDatabas3/holamaria/internal/store/core"
)

// Deps agrupa las dependencias del servicio de links.
type Deps struct {
	Store core.AccountStore
	Codec *signedlink.Codec
}

type Service struct {
	deps Deps
}

func NewService(d Deps) *Service {
	return &Service{deps: d}
}

// Activate consume un link de activación: marca la cuenta local como
// activa y su email como verificado.
func (s *Service) Activate(ctx context.Context, code string) error {
	acc, err := s.resolve(ctx, code)
	if err != nil {
		return err
	}
	if acc.Active && acc.EmailVerified {
		return nil
	}
	acc.Active = true
	acc.EmailVerified = true
	if err := s.deps.Store.Update(ctx, acc); err != nil {
		return fmt.Errorf("activate: %w", err)
	}
	logger.From(ctx).Info("account activated",
		logger.Component("links"), logger.AccountID(acc.ID))
	return nil
}

// Verify consume un link de cambio de email: marca el email como
// verificado sin tocar el estado de activación.
func (s *Service) Verify(ctx context.Context, code string) error {
	acc, err := s.resolve(ctx, code)
	if err != nil {
		return err
	}
	if acc.EmailVerified {
		return nil
	}
	acc.EmailVerified = true
	if err := s.deps.Store.Update(ctx, acc); err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	logger.From(ctx).Info("email verified",
		logger.Component("links"), logger.AccountID(acc.ID))
	return nil
}

func (s *Service) resolve(ctx context.Context, code string) (*core.Account, error) {
	email, err := s.deps.Codec.Verify(code)
	if err != nil {
		return nil, err
	}
	acc, err := s.deps.Store.GetByEmailProvider(ctx, email, oauth.ProviderCommon)
	if err != nil {
		return nil, err
	}
	return acc, nil
}
