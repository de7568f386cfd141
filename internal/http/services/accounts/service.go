// Package accounts implementa las operaciones de cuenta local:
// registro por password, login, perfil, cambio de email y reset de
// password. Las cuentas federadas viven en el servicio social; aquí
// solo se leen.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dropDatabas3/holamaria/internal/email"
	"github.com/dropDatabas3/holamaria/internal/metrics"
	"github.com/dropDatabas3/holamaria/internal/oauth"
	"github.com/dropDatabas3/holamaria/internal/observability/logger"
	"github.com/dropDatabas3/holamaria/internal/security/password"
	"github.com/dropDatabas3/holamaria/internal/store/core"
)

// ErrMailDelivery el SMTP rechazó o falló el envío del mail.
var ErrMailDelivery = errors.New("mail delivery failed")

const minPasswordLen = 8

// Deps agrupa las dependencias del servicio de cuentas.
type Deps struct {
	Store  core.AccountStore
	Mailer *email.Service
	Hash   password.Params
}

type Service struct {
	deps Deps
}

func NewService(d Deps) *Service {
	return &Service{deps: d}
}

// Register da de alta una cuenta local inactiva y manda el mail de
// activación. La cuenta no puede loguearse hasta consumir el link.
func (s *Service) Register(ctx context.Context, username, emailAddr, plain string) (*core.Account, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if err := validateEmail(emailAddr); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(plain) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}
	if username = strings.TrimSpace(username); username == "" {
		username = oauth.DefaultDisplayName
	}

	hash, err := password.Hash(s.deps.Hash, plain)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}
	acc := &core.Account{
		Email:        emailAddr,
		DisplayName:  username,
		Provider:     oauth.ProviderCommon,
		PasswordHash: &hash,
	}
	if err := s.deps.Store.Create(ctx, acc); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("register: create account: %w", err)
	}

	if err := s.deps.Mailer.SendActivation(acc.Email, acc.DisplayName); err != nil {
		logger.From(ctx).Error("activation mail failed",
			logger.Component("accounts"), logger.Email(acc.Email), logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}

	metrics.RegistrationsTotal.Inc()
	logger.From(ctx).Info("account registered",
		logger.Component("accounts"), logger.AccountID(acc.ID))
	return acc, nil
}

// Authenticate valida credenciales de una cuenta local activa.
func (s *Service) Authenticate(ctx context.Context, emailAddr, plain string) (*core.Account, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	acc, err := s.deps.Store.GetByEmailProvider(ctx, emailAddr, oauth.ProviderCommon)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: lookup: %w", err)
	}
	if acc.PasswordHash == nil || !password.Verify(plain, *acc.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !acc.Active {
		return nil, ErrInactive
	}
	metrics.LoginsTotal.WithLabelValues(oauth.ProviderCommon).Inc()
	return acc, nil
}

// Get devuelve la cuenta por id.
func (s *Service) Get(ctx context.Context, id string) (*core.Account, error) {
	return s.deps.Store.GetByID(ctx, id)
}

// UpdateProfile aplica los campos presentes y devuelve la cuenta
// resultante.
func (s *Service) UpdateProfile(ctx context.Context, id string, username *string) (*core.Account, error) {
	acc, err := s.deps.Store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if username != nil {
		name := strings.TrimSpace(*username)
		if name == "" {
			return nil, fmt.Errorf("%w: username cannot be empty", ErrValidation)
		}
		acc.DisplayName = name
	}
	if err := s.deps.Store.Update(ctx, acc); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return acc, nil
}

// Delete borra la cuenta.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.deps.Store.Delete(ctx, id)
}

// ChangeEmail cambia la dirección, la marca sin verificar y manda el
// mail de confirmación a la dirección nueva.
func (s *Service) ChangeEmail(ctx context.Context, id, newEmail string) (*core.Account, error) {
	newEmail = strings.ToLower(strings.TrimSpace(newEmail))
	if err := validateEmail(newEmail); err != nil {
		return nil, err
	}
	acc, err := s.deps.Store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc.Provider != oauth.ProviderCommon {
		return nil, ErrFederated
	}
	acc.Email = newEmail
	acc.EmailVerified = false
	if err := s.deps.Store.Update(ctx, acc); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("change email: %w", err)
	}
	if err := s.deps.Mailer.SendChangeEmail(acc.Email, acc.DisplayName); err != nil {
		logger.From(ctx).Error("change-email mail failed",
			logger.Component("accounts"), logger.Email(acc.Email), logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}
	return acc, nil
}

// ResetPassword reemplaza el password de la cuenta autenticada.
func (s *Service) ResetPassword(ctx context.Context, id, plain string) error {
	if utf8.RuneCountInString(plain) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}
	acc, err := s.deps.Store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if acc.Provider != oauth.ProviderCommon {
		return ErrFederated
	}
	hash, err := password.Hash(s.deps.Hash, plain)
	if err != nil {
		return fmt.Errorf("reset password: hash: %w", err)
	}
	acc.PasswordHash = &hash
	if err := s.deps.Store.Update(ctx, acc); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

// ResendActivation reenvía el mail de activación a una cuenta local
// todavía inactiva. Para cuentas ya activas no hace nada.
func (s *Service) ResendActivation(ctx context.Context, emailAddr string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	acc, err := s.deps.Store.GetByEmailProvider(ctx, emailAddr, oauth.ProviderCommon)
	if err != nil {
		return err
	}
	if acc.Active {
		return nil
	}
	if err := s.deps.Mailer.SendActivation(acc.Email, acc.DisplayName); err != nil {
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}
	return nil
}

// ResendChangeEmail reenvía el mail de verificación de email a la
// cuenta autenticada.
func (s *Service) ResendChangeEmail(ctx context.Context, id string) error {
	acc, err := s.deps.Store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if acc.EmailVerified {
		return nil
	}
	if err := s.deps.Mailer.SendChangeEmail(acc.Email, acc.DisplayName); err != nil {
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}
	return nil
}

func validateEmail(addr string) error {
	if addr == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(addr); err != nil {
		return fmt.Errorf("%w: email is not a valid address", ErrValidation)
	}
	return nil
}
