package social

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/holamaria/internal/oauth"
	"github.com/dropDatabas3/holamaria/internal/store/core"
)

// Reconciler resuelve una identidad federada contra el almacén de
// cuentas: encuentra la cuenta (email, provider) o la crea si no
// existe. Dos callbacks concurrentes para la misma identidad colapsan
// en una sola operación.
type Reconciler struct {
	Store core.AccountStore

	sf singleflight.Group
}

type reconcileResult struct {
	account *core.Account
	created bool
}

// Reconcile devuelve la cuenta del par (email, provider) de la
// identidad, creándola en la primera visita. Reporta created=true solo
// para la llamada que efectivamente insertó la fila.
func (r *Reconciler) Reconcile(ctx context.Context, id oauth.Identity) (*core.Account, bool, error) {
	email := strings.ToLower(strings.TrimSpace(id.Email))
	if errs := validateIdentity(email, id.Provider); len(errs) > 0 {
		return nil, false, &ReconcileError{Errors: errs}
	}

	key := id.Provider + "\x00" + email
	v, err, _ := r.sf.Do(key, func() (any, error) {
		return r.findOrCreate(ctx, email, id)
	})
	if err != nil {
		return nil, false, err
	}
	res := v.(*reconcileResult)
	return res.account, res.created, nil
}

func (r *Reconciler) findOrCreate(ctx context.Context, email string, id oauth.Identity) (*reconcileResult, error) {
	acc, err := r.Store.GetByEmailProvider(ctx, email, id.Provider)
	if err == nil {
		return &reconcileResult{account: acc}, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("reconcile: lookup %s/%s: %w", id.Provider, email, err)
	}

	name := id.DisplayName
	if name == "" {
		name = oauth.DefaultDisplayName
	}
	acc = &core.Account{
		Email:         email,
		DisplayName:   name,
		Provider:      id.Provider,
		EmailVerified: true,
		Active:        true,
	}
	if err := r.Store.Create(ctx, acc); err != nil {
		if errors.Is(err, core.ErrConflict) {
			// Perdimos la carrera contra otra instancia: la fila ya
			// existe, reléela y úsala.
			acc, err = r.Store.GetByEmailProvider(ctx, email, id.Provider)
			if err != nil {
				return nil, fmt.Errorf("reconcile: refetch after conflict: %w", err)
			}
			return &reconcileResult{account: acc}, nil
		}
		return nil, fmt.Errorf("reconcile: create %s/%s: %w", id.Provider, email, err)
	}
	return &reconcileResult{account: acc, created: true}, nil
}

func validateIdentity(email, provider string) []string {
	var errs []string
	if email == "" {
		errs = append(errs, "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs = append(errs, "email is not a valid address")
	}
	if provider == "" {
		errs = append(errs, "provider is required")
	}
	return errs
}
