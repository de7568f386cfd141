// Package session maneja las sesiones de cookie respaldadas por cache.
// El token es opaco; en el cache solo vive su hash.
package session

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/holamaria/internal/cache"
	"github.com/dropDatabas3/holamaria/internal/security/token"
)

const keyPrefix = "sess:"

// Config parámetros de la cookie de sesión.
type Config struct {
	CookieName string
	Domain     string
	SameSite   string // "Lax" | "Strict" | "None"
	Secure     bool
	TTL        time.Duration
}

// Manager crea, resuelve y destruye sesiones.
type Manager struct {
	Cache cache.Cache
	Cfg   Config
}

func NewManager(c cache.Cache, cfg Config) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = "sid"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 12 * time.Hour
	}
	return &Manager{Cache: c, Cfg: cfg}
}

// Establish crea una sesión para la cuenta y setea la cookie.
func (m *Manager) Establish(w http.ResponseWriter, accountID string) error {
	tok, err := token.Generate(32)
	if err != nil {
		return err
	}
	m.Cache.Set(keyPrefix+token.Hash(tok), []byte(accountID), m.Cfg.TTL)

	http.SetCookie(w, &http.Cookie{
		Name:     m.Cfg.CookieName,
		Value:    tok,
		Path:     "/",
		Domain:   m.Cfg.Domain,
		MaxAge:   int(m.Cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.Cfg.Secure,
		SameSite: sameSite(m.Cfg.SameSite),
	})
	return nil
}

// AccountID resuelve la cuenta de la sesión del request.
func (m *Manager) AccountID(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.Cfg.CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	b, ok := m.Cache.Get(keyPrefix + token.Hash(c.Value))
	if !ok {
		return "", false
	}
	return string(b), true
}

// Destroy invalida la sesión y borra la cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(m.Cfg.CookieName); err == nil && c.Value != "" {
		m.Cache.Delete(keyPrefix + token.Hash(c.Value))
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.Cfg.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   m.Cfg.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.Cfg.Secure,
		SameSite: sameSite(m.Cfg.SameSite),
	})
}

func sameSite(v string) http.SameSite {
	switch v {
	case "Strict":
		return http.SameSiteStrictMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
