package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/holamaria/internal/oauth"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Storage struct {
		// memory | postgres
		Driver   string `yaml:"driver"`
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxConns        int32         `yaml:"max_conns"`
			ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Kind  string `yaml:"kind"`
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL time.Duration `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	Auth struct {
		// SecretKey firma links de activación/verificación y el state
		// anti-forgery. Env: ACCOUNTS_SECRET_KEY.
		SecretKey string        `yaml:"secret_key"`
		LinkTTL   time.Duration `yaml:"link_ttl"`
		StateTTL  time.Duration `yaml:"state_ttl"`
		Session   struct {
			CookieName string        `yaml:"cookie_name"`
			Domain     string        `yaml:"domain"`
			SameSite   string        `yaml:"samesite"`
			Secure     bool          `yaml:"secure"`
			TTL        time.Duration `yaml:"ttl"`
		} `yaml:"session"`
	} `yaml:"auth"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Login   struct {
			Limit  int           `yaml:"limit"`
			Window time.Duration `yaml:"window"`
		} `yaml:"login"`
		Social struct {
			Limit  int           `yaml:"limit"`
			Window time.Duration `yaml:"window"`
		} `yaml:"social"`
	} `yaml:"rate"`

	SMTP struct {
		Host               string `yaml:"host"`
		Port               int    `yaml:"port"`
		Username           string `yaml:"username"`
		Password           string `yaml:"password"`
		From               string `yaml:"from"`
		TLS                string `yaml:"tls"` // auto | starttls | ssl | none
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	} `yaml:"smtp"`

	Email struct {
		// BaseURL arma los links de los mails: {base_url}/active/?code=...
		BaseURL        string `yaml:"base_url"`
		DebugEchoLinks bool   `yaml:"debug_echo_links"`
	} `yaml:"email"`

	Providers struct {
		Kakao  Provider `yaml:"kakao"`
		Google Provider `yaml:"google"`
		Naver  Provider `yaml:"naver"`
	} `yaml:"providers"`
}

// Provider credenciales y redirect de un identity provider. Los
// endpoints y quirks vienen de la tabla de defaults de oauth.
type Provider struct {
	Enabled      bool   `yaml:"enabled"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri"`
}

// Load lee el YAML (opcional: path vacío usa solo env+defaults),
// aplica overrides de entorno y defaults.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}
	c.applyEnv()
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyEnv() {
	envOver(&c.Auth.SecretKey, "ACCOUNTS_SECRET_KEY")
	envOver(&c.Storage.DSN, "DATABASE_DSN")
	envOver(&c.SMTP.Username, "EMAIL_HOST_USER")
	envOver(&c.SMTP.Password, "EMAIL_HOST_PASSWORD")

	envOver(&c.Providers.Kakao.ClientID, "KAKAO_REST_API_KEY")
	envOver(&c.Providers.Kakao.ClientSecret, "KAKAO_CLIENT_SECRET_KEY")
	envOver(&c.Providers.Google.ClientID, "GOOGLE_CLIENT_ID")
	envOver(&c.Providers.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	envOver(&c.Providers.Naver.ClientID, "NAVER_CLIENT_ID")
	envOver(&c.Providers.Naver.ClientSecret, "NAVER_CLIENT_SECRET")
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == 0 {
		c.Cache.Memory.DefaultTTL = 2 * time.Minute
	}
	if c.Auth.LinkTTL == 0 {
		c.Auth.LinkTTL = 180 * time.Second
	}
	if c.Auth.StateTTL == 0 {
		c.Auth.StateTTL = 5 * time.Minute
	}
	if c.Auth.Session.CookieName == "" {
		c.Auth.Session.CookieName = "sid"
	}
	if c.Auth.Session.SameSite == "" {
		c.Auth.Session.SameSite = "Lax"
	}
	if c.Auth.Session.TTL == 0 {
		c.Auth.Session.TTL = 12 * time.Hour
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == 0 {
		c.Rate.Login.Window = time.Minute
	}
	if c.Rate.Social.Limit == 0 {
		c.Rate.Social.Limit = 30
	}
	if c.Rate.Social.Window == 0 {
		c.Rate.Social.Window = time.Minute
	}
	if c.Email.BaseURL == "" {
		c.Email.BaseURL = "http://127.0.0.1:8080"
	}
}

// Validate falla rápido si falta algo imprescindible: mejor abortar el
// boot que un KeyError tardío dentro de un callback.
func (c *Config) Validate() error {
	if c.Auth.SecretKey == "" {
		return fmt.Errorf("config: auth.secret_key is required (env ACCOUNTS_SECRET_KEY)")
	}
	if c.Storage.Driver == "postgres" && c.Storage.DSN == "" {
		return fmt.Errorf("config: storage.dsn is required for the postgres driver")
	}
	for _, p := range []struct {
		id  string
		cfg Provider
	}{
		{oauth.ProviderKakao, c.Providers.Kakao},
		{oauth.ProviderGoogle, c.Providers.Google},
		{oauth.ProviderNaver, c.Providers.Naver},
	} {
		if !p.cfg.Enabled {
			continue
		}
		if p.cfg.ClientID == "" || p.cfg.ClientSecret == "" {
			return fmt.Errorf("config: provider %s enabled but credentials missing", p.id)
		}
		if p.cfg.RedirectURI == "" {
			return fmt.Errorf("config: provider %s enabled but redirect_uri missing", p.id)
		}
	}
	return nil
}

// ProviderConfigs arma las configs completas de los providers
// habilitados: defaults de endpoints + credenciales de este config.
func (c *Config) ProviderConfigs() ([]oauth.ProviderConfig, error) {
	var out []oauth.ProviderConfig
	for _, p := range []struct {
		id  string
		cfg Provider
	}{
		{oauth.ProviderKakao, c.Providers.Kakao},
		{oauth.ProviderGoogle, c.Providers.Google},
		{oauth.ProviderNaver, c.Providers.Naver},
	} {
		if !p.cfg.Enabled {
			continue
		}
		pc, err := oauth.Defaults(p.id)
		if err != nil {
			return nil, err
		}
		pc.ClientID = p.cfg.ClientID
		pc.ClientSecret = p.cfg.ClientSecret
		pc.RedirectURI = p.cfg.RedirectURI
		out = append(out, pc)
	}
	return out, nil
}

func envOver(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
