package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/holamaria/internal/cache"
	cachememory "github.com/dropDatabas3/holamaria/internal/cache/memory"
	cacheredis "github.com/dropDatabas3/holamaria/internal/cache/redis"
	"github.com/dropDatabas3/holamaria/internal/config"
	"github.com/dropDatabas3/holamaria/internal/email"
	accountsctrl "github.com/dropDatabas3/holamaria/internal/http/controllers/accounts"
	healthctrl "github.com/dropDatabas3/holamaria/internal/http/controllers/health"
	linksctrl "github.com/dropDatabas3/holamaria/internal/http/controllers/links"
	socialctrl "github.com/dropDatabas3/holamaria/internal/http/controllers/social"
	"github.com/dropDatabas3/holamaria/internal/http/router"
	accountssvc "github.com/dropDatabas3/holamaria/internal/http/services/accounts"
	linkssvc "github.com/dropDatabas3/holamaria/internal/http/services/links"
	"github.com/dropDatabas3/holamaria/internal/http/services/session"
	socialsvc "github.com/dropDatabas3/holamaria/internal/http/services/social"
	"github.com/dropDatabas3/holamaria/internal/metrics"
	"github.com/dropDatabas3/holamaria/internal/oauth"
	"github.com/dropDatabas3/holamaria/internal/observability/logger"
	"github.com/dropDatabas3/holamaria/internal/rate"
	"github.com/dropDatabas3/holamaria/internal/security/password"
	"github.com/dropDatabas3/holamaria/internal/security/signedlink"
	"github.com/dropDatabas3/holamaria/internal/store/core"
	storememory "github.com/dropDatabas3/holamaria/internal/store/memory"
	storepg "github.com/dropDatabas3/holamaria/internal/store/pg"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "holamaria",
		Short: "Servicio de cuentas con login federado (kakao, naver, google)",
	}

	var cfgPath string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfgPath)
		},
	}
	serve.Flags().StringVarP(&cfgPath, "config", "c", os.Getenv("HOLAMARIA_CONFIG"), "path del YAML de configuración")

	root.AddCommand(serve)
	root.AddCommand(migrateCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Imprime la versión",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cfgPath string) error {
	// .env es opcional: en producción las vars vienen del entorno.
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       os.Getenv("LOG_LEVEL"),
		ServiceName: "holamaria",
		Version:     version,
	})
	defer logger.Sync()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Almacén de cuentas.
	var store core.AccountStore
	switch cfg.Storage.Driver {
	case "postgres":
		pg, err := storepg.New(ctx, storepg.Config{
			DSN:             cfg.Storage.DSN,
			MaxConns:        cfg.Storage.Postgres.MaxConns,
			ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pg.Close()
		store = pg
	case "memory":
		store = storememory.New()
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	// Cache de sesiones y rate limiter.
	var (
		sessionCache cache.Cache
		limiter      rate.Limiter
		cacheCheck   func(ctx context.Context) error
	)
	switch cfg.Cache.Kind {
	case "redis":
		rc := cacheredis.New(cfg.Cache.Redis.Addr, cfg.Cache.Redis.DB, cfg.Cache.Redis.Prefix)
		sessionCache = rc
		cacheCheck = func(ctx context.Context) error {
			return rc.Client().Ping(ctx).Err()
		}
		if cfg.Rate.Enabled {
			limiter = rate.NewRedisLimiter(rc.Client(), "rl:login:", cfg.Rate.Login.Limit, cfg.Rate.Login.Window)
		}
	case "memory":
		sessionCache = cachememory.New(cfg.Cache.Memory.DefaultTTL)
		if cfg.Rate.Enabled {
			limiter = rate.NewMemoryLimiter(cfg.Rate.Login.Limit, cfg.Rate.Login.Window)
		}
	default:
		return fmt.Errorf("unknown cache kind %q", cfg.Cache.Kind)
	}

	// Proveedores de login federado.
	provConfigs, err := cfg.ProviderConfigs()
	if err != nil {
		return err
	}
	registry, err := oauth.NewRegistry(provConfigs...)
	if err != nil {
		return fmt.Errorf("provider registry: %w", err)
	}

	secret := []byte(cfg.Auth.SecretKey)
	linkCodec := signedlink.New(secret, cfg.Auth.LinkTTL)
	stateSigner := oauth.NewStateSigner(secret, cfg.Auth.StateTTL)

	// Mail.
	var sender email.Sender
	if cfg.SMTP.Host != "" {
		smtp := email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
		smtp.TLSMode = cfg.SMTP.TLS
		smtp.InsecureSkipVerify = cfg.SMTP.InsecureSkipVerify
		sender = smtp
	} else {
		log.Warn("smtp not configured, mails go to the log")
		sender = email.LogSender{}
	}
	mailer := email.NewService(sender, linkCodec, cfg.Email.BaseURL)

	// Métricas.
	promReg := prometheus.NewRegistry()
	if err := metrics.Register(promReg); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	// Servicios y controllers.
	sessions := session.NewManager(sessionCache, session.Config{
		CookieName: cfg.Auth.Session.CookieName,
		Domain:     cfg.Auth.Session.Domain,
		SameSite:   cfg.Auth.Session.SameSite,
		Secure:     cfg.Auth.Session.Secure,
		TTL:        cfg.Auth.Session.TTL,
	})

	socialService := socialsvc.NewService(socialsvc.Deps{
		Registry:   registry,
		Client:     oauth.NewClient(registry),
		Redirects:  &oauth.RedirectBuilder{Registry: registry, States: stateSigner},
		States:     stateSigner,
		Reconciler: &socialsvc.Reconciler{Store: store},
	})
	accountsService := accountssvc.NewService(accountssvc.Deps{
		Store:  store,
		Mailer: mailer,
		Hash:   password.Default,
	})
	linksService := linkssvc.NewService(linkssvc.Deps{Store: store, Codec: linkCodec})

	handler := router.New(router.Deps{
		Social:       socialctrl.NewControllers(socialService, sessions),
		Accounts:     accountsctrl.NewControllers(accountsService, sessions),
		Links:        linksctrl.NewController(linksService),
		Health:       healthctrl.NewController(store, cacheCheck),
		Sessions:     sessions,
		LoginLimiter: limiter,
		Registry:     promReg,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
