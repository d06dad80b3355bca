package serverfx

import (
	"context"
	"crypto/tls"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/bundlefx"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/core"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/lifecycle"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/manifest"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/middleware/auth"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/middleware/logger"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/middleware/metrics"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/smartthings"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/transport/httpx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ---------- Options ----------

type Config struct {
	Service         string // for logs only
	ManifestEnv     string // SMARTAPP_MANIFEST
	DefaultManifest string // "manifest.toml"
	ListenEnv       string // SERVER_LISTEN_ADDRESS
	PortEnv         string // PORT
	DefaultListen   string // ":8080"
	TLSCertEnv      string // SSL_SERVER_CERTIFICATE
	TLSKeyEnv       string // SSL_SERVER_KEY
	APIURLEnv       string // SMARTTHINGS_API_URL
}

type Option func(*Config)

func WithService(s string) Option            { return func(c *Config) { c.Service = s } }
func WithManifestEnv(k string) Option        { return func(c *Config) { c.ManifestEnv = k } }
func WithDefaultManifest(path string) Option { return func(c *Config) { c.DefaultManifest = path } }
func WithListenEnv(k string) Option          { return func(c *Config) { c.ListenEnv = k } }
func WithDefaultListen(addr string) Option   { return func(c *Config) { c.DefaultListen = addr } }
func WithTLSCertKeyEnv(cert, key string) Option {
	return func(c *Config) { c.TLSCertEnv, c.TLSKeyEnv = cert, key }
}

func defaultConfig() Config {
	return Config{
		Service:         "smartapp",
		ManifestEnv:     "SMARTAPP_MANIFEST",
		DefaultManifest: "manifest.toml",
		ListenEnv:       "SERVER_LISTEN_ADDRESS",
		PortEnv:         "PORT",
		DefaultListen:   ":8080",
		TLSCertEnv:      "SSL_SERVER_CERTIFICATE",
		TLSKeyEnv:       "SSL_SERVER_KEY",
		APIURLEnv:       "SMARTTHINGS_API_URL",
	}
}

// Module returns a complete Fx option set; add app-specific fx.Invoke(...) alongside.
func Module(opts ...Option) fx.Option {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return fx.Options(
		// Config into DI
		fx.Provide(func() Config { return cfg }),
		// Core middleware
		bundlefx.Module,
		// Router impl
		fx.Provide(httpx.NewChi),
		// Manifest, outbound API client and dispatcher
		fx.Provide(provideManifest),
		fx.Provide(fx.Annotate(provideSmartThings, fx.As(new(lifecycle.Subscriber)))),
		fx.Provide(fx.Annotate(provideDispatcher, fx.As(new(core.Dispatcher)))),
		// Router
		fx.Provide(fx.Annotate(provideRouter, fx.ResultTags(`name:"app"`))),
		// Lifecycle
		fx.Invoke(registerHooks),
	)
}

// ---------- Manifest ----------

// provideManifest loads the manifest; a missing file at the default path
// (env unset) falls back to manifest.Default.
func provideManifest(cfg Config, zl *zap.Logger) (manifest.Config, error) {
	path := envOr(cfg.ManifestEnv, cfg.DefaultManifest)
	man, err := core.LoadConfig(path)
	if err == nil {
		zl.Info("manifest loaded", zap.String("path", path), zap.Int("routes", len(man.Routes)))
		return man, nil
	}
	if errors.Is(err, fs.ErrNotExist) && os.Getenv(cfg.ManifestEnv) == "" {
		zl.Info("manifest not found; using built-in default", zap.String("path", path))
		man = manifest.Default()
		return man, man.Validate()
	}
	return manifest.Config{}, err
}

// ---------- SmartThings client ----------

func provideSmartThings(cfg Config, man manifest.Config, zl *zap.Logger) (*smartthings.Client, error) {
	st := man.SmartThings
	timeout := 8 * time.Second
	if st.TimeoutMS > 0 {
		timeout = time.Duration(st.TimeoutMS) * time.Millisecond
	}
	opts := []smartthings.Option{
		smartthings.WithBaseURL(envOr(cfg.APIURLEnv, st.APIURL)),
		smartthings.WithHTTPClient(&http.Client{
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
			Timeout: timeout,
		}),
		smartthings.WithLogger(zl.Named("smartthings")),
		smartthings.WithObserver(metrics.ObserveSubscription),
		smartthings.WithSubscriptionName(st.SubscriptionName),
	}
	if rl := st.RateLimit; rl != nil {
		opts = append(opts, smartthings.WithRateLimit(rl.RPS, rl.Burst))
	}
	return smartthings.NewClient(opts...)
}

// ---------- Dispatcher ----------

func provideDispatcher(man manifest.Config, sub lifecycle.Subscriber, zl *zap.Logger) (*lifecycle.Dispatcher, error) {
	app, err := man.AppConfig()
	if err != nil {
		return nil, err
	}
	return lifecycle.NewDispatcher(app, sub, zl.Named("lifecycle")), nil
}

// ---------- Router ----------

type routerDeps struct {
	fx.In

	Manifest   manifest.Config
	AuthMW     *auth.Middleware
	LogMW      *logger.Middleware
	Metrics    http.Handler `name:"metrics"`
	R          httpx.Router
	Dispatcher core.Dispatcher
	Log        *zap.Logger
}

func provideRouter(d routerDeps) http.Handler {
	return core.BuildRouter(d.Manifest, core.BuildDeps{
		Auth:       d.AuthMW,
		LogMW:      d.LogMW,
		Metrics:    d.Metrics,
		Router:     d.R,
		Dispatcher: d.Dispatcher,
		Log:        d.Log,
	})
}

// ---------- Lifecycle (HTTP server) ----------

type serverDeps struct {
	fx.In
	Logger *zap.Logger
	App    http.Handler `name:"app"`
}

func registerHooks(lc fx.Lifecycle, cfg Config, d serverDeps) {
	addr := listenAddr(cfg)
	cert := os.Getenv(cfg.TLSCertEnv)
	key := os.Getenv(cfg.TLSKeyEnv)

	srv := &http.Server{
		Addr:         addr,
		Handler:      d.App,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13},
	}
	useTLS := fileExists(cert) && fileExists(key)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if useTLS {
				d.Logger.Info("server starting (TLS)",
					zap.String("service", cfg.Service),
					zap.String("addr", addr),
					zap.String("cert", cert),
				)
				go func() {
					if err := srv.ListenAndServeTLS(cert, key); err != nil && !errors.Is(err, http.ErrServerClosed) {
						d.Logger.Fatal("server failed", zap.Error(err))
					}
				}()
			} else {
				d.Logger.Info("server starting (PLAINTEXT)",
					zap.String("service", cfg.Service),
					zap.String("addr", addr),
				)
				srv.TLSConfig = nil
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						d.Logger.Fatal("server failed", zap.Error(err))
					}
				}()
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Logger.Info("server stopping", zap.String("service", cfg.Service))
			_ = d.Logger.Sync()
			return srv.Shutdown(ctx)
		},
	})
}

// ---------- tiny helpers ----------

// listenAddr prefers the explicit listen address, then PORT.
func listenAddr(cfg Config) string {
	if v := os.Getenv(cfg.ListenEnv); v != "" {
		return v
	}
	if p := os.Getenv(cfg.PortEnv); p != "" {
		return ":" + p
	}
	return cfg.DefaultListen
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
