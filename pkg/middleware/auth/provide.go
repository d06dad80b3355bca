package auth

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ProvideAuthentication wires defaults and env config. The key is fetched
// on start (non-fatal) and refreshed in the background until stop.
func ProvideAuthentication(lc fx.Lifecycle, log *zap.Logger) *Middleware {
	hc := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:    10,
			IdleConnTimeout: 30 * time.Second,
		},
		Timeout: 8 * time.Second,
	}

	m := New(Config{
		KeyURL:    strings.TrimSpace(os.Getenv("SIGNATURE_KEY_URL")),
		KeyID:     strings.TrimSpace(os.Getenv("SIGNATURE_KEY_KID")),
		DevBypass: os.Getenv("AUTH_DEV_BYPASS") == "true",
	}, hc, log)

	if m.devBypass {
		log.Warn("AUTH_DEV_BYPASS enabled: every request is treated as signed")
	}
	if m.keyURL == "" {
		return m
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			if err := m.RefreshKey(startCtx); err != nil {
				log.Warn("signature key fetch failed", zap.String("url", m.keyURL), zap.Error(err))
			}
			go m.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	return m
}

var Module = fx.Options(
	fx.Provide(ProvideAuthentication),
)
