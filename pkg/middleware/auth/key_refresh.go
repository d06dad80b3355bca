package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/codec"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const maxKeyBytes = 64 << 10

type jwks struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// Run refreshes the verification key until ctx is done, sleeping for the
// cache TTL advertised by the key endpoint.
func (m *Middleware) Run(ctx context.Context) {
	if m.keyURL == "" {
		return
	}
	for {
		sleep := m.getCacheTTL()
		if sleep < 5*time.Second {
			sleep = 5 * time.Second
		}
		t := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
		if err := m.RefreshKey(ctx); err != nil && ctx.Err() == nil {
			m.log.Warn("signature key refresh failed", zap.String("url", m.keyURL), zap.Error(err))
		}
	}
}

// RefreshKey fetches the verification key from the configured URL. The
// endpoint may serve a PEM public key or certificate, or a JWKS document.
func (m *Middleware) RefreshKey(ctx context.Context) error {
	if m.keyURL == "" {
		return errors.New("SIGNATURE_KEY_URL not set")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.keyURL, nil)
	if err != nil {
		return err
	}
	if etag := m.getETag(); etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	req.Header.Set("Accept", "*/*")

	res, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	// Honor 304 with previous key
	if res.StatusCode == http.StatusNotModified && m.getKey() != nil {
		m.updateCacheTTLFromHeaders(res)
		m.setLastFetch(time.Now())
		return nil
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("key fetch %s: %s", m.keyURL, res.Status)
	}

	b, err := io.ReadAll(io.LimitReader(res.Body, maxKeyBytes))
	if err != nil {
		return err
	}

	ct := strings.ToLower(strings.TrimSpace(res.Header.Get("Content-Type")))
	var pub *rsa.PublicKey
	if strings.Contains(ct, "application/json") || strings.HasSuffix(strings.ToLower(m.keyURL), ".json") {
		pub, err = m.selectJWK(b)
	} else {
		pub, err = jwt.ParseRSAPublicKeyFromPEM(b)
	}
	if err != nil {
		return err
	}

	// commit new state under lock
	m.mu.Lock()
	m.key = pub
	m.etag = res.Header.Get("ETag")
	m.updateCacheTTLFromHeadersLocked(res) // expects m.mu held
	m.lastFetch = time.Now()
	m.mu.Unlock()
	return nil
}

// selectJWK picks the configured kid, else the first RSA signing key.
func (m *Middleware) selectJWK(b []byte) (*rsa.PublicKey, error) {
	var set jwks
	if err := codec.JSON.Unmarshal(b, &set); err != nil {
		return nil, err
	}
	var sel *jwk
	for i := range set.Keys {
		k := &set.Keys[i]
		if k.Kty != "RSA" {
			continue
		}
		if m.keyKID != "" {
			if k.Kid == m.keyKID {
				sel = k
				break
			}
			continue
		}
		if (k.Use == "" || k.Use == "sig") && (k.Alg == "" || strings.EqualFold(k.Alg, "RS256")) {
			sel = k
			break
		}
	}
	if sel == nil {
		return nil, errors.New("no suitable RSA key in JWKS")
	}
	nBytes, err := b64url(sel.N)
	if err != nil {
		return nil, fmt.Errorf("bad jwks.n: %w", err)
	}
	eBytes, err := b64url(sel.E)
	if err != nil {
		return nil, fmt.Errorf("bad jwks.e: %w", err)
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: bytesToInt(eBytes),
	}, nil
}

func (m *Middleware) updateCacheTTLFromHeaders(res *http.Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCacheTTLFromHeadersLocked(res)
}

func (m *Middleware) updateCacheTTLFromHeadersLocked(res *http.Response) {
	cc := res.Header.Get("Cache-Control")
	if cc == "" {
		return
	}
	for _, p := range strings.Split(cc, ",") {
		p = strings.TrimSpace(strings.ToLower(p))
		if strings.HasPrefix(p, "max-age=") {
			if s, err := strconv.Atoi(strings.TrimPrefix(p, "max-age=")); err == nil && s >= 5 {
				m.cacheTTL = time.Duration(s) * time.Second
				return
			}
		}
	}
}

func (m *Middleware) getKey() *rsa.PublicKey {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.key
}

func (m *Middleware) getETag() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.etag
}

func (m *Middleware) getCacheTTL() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cacheTTL
}

func (m *Middleware) setLastFetch(t time.Time) {
	m.mu.Lock()
	m.lastFetch = t
	m.mu.Unlock()
}
