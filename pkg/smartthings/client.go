// pkg/smartthings/client.go
package smartthings

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/codec"
	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL          = "https://api.smartthings.com/"
	DefaultSubscriptionName = "all_motion_sensors_subscription"

	maxBodyBytes    = 1 << 20
	maxErrBodyBytes = 512
)

// Observer is told the outcome of every subscription call. status is 0
// when no response was received.
type Observer func(capability string, status int, err error)

// Client calls the SmartThings REST API on behalf of an installed app,
// authenticating with the app's per-request auth token.
type Client struct {
	baseURL          *url.URL
	hc               HTTPDoer
	limiter          *rate.Limiter
	log              *zap.Logger
	observe          Observer
	subscriptionName string
}

type Option func(*Client) error

func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		if strings.TrimSpace(raw) == "" {
			return nil
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("smartthings base url: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("smartthings base url %q: scheme and host required", raw)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		c.baseURL = u
		return nil
	}
}

func WithHTTPClient(hc HTTPDoer) Option {
	return func(c *Client) error {
		if hc != nil {
			c.hc = hc
		}
		return nil
	}
}

// WithRateLimit caps outbound calls; rps <= 0 leaves calls unlimited.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) error {
		if rps <= 0 {
			return nil
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		return nil
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) error {
		if l != nil {
			c.log = l
		}
		return nil
	}
}

func WithObserver(o Observer) Option {
	return func(c *Client) error {
		c.observe = o
		return nil
	}
}

func WithSubscriptionName(name string) Option {
	return func(c *Client) error {
		if name = strings.TrimSpace(name); name != "" {
			c.subscriptionName = name
		}
		return nil
	}
}

func NewClient(opts ...Option) (*Client, error) {
	base, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		baseURL: base,
		hc: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
			Timeout: 8 * time.Second,
		},
		log:              zap.NewNop(),
		subscriptionName: DefaultSubscriptionName,
	}
	for _, o := range opts {
		if err := o(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SubscribeToDevice subscribes the installed app to one component of a
// device. capability may be empty to receive every attribute.
func (c *Client) SubscribeToDevice(ctx context.Context, authToken, installedAppID, deviceID, componentID, capability string) error {
	_, err := c.CreateSubscription(ctx, authToken, installedAppID, SubscriptionRequest{
		SourceType: DeviceSource,
		Device: &DeviceSubscription{
			DeviceID:         deviceID,
			ComponentID:      componentID,
			Capability:       capability,
			SubscriptionName: c.subscriptionName,
		},
	})
	return err
}

// SubscribeToCapability subscribes the installed app to every device at
// locationID exposing capability.
func (c *Client) SubscribeToCapability(ctx context.Context, authToken, installedAppID, locationID, capability string) error {
	_, err := c.CreateSubscription(ctx, authToken, installedAppID, SubscriptionRequest{
		SourceType: CapabilitySource,
		Capability: &CapabilitySubscription{
			LocationID:       locationID,
			Capability:       capability,
			SubscriptionName: c.subscriptionName,
		},
	})
	return err
}

// CreateSubscription POSTs installedapps/{id}/subscriptions. Any failure is
// a *CollaboratorError.
func (c *Client) CreateSubscription(ctx context.Context, authToken, installedAppID string, body SubscriptionRequest) (Subscription, error) {
	const op = "create subscription"
	capability := body.capability()

	status, sub, err := c.createSubscription(ctx, op, authToken, installedAppID, body)
	if c.observe != nil {
		c.observe(capability, status, err)
	}
	if err != nil {
		c.log.Error("subscription failed",
			zap.String("installedAppId", installedAppID),
			zap.String("capability", capability),
			zap.Int("status", status),
			zap.Error(err),
		)
		return Subscription{}, err
	}
	c.log.Info("subscription created",
		zap.String("installedAppId", installedAppID),
		zap.String("capability", capability),
		zap.String("subscriptionId", sub.ID),
	)
	return sub, nil
}

func (c *Client) createSubscription(ctx context.Context, op, authToken, installedAppID string, body SubscriptionRequest) (int, Subscription, error) {
	fail := func(status int, msg string, err error) (int, Subscription, error) {
		return status, Subscription{}, &CollaboratorError{Op: op, StatusCode: status, Body: msg, Err: err}
	}
	if installedAppID == "" {
		return fail(0, "", fmt.Errorf("installedAppId required"))
	}
	if err := body.validate(); err != nil {
		return fail(0, "", err)
	}

	payload, err := codec.JSON.Marshal(body)
	if err != nil {
		return fail(0, "", err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail(0, "", err)
		}
	}

	ref, err := url.Parse("installedapps/" + url.PathEscape(installedAppID) + "/subscriptions")
	if err != nil {
		return fail(0, "", err)
	}
	target := c.baseURL.ResolveReference(ref)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(payload))
	if err != nil {
		return fail(0, "", err)
	}
	req.Header.Set("Authorization", "Bearer "+authToken)
	req.Header.Set("Content-Type", codec.JSON.ContentType())
	req.Header.Set("Accept", codec.JSON.ContentType())
	req.Header.Set("X-Request-Id", requestID(ctx))

	c.log.Debug("creating subscription",
		zap.String("url", target.String()),
		zap.ByteString("body", payload),
	)

	res, err := c.hc.Do(req)
	if err != nil {
		return fail(0, "", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return fail(res.StatusCode, "", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fail(res.StatusCode, excerpt(raw), nil)
	}

	var sub Subscription
	if err := codec.JSON.Unmarshal(raw, &sub); err != nil {
		return fail(res.StatusCode, excerpt(raw), err)
	}
	return res.StatusCode, sub, nil
}

// requestID forwards the inbound request id when there is one.
func requestID(ctx context.Context) string {
	if rid := chimd.GetReqID(ctx); rid != "" {
		return rid
	}
	return uuid.NewString()
}

func excerpt(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrBodyBytes {
		return s[:maxErrBodyBytes] + "..."
	}
	return s
}
