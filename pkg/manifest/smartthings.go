package manifest

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// SmartThings configures the outbound API client.
type SmartThings struct {
	APIURL           string     `toml:"api_url"`
	Capability       string     `toml:"capability"`
	SubscriptionName string     `toml:"subscription_name"`
	TimeoutMS        int        `toml:"timeout_ms"`
	RateLimit        *RateLimit `toml:"rate_limit"`
}

func (s *SmartThings) validate() error {
	s.APIURL = strings.TrimSpace(s.APIURL)
	if s.APIURL != "" {
		u, err := url.Parse(s.APIURL)
		if err != nil {
			return fmt.Errorf("api_url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("api_url %q must be http(s)", s.APIURL)
		}
		if u.Host == "" {
			return fmt.Errorf("api_url %q has no host", s.APIURL)
		}
	}
	if s.TimeoutMS < 0 {
		return errors.New("timeout_ms must be >= 0")
	}
	return s.RateLimit.validate("rate_limit")
}
