package bitrix

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Config holds the OAuth application settings for one Bitrix24 portal.
type Config struct {
	Domain       string // portal domain, e.g. example.bitrix24.ru
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Timeout      time.Duration
}

func (c Config) Normalized() Config {
	out := c
	out.Domain = strings.TrimSpace(out.Domain)
	out.Domain = strings.TrimPrefix(out.Domain, "https://")
	out.Domain = strings.TrimPrefix(out.Domain, "http://")
	out.Domain = strings.TrimRight(out.Domain, "/")
	out.ClientID = strings.TrimSpace(out.ClientID)
	out.ClientSecret = strings.TrimSpace(out.ClientSecret)
	out.RedirectURL = strings.TrimSpace(out.RedirectURL)
	if out.Timeout <= 0 {
		out.Timeout = defaultTimeout
	}
	return out
}

func (c Config) Validate() error {
	c = c.Normalized()
	if c.Domain == "" {
		return errors.New("Bitrix domain is required")
	}
	if c.ClientID == "" {
		return errors.New("Bitrix client id is required")
	}
	if c.ClientSecret == "" {
		return errors.New("Bitrix client secret is required")
	}
	return nil
}

// BaseURL returns the https portal root.
func (c Config) BaseURL() string {
	domain := c.Normalized().Domain
	if domain == "" {
		return ""
	}
	return "https://" + domain
}

// AuthURL builds the OAuth authorization redirect for the imbot scope.
func (c Config) AuthURL() string {
	c = c.Normalized()
	q := url.Values{}
	q.Set("client_id", c.ClientID)
	q.Set("response_type", "code")
	q.Set("scope", "imbot")
	if c.RedirectURL != "" {
		q.Set("redirect_uri", c.RedirectURL)
	}
	return c.BaseURL() + "/oauth/authorize/?" + q.Encode()
}
