package dadata

import (
	"errors"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://suggestions.dadata.ru"
	defaultTimeout = 10 * time.Second
)

// Config holds DaData API credentials and endpoint settings.
type Config struct {
	Token   string
	Secret  string
	BaseURL string
	Timeout time.Duration
}

func (c Config) Normalized() Config {
	out := c
	out.Token = strings.TrimSpace(out.Token)
	out.Secret = strings.TrimSpace(out.Secret)
	out.BaseURL = strings.TrimRight(strings.TrimSpace(out.BaseURL), "/")
	if out.BaseURL == "" {
		out.BaseURL = defaultBaseURL
	}
	if out.Timeout <= 0 {
		out.Timeout = defaultTimeout
	}
	return out
}

func (c Config) Validate() error {
	c = c.Normalized()
	if c.Token == "" {
		return errors.New("DaData token is required")
	}
	return nil
}
