// Package dadata looks up legal entities in the DaData business registry
// and normalizes the loosely-typed suggestion payload into a typed
// registry.Record.
package dadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pravobot/pravobot/internal/cache"
	"github.com/pravobot/pravobot/internal/registry"
)

const findPartyPath = "/suggestions/api/4_1/rs/findById/party"

// ErrNotFound marks an empty registry answer: the identifier is syntactically
// valid but no entity is registered under it. Distinct from ErrAPI.
var ErrNotFound = errors.New("dadata: entity not found")

// ErrAPI marks a transport or service failure.
var ErrAPI = errors.New("dadata api error")

// APIError carries the HTTP status of a failed DaData call.
type APIError struct {
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if status := strings.TrimSpace(e.Status); status != "" {
		return fmt.Sprintf("dadata api error: %s", status)
	}
	return fmt.Sprintf("dadata api error: status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return ErrAPI
}

// Client queries the DaData party endpoint. Lookups are served through an
// optional bounded TTL cache so repeated checks of the same identifier do
// not hit the network.
type Client struct {
	cfg   Config
	http  *http.Client
	cache *cache.Cache[string, registry.Record]
}

// NewClient builds a client; httpClient and recordCache may be nil.
func NewClient(cfg Config, httpClient *http.Client, recordCache *cache.Cache[string, registry.Record]) (*Client, error) {
	cfg = cfg.Normalized()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, http: httpClient, cache: recordCache}, nil
}

// FindByTaxID fetches the registry record for a tax identifier. A missing
// entity is reported as ErrNotFound and is never cached as a record.
func (c *Client) FindByTaxID(ctx context.Context, taxID string) (registry.Record, error) {
	if c.cache != nil {
		if rec, ok := c.cache.Get(taxID); ok {
			return rec, nil
		}
	}

	body, err := json.Marshal(map[string]string{"query": taxID})
	if err != nil {
		return registry.Record{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+findPartyPath, bytes.NewReader(body))
	if err != nil {
		return registry.Record{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.cfg.Token)
	if c.cfg.Secret != "" {
		req.Header.Set("X-Secret", c.cfg.Secret)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return registry.Record{}, fmt.Errorf("%w: %w", ErrAPI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return registry.Record{}, &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var payload suggestionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return registry.Record{}, fmt.Errorf("%w: decode response: %w", ErrAPI, err)
	}
	if len(payload.Suggestions) == 0 {
		return registry.Record{}, ErrNotFound
	}

	rec := normalizeRecord(payload.Suggestions[0])
	if c.cache != nil {
		c.cache.Set(taxID, rec)
	}
	return rec, nil
}

type suggestionResponse struct {
	Suggestions []suggestion `json:"suggestions"`
}

type suggestion struct {
	Value string         `json:"value"`
	Data  suggestionData `json:"data"`
}

type suggestionData struct {
	INN  string `json:"inn"`
	OGRN string `json:"ogrn"`
	KPP  string `json:"kpp"`
	Name struct {
		FullWithOPF  string `json:"full_with_opf"`
		ShortWithOPF string `json:"short_with_opf"`
	} `json:"name"`
	Address struct {
		Value             string `json:"value"`
		UnrestrictedValue string `json:"unrestricted_value"`
		Data              struct {
			IsMassAddress *bool `json:"is_mass_address"`
		} `json:"data"`
	} `json:"address"`
	Management struct {
		Name   string `json:"name"`
		IsMass *bool  `json:"is_mass"`
	} `json:"management"`
	State struct {
		Status           string `json:"status"`
		RegistrationDate int64  `json:"registration_date"` // unix millis
	} `json:"state"`
	IsMassAddress  *bool `json:"is_mass_address"`
	IsMassDirector *bool `json:"is_mass_director"`
}

// normalizeRecord applies the documented fallback chain per field: name
// prefers the full legal form, the address its unrestricted variant, and
// mass flags the top-level field over the nested one.
func normalizeRecord(s suggestion) registry.Record {
	d := s.Data

	name := d.Name.FullWithOPF
	if name == "" {
		name = d.Name.ShortWithOPF
	}
	if name == "" {
		name = s.Value
	}

	address := d.Address.UnrestrictedValue
	if address == "" {
		address = d.Address.Value
	}

	var registrationDate string
	if d.State.RegistrationDate > 0 {
		registrationDate = time.UnixMilli(d.State.RegistrationDate).UTC().Format("2006-01-02")
	}

	return registry.Record{
		TaxID:            d.INN,
		Name:             name,
		OGRN:             d.OGRN,
		KPP:              d.KPP,
		Address:          address,
		Director:         d.Management.Name,
		Status:           d.State.Status,
		RegistrationDate: registrationDate,
		MassAddress:      firstFlag(d.IsMassAddress, d.Address.Data.IsMassAddress),
		MassDirector:     firstFlag(d.IsMassDirector, d.Management.IsMass),
	}
}

func firstFlag(flags ...*bool) *bool {
	for _, f := range flags {
		if f != nil {
			return f
		}
	}
	return nil
}
