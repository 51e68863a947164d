package bitrix

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// APIClient calls Bitrix24 REST methods on behalf of the bot. Every call
// obtains a live access token from the manager first; an expired
// credential is refreshed transparently and a failed refresh surfaces as a
// CredentialError.
type APIClient struct {
	Manager *Manager
	HTTP    *http.Client
}

// SendMessage posts a chat message through the imbot REST endpoint.
func (c *APIClient) SendMessage(ctx context.Context, dialogID, text string) error {
	token, err := c.Manager.AccessToken(ctx, c.Manager.Domain())
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("auth", token)
	form.Set("DIALOG_ID", dialogID)
	form.Set("MESSAGE", text)

	endpoint := c.Manager.cfg.BaseURL() + "/rest/imbot.message.add.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = c.Manager.http
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bitrix api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("bitrix api: imbot.message.add returned %s", resp.Status)
	}

	var payload struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("bitrix api: decode response: %w", err)
	}
	if payload.Error != "" {
		return fmt.Errorf("bitrix api: %s: %s", payload.Error, payload.ErrorDescription)
	}
	return nil
}
