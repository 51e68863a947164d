// Package telegram holds the Bot API types and client used by the webhook
// transport.
package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.telegram.org"
	defaultTimeout = 30 * time.Second

	// maxFileSize bounds attachment downloads; the Bot API itself caps
	// getFile at 20 MB.
	maxFileSize = 20 << 20
)

// Update is an inbound webhook payload.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is one chat message with an optional attached document.
type Message struct {
	MessageID int64     `json:"message_id"`
	From      *User     `json:"from"`
	Chat      Chat      `json:"chat"`
	Text      string    `json:"text"`
	Caption   string    `json:"caption"`
	Document  *Document `json:"document"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type Document struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
}

// File is the getFile answer used to download attachment content.
type File struct {
	FileID   string `json:"file_id"`
	FilePath string `json:"file_path"`
}

// ErrAPI marks a Bot API failure.
var ErrAPI = errors.New("telegram api error")

// APIError carries the Bot API error code and description.
type APIError struct {
	Code        int
	Description string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if desc := strings.TrimSpace(e.Description); desc != "" {
		return fmt.Sprintf("telegram api error: %d: %s", e.Code, desc)
	}
	return fmt.Sprintf("telegram api error: %d", e.Code)
}

func (e *APIError) Unwrap() error {
	return ErrAPI
}

// Client talks to the Telegram Bot API.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient builds a Bot API client; baseURL and httpClient may be empty.
func NewClient(token, baseURL string, httpClient *http.Client) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("telegram bot token is required")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{token: token, baseURL: baseURL, http: httpClient}, nil
}

// SendMessage posts a Markdown-formatted message to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	form := url.Values{}
	form.Set("chat_id", strconv.FormatInt(chatID, 10))
	form.Set("text", text)
	form.Set("parse_mode", "Markdown")

	var ignored json.RawMessage
	return c.call(ctx, "sendMessage", form, &ignored)
}

// GetFile resolves a file id into a downloadable path.
func (c *Client) GetFile(ctx context.Context, fileID string) (File, error) {
	form := url.Values{}
	form.Set("file_id", fileID)

	var file File
	if err := c.call(ctx, "getFile", form, &file); err != nil {
		return File{}, err
	}
	return file, nil
}

// DownloadFile fetches attachment content by the path from GetFile.
func (c *Client) DownloadFile(ctx context.Context, filePath string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/file/bot%s/%s", c.baseURL, c.token, filePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAPI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &APIError{Code: resp.StatusCode, Description: "file download failed"}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxFileSize))
}

func (c *Client) call(ctx context.Context, method string, form url.Values, result any) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAPI, err)
	}
	defer resp.Body.Close()

	var payload struct {
		OK          bool            `json:"ok"`
		ErrorCode   int             `json:"error_code"`
		Description string          `json:"description"`
		Result      json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrAPI, err)
	}
	if !payload.OK {
		return &APIError{Code: payload.ErrorCode, Description: payload.Description}
	}
	if result != nil && len(payload.Result) > 0 {
		if err := json.Unmarshal(payload.Result, result); err != nil {
			return fmt.Errorf("%w: decode result: %w", ErrAPI, err)
		}
	}
	return nil
}
