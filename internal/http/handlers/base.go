// Package handlers contains HTTP handler logic split by domain.
package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v5"
	"github.com/pravobot/pravobot/internal/bitrix"
	"github.com/pravobot/pravobot/internal/config"
	"github.com/pravobot/pravobot/internal/telegram"
)

const (
	// ContextKeyRequestID stores the request id (X-Request-ID) for logging and client error references.
	ContextKeyRequestID = "request_id"

	// InternalErrorCode is a stable error code safe to return to clients.
	InternalErrorCode = "INTERNAL_ERROR"
)

// UpdateProcessor handles one inbound chat update end to end.
type UpdateProcessor interface {
	HandleUpdate(ctx context.Context, upd telegram.Update) error
}

// EventProcessor handles one inbound workspace chat message.
type EventProcessor interface {
	HandleWorkspaceMessage(ctx context.Context, dialogID, text string) error
}

// Authorizer runs the workspace OAuth code exchange.
type Authorizer interface {
	AuthURL() string
	ExchangeCode(ctx context.Context, code string) (bitrix.Credential, error)
}

// Handlers groups all HTTP handlers and shared dependencies. Engine, Events
// and Auth may be nil when the matching integration is not configured.
type Handlers struct {
	Cfg    config.Config
	Engine UpdateProcessor
	Events EventProcessor
	Auth   Authorizer
}

// RenderError returns a generic plain text error response.
func (h *Handlers) RenderError(c *echo.Context, err error) error {
	requestID, _ := c.Get(ContextKeyRequestID).(string)
	path := ""
	if req := c.Request(); req != nil && req.URL != nil {
		path = req.URL.Path
	}
	method := ""
	if req := c.Request(); req != nil {
		method = req.Method
	}
	c.Logger().Error("http error",
		"request_id", requestID,
		"method", method,
		"path", path,
		"ip", c.RealIP(),
		"error", err,
	)

	msg := "Internal server error."
	if requestID != "" {
		msg = fmt.Sprintf("%s Reference: %s.", msg, requestID)
	}
	msg = fmt.Sprintf("%s Code: %s.", msg, InternalErrorCode)
	return c.String(http.StatusInternalServerError, msg)
}

// RenderNotFound returns a 404 response.
func RenderNotFound(c *echo.Context) error {
	return c.String(http.StatusNotFound, "404 page not found")
}
