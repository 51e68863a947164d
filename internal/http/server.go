// Package httpapp wires the echo router for the assistant service.
package httpapp

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/pravobot/pravobot/internal/config"
	"github.com/pravobot/pravobot/internal/http/handlers"
)

// EchoServer is the HTTP server wrapper.
type EchoServer struct {
	h *handlers.Handlers
	e *echo.Echo
}

// NewEchoServer creates a new HTTP server.
func NewEchoServer(cfg config.Config, engine handlers.UpdateProcessor, events handlers.EventProcessor, auth handlers.Authorizer) (*EchoServer, error) {
	h := &handlers.Handlers{Cfg: cfg, Engine: engine, Events: events, Auth: auth}
	es := &EchoServer{h: h, e: echo.New()}
	es.e.HTTPErrorHandler = es.httpErrorHandler
	es.e.Use(requestID)
	es.registerRoutes()
	return es, nil
}

func (es *EchoServer) registerRoutes() {
	es.e.GET("/healthz", es.h.HandleHealthz)
	es.e.POST("/telegram/webhook", es.h.HandleTelegramWebhook)
	es.e.POST("/bitrix/event", es.h.HandleBitrixEvents)
	es.e.GET("/bitrix/auth", es.h.HandleBitrixAuth)
	es.e.GET("/bitrix/oauth/callback", es.h.HandleBitrixOAuthCallback)
}

// Handler exposes the router for use with a caller-owned http.Server.
func (es *EchoServer) Handler() http.Handler {
	return es.e
}

// requestID tags every request with an id for log correlation.
func requestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		id := c.Request().Header.Get(echo.HeaderXRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(handlers.ContextKeyRequestID, id)
		c.Response().Header().Set(echo.HeaderXRequestID, id)
		return next(c)
	}
}

// httpErrorHandler keeps error details out of responses; clients get a
// generic message with a request reference instead.
func (es *EchoServer) httpErrorHandler(c *echo.Context, err error) {
	// Context.Response() is a plain http.ResponseWriter; the committed flag
	// lives on the *echo.Response it unwraps to.
	if res, _ := echo.UnwrapResponse(c.Response()); res != nil && res.Committed {
		return
	}
	switch status := httpStatusFromError(err); status {
	case http.StatusNotFound:
		_ = handlers.RenderNotFound(c)
	case http.StatusInternalServerError:
		_ = es.h.RenderError(c, err)
	default:
		_ = c.String(status, http.StatusText(status))
	}
}

func httpStatusFromError(err error) int {
	var coder interface{ StatusCode() int }
	if errors.As(err, &coder) {
		return coder.StatusCode()
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}
