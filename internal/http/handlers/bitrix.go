package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"
)

// HandleBitrixAuth redirects the installer to the workspace consent page.
func (h *Handlers) HandleBitrixAuth(c *echo.Context) error {
	if h.Auth == nil {
		return c.String(http.StatusNotFound, "workspace integration is not configured")
	}
	return c.Redirect(http.StatusFound, h.Auth.AuthURL())
}

// HandleBitrixOAuthCallback exchanges the authorization code and persists
// the resulting credential.
func (h *Handlers) HandleBitrixOAuthCallback(c *echo.Context) error {
	if h.Auth == nil {
		return c.String(http.StatusNotFound, "workspace integration is not configured")
	}

	code := strings.TrimSpace(c.QueryParam("code"))
	if code == "" {
		return c.String(http.StatusBadRequest, "missing authorization code")
	}

	cred, err := h.Auth.ExchangeCode(c.Request().Context(), code)
	if err != nil {
		return h.RenderError(c, err)
	}
	return c.String(http.StatusOK, "Authorization complete for "+cred.Domain+". You can close this page.")
}
