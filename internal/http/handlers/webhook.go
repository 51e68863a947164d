package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v5"
	"github.com/pravobot/pravobot/internal/metrics"
	"github.com/pravobot/pravobot/internal/telegram"
)

// secretTokenHeader is the header Telegram echoes back when the webhook was
// registered with a secret token.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// HandleTelegramWebhook accepts one Bot API update. Telegram retries
// non-2xx responses, so processing failures are logged and acknowledged
// rather than returned.
func (h *Handlers) HandleTelegramWebhook(c *echo.Context) error {
	if secret := h.Cfg.TelegramWebhookSecret; secret != "" {
		provided := c.Request().Header.Get(secretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			metrics.WebhookUpdatesTotal.WithLabelValues("telegram", "forbidden").Inc()
			return c.String(http.StatusForbidden, "invalid secret token")
		}
	}

	var upd telegram.Update
	if err := json.NewDecoder(c.Request().Body).Decode(&upd); err != nil {
		metrics.WebhookUpdatesTotal.WithLabelValues("telegram", "malformed").Inc()
		return c.String(http.StatusBadRequest, "malformed update")
	}

	if h.Engine == nil {
		metrics.WebhookUpdatesTotal.WithLabelValues("telegram", "dropped").Inc()
		return c.NoContent(http.StatusOK)
	}

	if err := h.Engine.HandleUpdate(c.Request().Context(), upd); err != nil {
		metrics.WebhookUpdatesTotal.WithLabelValues("telegram", "error").Inc()
		requestID, _ := c.Get(ContextKeyRequestID).(string)
		c.Logger().Error("webhook update failed",
			"request_id", requestID,
			"update_id", upd.UpdateID,
			"error", err,
		)
		return c.NoContent(http.StatusOK)
	}

	metrics.WebhookUpdatesTotal.WithLabelValues("telegram", "ok").Inc()
	return c.NoContent(http.StatusOK)
}
