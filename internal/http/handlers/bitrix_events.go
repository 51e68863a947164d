package handlers

import (
	"net/http"

	"github.com/labstack/echo/v5"
	"github.com/pravobot/pravobot/internal/metrics"
)

// Bitrix delivers imbot events as a form POST with bracketed keys; the
// values are read by their literal key names instead of rebuilding the
// nested structure.
const (
	eventMessageAdd = "ONIMBOTMESSAGEADD"

	formEventKey    = "event"
	formDialogKey   = "data[PARAMS][DIALOG_ID]"
	formMessageKey  = "data[PARAMS][MESSAGE]"
	formFromUserKey = "data[PARAMS][FROM_USER_ID]"
	formBotIDKey    = "data[BOT][ID]"
)

// HandleBitrixEvents accepts one imbot event. Bitrix retries non-2xx
// responses, so processing failures are logged and acknowledged rather
// than returned.
func (h *Handlers) HandleBitrixEvents(c *echo.Context) error {
	req := c.Request()
	if err := req.ParseForm(); err != nil {
		metrics.WebhookUpdatesTotal.WithLabelValues("bitrix", "malformed").Inc()
		return c.String(http.StatusBadRequest, "malformed event")
	}

	if event := req.PostFormValue(formEventKey); event != eventMessageAdd {
		metrics.WebhookUpdatesTotal.WithLabelValues("bitrix", "ignored").Inc()
		return c.NoContent(http.StatusOK)
	}

	dialogID := req.PostFormValue(formDialogKey)
	if dialogID == "" {
		metrics.WebhookUpdatesTotal.WithLabelValues("bitrix", "malformed").Inc()
		return c.NoContent(http.StatusOK)
	}

	// The bot's own replies come back through the same event stream.
	from := req.PostFormValue(formFromUserKey)
	if from != "" && from == req.PostFormValue(formBotIDKey) {
		metrics.WebhookUpdatesTotal.WithLabelValues("bitrix", "ignored").Inc()
		return c.NoContent(http.StatusOK)
	}

	if h.Events == nil {
		metrics.WebhookUpdatesTotal.WithLabelValues("bitrix", "dropped").Inc()
		return c.NoContent(http.StatusOK)
	}

	text := req.PostFormValue(formMessageKey)
	if err := h.Events.HandleWorkspaceMessage(req.Context(), dialogID, text); err != nil {
		metrics.WebhookUpdatesTotal.WithLabelValues("bitrix", "error").Inc()
		requestID, _ := c.Get(ContextKeyRequestID).(string)
		c.Logger().Error("workspace event failed",
			"request_id", requestID,
			"dialog_id", dialogID,
			"error", err,
		)
		return c.NoContent(http.StatusOK)
	}

	metrics.WebhookUpdatesTotal.WithLabelValues("bitrix", "ok").Inc()
	return c.NoContent(http.StatusOK)
}
