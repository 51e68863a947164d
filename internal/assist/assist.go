// Package assist orchestrates one inbound chat message through the decision
// core: tax-id lookup, scenario routing, contract risk analysis, and canned
// command replies.
package assist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pravobot/pravobot/internal/contract"
	"github.com/pravobot/pravobot/internal/extract"
	"github.com/pravobot/pravobot/internal/metrics"
	"github.com/pravobot/pravobot/internal/registry"
	"github.com/pravobot/pravobot/internal/registry/dadata"
	"github.com/pravobot/pravobot/internal/scenario"
	"github.com/pravobot/pravobot/internal/scoring"
	"github.com/pravobot/pravobot/internal/store"
	"github.com/pravobot/pravobot/internal/taxid"
	"github.com/pravobot/pravobot/internal/telegram"
)

const defaultHistoryLimit = 20

// maxWorkspaceMessageLen caps inbound workspace chat text.
const maxWorkspaceMessageLen = 1000

// Bot is the outbound chat surface the engine replies through.
type Bot interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	GetFile(ctx context.Context, fileID string) (telegram.File, error)
	DownloadFile(ctx context.Context, filePath string) ([]byte, error)
}

// Messenger is the outbound workspace chat surface; string dialog ids,
// no file access.
type Messenger interface {
	SendMessage(ctx context.Context, dialogID, text string) error
}

// RegistryLookup resolves a validated tax identifier to a registry record.
type RegistryLookup interface {
	FindByTaxID(ctx context.Context, taxID string) (registry.Record, error)
}

// Memory persists per-chat conversation turns.
type Memory interface {
	Append(ctx context.Context, msg store.Message) error
	Recent(ctx context.Context, chatID int64, limit int) ([]store.Message, error)
}

// Engine is the deterministic assistant core. Registry and Memory are
// optional; a nil Registry disables counterparty lookups and a nil Memory
// disables chat persistence.
type Engine struct {
	Bot          Bot
	Workspace    Messenger
	Registry     RegistryLookup
	Memory       Memory
	HistoryLimit int
	AllowedChats []int64
	Scorer       scoring.Evaluator
	Log          *slog.Logger
}

func (e *Engine) logger() *slog.Logger {
	if e.Log != nil {
		return e.Log
	}
	return slog.Default()
}

// HandleUpdate processes one webhook update end to end and sends the reply.
// Updates without a message are ignored.
func (e *Engine) HandleUpdate(ctx context.Context, upd telegram.Update) error {
	msg := upd.Message
	if msg == nil {
		return nil
	}

	if !e.allowed(msg.From) {
		e.logger().Warn("update from unlisted user dropped",
			"chat_id", msg.Chat.ID)
		return e.Bot.SendMessage(ctx, msg.Chat.ID, accessDeniedMessage)
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		text = strings.TrimSpace(msg.Caption)
	}
	if text == "" && msg.Document == nil {
		return nil
	}

	e.remember(ctx, msg.Chat.ID, "user", text)

	reply := e.respond(ctx, msg.Chat.ID, msg.Document, text)
	if reply == "" {
		return nil
	}
	if err := e.Bot.SendMessage(ctx, msg.Chat.ID, reply); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	e.remember(ctx, msg.Chat.ID, "assistant", reply)
	return nil
}

// HandleWorkspaceMessage routes one Bitrix imbot chat message and replies
// through the workspace messenger. Workspace chats have no file access and
// no persisted history.
func (e *Engine) HandleWorkspaceMessage(ctx context.Context, dialogID, text string) error {
	if e.Workspace == nil || dialogID == "" {
		return nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len([]rune(text)) > maxWorkspaceMessageLen {
		return e.Workspace.SendMessage(ctx, dialogID, messageTooLongMessage)
	}

	reply := e.respond(ctx, 0, nil, text)
	if reply == "" {
		return nil
	}
	if err := e.Workspace.SendMessage(ctx, dialogID, reply); err != nil {
		return fmt.Errorf("send workspace reply: %w", err)
	}
	return nil
}

// respond picks exactly one reply for the message. Command replies win over
// everything, then a valid tax identifier, then scenario routing.
func (e *Engine) respond(ctx context.Context, chatID int64, doc *telegram.Document, text string) string {
	if strings.HasPrefix(text, "/") {
		return e.respondCommand(ctx, chatID, text)
	}

	if id, ok := taxid.Extract(text); ok {
		if !taxid.Validate(id) {
			return renderInvalidTaxID(id)
		}
		return e.respondLookup(ctx, id)
	}

	routeCtx := scenario.Context{
		HasAttachment:       doc != nil,
		HasCounterpartyInfo: mentionsCounterparty(text),
	}
	cls := scenario.Route(text, routeCtx)
	phase := "soft"
	if cls.MatchedRule != "" {
		phase = "gate"
	}
	metrics.RoutesTotal.WithLabelValues(string(cls.Scenario), phase).Inc()
	e.logger().Info("routed request",
		"scenario", cls.Scenario,
		"confidence", cls.Confidence,
		"rule", cls.MatchedRule,
	)

	if !scenario.IsConfident(cls.Confidence) {
		return renderQuestions(cls.Scenario, scenario.ClarifyingQuestions(cls.Scenario))
	}

	if cls.Scenario == scenario.RiskTable {
		return e.respondRiskTable(ctx, doc, text)
	}
	return renderScenarioBrief(cls.Scenario)
}

func (e *Engine) respondCommand(ctx context.Context, chatID int64, text string) string {
	cmd := strings.ToLower(strings.Fields(text)[0])
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	switch cmd {
	case "/start":
		return startMessage
	case "/help":
		return helpMessage
	case "/prompts":
		return renderPrompts()
	case "/status":
		return e.renderStatus(ctx, chatID)
	default:
		return unknownCommandMessage
	}
}

func (e *Engine) respondLookup(ctx context.Context, id string) string {
	if e.Registry == nil {
		return lookupDisabledMessage
	}

	started := time.Now()
	rec, err := e.Registry.FindByTaxID(ctx, id)
	result := "success"
	switch {
	case errors.Is(err, dadata.ErrNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	metrics.LookupsTotal.WithLabelValues(result).Inc()
	metrics.LookupDuration.WithLabelValues(result).Observe(time.Since(started).Seconds())

	if errors.Is(err, dadata.ErrNotFound) {
		return renderNotFound(id)
	}
	if err != nil {
		e.logger().Error("registry lookup failed", "tax_id", id, "err", err)
		return lookupFailedMessage
	}
	return renderCompanyCard(rec, e.Scorer.Evaluate(rec))
}

// respondRiskTable analyzes the attached document when present, otherwise
// the message text itself.
func (e *Engine) respondRiskTable(ctx context.Context, doc *telegram.Document, text string) string {
	source := text
	mode := "message"
	if doc != nil {
		content, err := e.fetchAttachment(ctx, doc)
		if err != nil {
			if errors.Is(err, extract.ErrUnsupportedFormat) {
				return unsupportedAttachmentMessage
			}
			e.logger().Error("attachment fetch failed",
				"file", doc.FileName, "err", err)
			return attachmentFailedMessage
		}
		source = content
		mode = "attachment"
	}

	metrics.RiskAnalysesTotal.WithLabelValues(mode).Inc()
	return renderRiskTable(contract.Analyze(source))
}

func (e *Engine) fetchAttachment(ctx context.Context, doc *telegram.Document) (string, error) {
	file, err := e.Bot.GetFile(ctx, doc.FileID)
	if err != nil {
		return "", err
	}
	data, err := e.Bot.DownloadFile(ctx, file.FilePath)
	if err != nil {
		return "", err
	}
	return extract.Text(doc.FileName, data)
}

func (e *Engine) renderStatus(ctx context.Context, chatID int64) string {
	if e.Memory == nil {
		return statusNoMemoryMessage
	}
	limit := e.HistoryLimit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	history, err := e.Memory.Recent(ctx, chatID, limit)
	if err != nil {
		e.logger().Error("history read failed", "chat_id", chatID, "err", err)
		return statusNoMemoryMessage
	}
	return renderStatus(len(history))
}

func (e *Engine) remember(ctx context.Context, chatID int64, role, content string) {
	if e.Memory == nil || content == "" {
		return
	}
	err := e.Memory.Append(ctx, store.Message{ChatID: chatID, Role: role, Content: content})
	if err != nil {
		e.logger().Error("history write failed", "chat_id", chatID, "err", err)
	}
}

// allowed applies the user whitelist. An empty list keeps the bot public;
// with a non-empty list an update without a sender is rejected.
func (e *Engine) allowed(from *telegram.User) bool {
	if len(e.AllowedChats) == 0 {
		return true
	}
	if from == nil {
		return false
	}
	for _, id := range e.AllowedChats {
		if id == from.ID {
			return true
		}
	}
	return false
}

var counterpartyMarkers = []string{"инн", "огрн", "контрагент"}

func mentionsCounterparty(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range counterpartyMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
