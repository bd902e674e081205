package chat

import (
	"context"
	"strings"
	"time"

	"kiarachat/pkg/history"
	"kiarachat/pkg/logger"
	"kiarachat/pkg/models"
	"kiarachat/pkg/segment"
	"kiarachat/pkg/store"
)

// Completer obtains one raw assistant completion for a user message.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// HistoryWindow bounds what a history read replays.
type HistoryWindow struct {
	Span  time.Duration // how far back to look
	Limit int           // max turns per read
}

// DefaultHistoryWindow mirrors the client contract: last 7 days, 50 turns.
var DefaultHistoryWindow = HistoryWindow{Span: 7 * 24 * time.Hour, Limit: 50}

// Reply is the user-visible result of one chat send.
type Reply struct {
	Messages  []string
	Timestamp time.Time
}

// Service runs the chat pipeline: completion, segmentation, turn assembly,
// best-effort persistence, and history replay. The store is injected, never
// reached through package globals.
type Service struct {
	completer Completer
	store     *store.Store
	window    HistoryWindow
	now       func() time.Time
}

// NewService wires the pipeline. A zero window selects DefaultHistoryWindow.
func NewService(completer Completer, st *store.Store, window HistoryWindow) *Service {
	if window.Span <= 0 {
		window.Span = DefaultHistoryWindow.Span
	}
	if window.Limit <= 0 {
		window.Limit = DefaultHistoryWindow.Limit
	}
	return &Service{completer: completer, store: st, window: window, now: time.Now}
}

// Send runs one chat turn for the given client identity. A persistence
// failure is logged and counted but does not fail the send: the generated
// messages are still returned to the caller.
func (s *Service) Send(ctx context.Context, identity, message string) (Reply, error) {
	// validate before spending a completion call
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, ErrEmptyMessage
	}

	raw, err := s.completer.Complete(ctx, SystemPrompt, message)
	if err != nil {
		return Reply{}, err
	}

	segments := segment.Split(raw)
	turn, err := BuildTurn(message, segments, identity, s.now())
	if err != nil {
		return Reply{}, err
	}

	if err := s.store.AppendTurn(turn); err != nil {
		logger.Warn("turn_persist_failed", "identity", turn.UserIP, "error", err)
	}

	return Reply{Messages: segments, Timestamp: time.UnixMilli(turn.TS).UTC()}, nil
}

// History replays the recent conversation for one identity as a flat,
// chronologically ordered display-message sequence. Store failures are
// surfaced: history fails closed.
func (s *Service) History(ctx context.Context, identity string) ([]models.DisplayMessage, error) {
	_ = ctx
	if identity == "" {
		identity = models.UnknownClient
	}
	since := s.now().Add(-s.window.Span).UTC().UnixMilli()
	turns, err := s.store.QueryRecent(identity, since, s.window.Limit)
	if err != nil {
		return nil, err
	}
	return history.Project(turns), nil
}

// Window exposes the effective history bounds (used by the banner).
func (s *Service) Window() HistoryWindow { return s.window }
