package chat

import (
	"errors"
	"strings"
	"time"

	"kiarachat/pkg/models"
	"kiarachat/pkg/utils"
)

// ErrEmptyMessage is returned when the user message is empty after trimming.
var ErrEmptyMessage = errors.New("message is required")

// intraTurnStep spaces the synthetic timestamps of assistant messages within
// a turn. It is a display-ordering device, not a real emission time.
const intraTurnStep = time.Millisecond

// BuildTurn assembles a persistable turn from the trimmed user message, the
// segmented assistant reply and the request context. Construction only; the
// caller persists the turn via the store in a separate, explicit step.
func BuildTurn(userMessage string, segments []string, identity string, now time.Time) (models.Turn, error) {
	userMessage = strings.TrimSpace(userMessage)
	if userMessage == "" {
		return models.Turn{}, ErrEmptyMessage
	}
	if identity == "" {
		identity = models.UnknownClient
	}

	created := now.UTC().UnixMilli()
	msgs := make([]models.AssistantMessage, 0, len(segments))
	for i, s := range segments {
		msgs = append(msgs, models.AssistantMessage{
			Message: s,
			TS:      created + int64(i)*intraTurnStep.Milliseconds(),
		})
	}

	return models.Turn{
		ID:                utils.GenTurnID(),
		UserMessage:       userMessage,
		AssistantMessages: msgs,
		UserIP:            identity,
		TS:                created,
	}, nil
}
