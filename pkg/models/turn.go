package models

// UnknownClient is the sentinel identity used when no network identity
// could be derived from a request. Identity is never empty.
const UnknownClient = "unknown"

// AssistantMessage is one display bubble of an assistant reply.
type AssistantMessage struct {
	Message string `json:"message"`
	// TS is a unix-millisecond timestamp. Within a turn these are synthetic
	// (created_at + i ms) and exist only to keep a stable sort order.
	TS int64 `json:"timestamp"`
}

// Turn is the unit of persistence: one user message plus its grouped
// assistant reply segments. Turns are immutable once appended.
type Turn struct {
	ID          string `json:"id,omitempty"`
	UserMessage string `json:"user_message"`
	// AssistantMessages holds 2 or 3 entries, never fewer, never more.
	AssistantMessages []AssistantMessage `json:"assistant_messages"`
	// UserIP is the opaque client identity scoping history queries.
	UserIP string `json:"user_ip"`
	// TS is the turn creation time (unix ms), assigned once.
	TS int64 `json:"timestamp"`
}
