package models

// Role identifies who authored a display message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DisplayMessage is the flattened projection of a turn consumed by the
// client: one individually timestamped chat bubble. Display messages are
// derived on every history read and never stored.
type DisplayMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	// TS is a unix-millisecond timestamp used as the chronological sort key.
	TS int64 `json:"timestamp"`
}
