package history

import (
	"sort"

	"kiarachat/pkg/models"
)

// Project flattens stored turns into the chronological sequence of display
// messages the client renders: for each turn one user message followed by
// one message per assistant segment, globally ordered by timestamp
// ascending. The sort is stable so a user message and its first assistant
// reply, which can share a timestamp, keep their relative order. Pure, no
// I/O; turns may arrive in any order.
func Project(turns []models.Turn) []models.DisplayMessage {
	out := make([]models.DisplayMessage, 0, len(turns)*3)
	for _, t := range turns {
		out = append(out, models.DisplayMessage{
			Role:    models.RoleUser,
			Content: t.UserMessage,
			TS:      t.TS,
		})
		for _, m := range t.AssistantMessages {
			out = append(out, models.DisplayMessage{
				Role:    models.RoleAssistant,
				Content: m.Message,
				TS:      m.TS,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TS < out[j].TS })
	return out
}
