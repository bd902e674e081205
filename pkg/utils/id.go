package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// GenTurnID returns a unique identifier for a stored turn.
func GenTurnID() string {
	return fmt.Sprintf("turn-%s", uuid.NewString())
}
