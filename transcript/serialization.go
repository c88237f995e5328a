package transcript

import (
	"fmt"

	"github.com/groundline/groundline/core"
)

// MarshalTurn serializes a turn to its binary storage form.
func MarshalTurn(turn core.Turn) ([]byte, error) {
	if err := core.ValidateTurn(&turn); err != nil {
		return nil, err
	}

	buf := make([]byte, core.TurnMUS.Size(turn))
	core.TurnMUS.Marshal(turn, buf)
	return buf, nil
}

// UnmarshalTurn deserializes a turn from its binary storage form.
func UnmarshalTurn(data []byte) (core.Turn, error) {
	turn, _, err := core.TurnMUS.Unmarshal(data)
	if err != nil {
		return core.Turn{}, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	return turn, nil
}
