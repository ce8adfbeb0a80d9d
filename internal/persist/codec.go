package persist

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gosuda/kanban/internal/domain"
)

type record struct {
	Kanban *domain.State `json:"kanban"`
}

// Encode serializes s as {"kanban": s}.
func Encode(s *domain.State) ([]byte, error) {
	if s == nil {
		s = domain.NewState()
	}
	data, err := json.Marshal(record{Kanban: s})
	if err != nil {
		return nil, fmt.Errorf("persist.Encode: %w", err)
	}
	return data, nil
}

// fieldKinds lists the members a stored state must carry and the JSON kind
// each must have.
var fieldKinds = []struct {
	name string
	open byte
}{
	{"boards", '{'},
	{"boardIds", '['},
	{"columns", '{'},
	{"columnIds", '['},
	{"tasks", '{'},
	{"taskIds", '['},
	{"ui", '{'},
}

// Decode parses a blob written by Encode. Missing or mistyped top-level
// members yield ErrInvalidShape. Unknown theme or hydration values fall back
// to their defaults.
func Decode(data []byte) (*domain.State, error) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("persist.Decode: %w: %w", ErrInvalidShape, err)
	}
	raw, ok := env["kanban"]
	if !ok || kindOf(raw) != '{' {
		return nil, fmt.Errorf("persist.Decode: %w: missing kanban object", ErrInvalidShape)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("persist.Decode: %w: %w", ErrInvalidShape, err)
	}
	for _, f := range fieldKinds {
		v, ok := fields[f.name]
		if !ok {
			return nil, fmt.Errorf("persist.Decode: %w: missing %s", ErrInvalidShape, f.name)
		}
		if kindOf(v) != f.open {
			return nil, fmt.Errorf("persist.Decode: %w: %s has the wrong type", ErrInvalidShape, f.name)
		}
	}

	var s domain.State
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("persist.Decode: %w: %w", ErrInvalidShape, err)
	}
	if !s.UI.Theme.Valid() {
		s.UI.Theme = domain.ThemeDark
	}
	if !s.UI.HydrationStatus.Valid() {
		s.UI.HydrationStatus = domain.HydrationIdle
	}
	return s.Clone(), nil
}

func kindOf(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
