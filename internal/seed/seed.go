// Package seed bundles the default board dataset.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/gosuda/kanban/internal/domain"
	"github.com/gosuda/kanban/internal/reducer"
)

//go:embed data.json
var raw []byte

// JSON returns the raw embedded dataset.
func JSON() []byte {
	return raw
}

// Dataset decodes the embedded dataset.
func Dataset() *domain.Dataset {
	var ds domain.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		panic(fmt.Sprintf("seed: embedded data.json: %v", err))
	}
	return &ds
}

// State is the initial store state used when nothing has been persisted:
// the seed dataset with its first board active and no fetch attempted.
func State() *domain.State {
	return FromDataset(Dataset())
}

// FromDataset normalizes ds and activates its first board.
func FromDataset(ds *domain.Dataset) *domain.State {
	s := reducer.NormalizeDataset(ds)
	if len(s.BoardIDs) > 0 {
		s.UI.ActiveBoardID = s.BoardIDs[0]
	}
	return s
}
