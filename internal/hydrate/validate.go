package hydrate

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gosuda/kanban/internal/domain"
)

// ErrInvalidDataset marks a payload that does not have the dataset shape.
var ErrInvalidDataset = errors.New("invalid dataset")

type fieldKind int

const (
	kindString fieldKind = iota
	kindBool
	kindArray
)

func (k fieldKind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindBool:
		return "boolean"
	default:
		return "array"
	}
}

type field struct {
	name string
	kind fieldKind
}

var (
	boardFields   = []field{{"name", kindString}, {"columns", kindArray}}
	columnFields  = []field{{"name", kindString}, {"tasks", kindArray}}
	taskFields    = []field{{"title", kindString}, {"description", kindString}, {"status", kindString}, {"subtasks", kindArray}}
	subtaskFields = []field{{"title", kindString}, {"isCompleted", kindBool}}
)

// ValidateDataset checks every level of a raw dataset payload and decodes it.
// The error names the first offending path, e.g.
// "boards[0].columns[1].tasks[0].subtasks[2].isCompleted: expected boolean".
func ValidateDataset(raw []byte) (*domain.Dataset, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON: %w", ErrInvalidDataset, err)
	}
	if err := validateRoot(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}

	var ds domain.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}
	return &ds, nil
}

func validateRoot(doc any) error {
	root, ok := doc.(map[string]any)
	if !ok {
		return errors.New("root: expected object")
	}
	boards, ok := root["boards"].([]any)
	if !ok {
		return errors.New("boards: expected array")
	}
	for bi, b := range boards {
		bpath := fmt.Sprintf("boards[%d]", bi)
		board, err := object(b, bpath, boardFields)
		if err != nil {
			return err
		}
		for ci, c := range board["columns"].([]any) {
			cpath := fmt.Sprintf("%s.columns[%d]", bpath, ci)
			col, err := object(c, cpath, columnFields)
			if err != nil {
				return err
			}
			for ti, t := range col["tasks"].([]any) {
				tpath := fmt.Sprintf("%s.tasks[%d]", cpath, ti)
				task, err := object(t, tpath, taskFields)
				if err != nil {
					return err
				}
				for si, st := range task["subtasks"].([]any) {
					if _, err := object(st, fmt.Sprintf("%s.subtasks[%d]", tpath, si), subtaskFields); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func object(v any, path string, fields []field) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected object", path)
	}
	for _, f := range fields {
		got, present := obj[f.name]
		if !present || !hasKind(got, f.kind) {
			return nil, fmt.Errorf("%s.%s: expected %s", path, f.name, f.kind)
		}
	}
	return obj, nil
}

func hasKind(v any, k fieldKind) bool {
	switch k {
	case kindString:
		_, ok := v.(string)
		return ok
	case kindBool:
		_, ok := v.(bool)
		return ok
	default:
		_, ok := v.([]any)
		return ok
	}
}
