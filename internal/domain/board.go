package domain

// Board is the top-level container. It owns its columns through ColumnIDs;
// tasks are reached through the columns.
type Board struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	ColumnIDs []string `json:"columnIds"`
}

// Column is an ordered lane of tasks. BoardID is a back-reference only; the
// owning board's ColumnIDs is authoritative. Name doubles as the status label
// of every task in the column.
type Column struct {
	ID          string   `json:"id"`
	BoardID     string   `json:"boardId"`
	Name        string   `json:"name"`
	AccentColor string   `json:"accentColor"`
	TaskIDs     []string `json:"taskIds"`
}

// AccentPalette is the fixed set of column accent colours. The first entry is
// the default for columns created without one.
var AccentPalette = []string{ //nolint:gochecknoglobals // fixed palette
	"#49C4E5",
	"#8471F2",
	"#67E2AE",
	"#E5A449",
	"#E55A49",
	"#635FC7",
}

// DefaultAccentColor is used when a column is created without an accent colour.
const DefaultAccentColor = "#49C4E5"

// PaletteColor returns the palette colour for a positional index, cycling.
// Negative indexes wrap from the end.
func PaletteColor(i int) string {
	n := len(AccentPalette)
	return AccentPalette[(i%n+n)%n]
}
