package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gosuda/kanban/internal/config"
	"github.com/gosuda/kanban/internal/domain"
	"github.com/gosuda/kanban/internal/hydrate"
	"github.com/gosuda/kanban/internal/persist"
	"github.com/gosuda/kanban/internal/reducer"
	"github.com/gosuda/kanban/internal/seed"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json|file.yaml>",
		Short: "Replace the persisted state with a dataset file",
		Long: `Reads a dataset in the same nested board/column/task shape the dataset
endpoint serves, normalizes it and saves it under the configured key.
Files ending in .yaml or .yml are parsed as YAML.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	ds, err := readDataset(args[0])
	if err != nil {
		return err
	}

	s := seed.FromDataset(ds)
	if err := reducer.CheckInvariants(s); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	data, err := persist.Encode(s)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	b, err := openStorage(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	if err := b.storage.Set(cmd.Context(), cfg.Storage.Key, data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d boards, %d columns, %d tasks into %s storage\n",
		len(s.BoardIDs), len(s.ColumnIDs), len(s.TaskIDs), cfg.Storage.Backend)
	return nil
}

// readDataset loads and validates a dataset file. YAML is converted to JSON
// first so both formats go through the same validation.
func readDataset(path string) (*domain.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("import: parse yaml: %w", err)
		}
		raw, err = json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("import: convert yaml: %w", err)
		}
	}

	ds, err := hydrate.ValidateDataset(raw)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return ds, nil
}
