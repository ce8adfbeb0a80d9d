package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gosuda/kanban/internal/config"
	"github.com/gosuda/kanban/internal/persist"
	"github.com/gosuda/kanban/internal/seed"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the persisted state envelope as JSON",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	cmd.Flags().Bool("seed", false, "Print the seed state instead of the persisted one")
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	useSeed, _ := cmd.Flags().GetBool("seed")

	var data []byte
	if useSeed {
		encoded, err := persist.Encode(seed.State())
		if err != nil {
			return err
		}
		data = encoded
	} else {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		b, err := openStorage(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		data, err = b.storage.Get(cmd.Context(), cfg.Storage.Key)
		if errors.Is(err, persist.ErrNotFound) {
			return fmt.Errorf("nothing persisted under %q (use --seed for the defaults)", cfg.Storage.Key)
		}
		if err != nil {
			return err
		}
	}

	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	out.WriteByte('\n')
	_, err := cmd.OutOrStdout().Write(out.Bytes())
	return err
}
