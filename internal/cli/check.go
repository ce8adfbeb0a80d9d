package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gosuda/kanban/internal/config"
	"github.com/gosuda/kanban/internal/persist"
	"github.com/gosuda/kanban/internal/reducer"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the persisted state",
		Long:  "Loads the persisted state and verifies its shape and referential invariants.",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	b, err := openStorage(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	out := cmd.OutOrStdout()
	data, err := b.storage.Get(cmd.Context(), cfg.Storage.Key)
	if errors.Is(err, persist.ErrNotFound) {
		fmt.Fprintf(out, "no state persisted under %q; the seed will be used\n", cfg.Storage.Key)
		return nil
	}
	if err != nil {
		return err
	}

	s, err := persist.Decode(data)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	if err := reducer.CheckInvariants(s); err != nil {
		return fmt.Errorf("check: %w", err)
	}

	fmt.Fprintf(out, "ok: %d boards, %d columns, %d tasks (hydration %s)\n",
		len(s.BoardIDs), len(s.ColumnIDs), len(s.TaskIDs), s.UI.HydrationStatus)
	return nil
}
