package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/corkboard/internal/snapshot"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the store's contents with an exported snapshot",
		Long: `Replace the entire store with the given export document.

This is not a merge: everything currently in the store is removed and
the snapshot's boards, columns, and tasks take its place, atomically.
A malformed document is rejected before anything is touched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

func runImport(opts *RootOptions, cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	snap, err := snapshot.Decode(data)
	if err != nil {
		return err
	}

	ser, s, err := openSerializer(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := ser.Import(cmd.Context(), snap); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d boards, %d columns, %d tasks\n",
		len(snap.Boards), len(snap.Columns), len(snap.Tasks))
	return nil
}
