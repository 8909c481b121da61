package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/corkboard/internal/snapshot"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every board, column, and task as JSON",
		Long: `Export the entire store as a flat JSON document:

  { "boards": [...], "columns": [...], "tasks": [...] }

The document round-trips losslessly through import.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	ser, s, err := openSerializer(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := ser.Export(cmd.Context())
	if err != nil {
		return err
	}

	data, err := snapshot.Encode(snap)
	if err != nil {
		return err
	}

	if opts.Output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %d boards, %d columns, %d tasks to %s\n",
		len(snap.Boards), len(snap.Columns), len(snap.Tasks), opts.Output)
	return nil
}
