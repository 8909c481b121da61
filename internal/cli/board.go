package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/corkboard/internal/board"
)

// BoardOptions holds flags for the board subcommands.
type BoardOptions struct {
	*RootOptions
	Goal     string
	Columns  []string
	Template string
	Landing  int
	Search   string
	Since    string
	Until    string
	Name     string
}

// NewBoardCommand creates the board command group.
func NewBoardCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BoardOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Manage boards",
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a board with its columns",
		Long: `Create a board with its columns in one atomic step.

Columns come from repeated --column flags ("Name", "Name:3" for a WIP
limit of 3, "Name:0:done" for a done column) or from a YAML template
via --from. The colon separates the fields, so a column name that
itself contains ":" must be defined through a template. The landing column (where new tasks default) is selected
by index with --landing.

Example:
  corkboard board create "Sprint 1" --column "To Do" --column "Doing:2" --column "Done:0:done"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return createBoard(opts, cmd, args[0])
		},
	}
	create.Flags().StringVar(&opts.Goal, "goal", "", "board goal")
	create.Flags().StringArrayVar(&opts.Columns, "column", nil, `column definition "Name[:wip[:done]]", repeatable; names cannot contain ":" (use --from)`)
	create.Flags().StringVar(&opts.Template, "from", "", "YAML board template file")
	create.Flags().IntVar(&opts.Landing, "landing", 0, "index of the landing column")

	list := &cobra.Command{
		Use:   "list",
		Short: "List boards, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listBoards(opts, cmd)
		},
	}
	list.Flags().StringVar(&opts.Search, "search", "", "substring match over name and goal")
	list.Flags().StringVar(&opts.Since, "since", "", "only boards created on/after this date (RFC 3339)")
	list.Flags().StringVar(&opts.Until, "until", "", "only boards created on/before this date (RFC 3339)")

	show := &cobra.Command{
		Use:   "show <board-id>",
		Short: "Show a board with its columns and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showBoard(opts, cmd, args[0])
		},
	}

	update := &cobra.Command{
		Use:   "update <board-id>",
		Short: "Rename a board or change its goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateBoard(opts, cmd, args[0])
		},
	}
	update.Flags().StringVar(&opts.Name, "name", "", "new board name")
	update.Flags().StringVar(&opts.Goal, "goal", "", "new board goal")

	rm := &cobra.Command{
		Use:   "rm <board-id>",
		Short: "Delete a board and everything on it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteBoard(opts, cmd, args[0])
		},
	}

	cmd.AddCommand(create, list, show, update, rm)
	return cmd
}

// boardTemplate is the YAML shape consumed by --from.
type boardTemplate struct {
	Goal         string            `yaml:"goal"`
	Columns      []board.ColumnDef `yaml:"columns"`
	LandingIndex int               `yaml:"landing_index"`
}

func createBoard(opts *BoardOptions, cmd *cobra.Command, name string) error {
	goal := opts.Goal
	landing := opts.Landing
	var defs []board.ColumnDef

	switch {
	case opts.Template != "":
		data, err := os.ReadFile(opts.Template)
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
		var tpl boardTemplate
		if err := yaml.Unmarshal(data, &tpl); err != nil {
			return fmt.Errorf("parse template: %w", err)
		}
		for i := range tpl.Columns {
			tpl.Columns[i].Position = i
		}
		defs = tpl.Columns
		landing = tpl.LandingIndex
		if goal == "" {
			goal = tpl.Goal
		}
	default:
		for i, spec := range opts.Columns {
			def, err := parseColumnSpec(spec)
			if err != nil {
				return err
			}
			def.Position = i
			defs = append(defs, def)
		}
	}

	eng, s, err := openEngine(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	b, err := eng.CreateBoard(cmd.Context(), name, goal, defs, landing)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		return printJSON(cmd.OutOrStdout(), b)
	}
	printBoard(cmd.OutOrStdout(), b)
	return nil
}

// parseColumnSpec parses "Name[:wip[:done]]". The colon is the field
// separator, so names containing ":" cannot be written in this form;
// a YAML template (--from) carries such names verbatim.
func parseColumnSpec(spec string) (board.ColumnDef, error) {
	parts := strings.Split(spec, ":")
	if len(parts) > 3 {
		return board.ColumnDef{}, fmt.Errorf("invalid column spec %q: want \"Name[:wip[:done]]\", and names cannot contain \":\" (use --from for such names)", spec)
	}
	def := board.ColumnDef{Name: parts[0]}
	if len(parts) > 1 && parts[1] != "" {
		wip, err := strconv.Atoi(parts[1])
		if err != nil || wip < 0 {
			return board.ColumnDef{}, fmt.Errorf("invalid WIP limit in column spec %q", spec)
		}
		def.WIPLimit = wip
	}
	if len(parts) > 2 {
		if parts[2] != "done" {
			return board.ColumnDef{}, fmt.Errorf("invalid marker in column spec %q (only \"done\" is allowed)", spec)
		}
		def.IsDone = true
	}
	return def, nil
}

func listBoards(opts *BoardOptions, cmd *cobra.Command) error {
	f := board.BoardFilter{Search: opts.Search}
	var err error
	if f.CreatedAfter, err = parseTimeFlag(opts.Since); err != nil {
		return err
	}
	if f.CreatedBefore, err = parseTimeFlag(opts.Until); err != nil {
		return err
	}

	eng, s, err := openEngine(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	boards, err := eng.ListBoards(cmd.Context(), f)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		return printJSON(cmd.OutOrStdout(), boards)
	}
	for _, b := range boards {
		printBoard(cmd.OutOrStdout(), b)
	}
	return nil
}

func showBoard(opts *BoardOptions, cmd *cobra.Command, id string) error {
	eng, s, err := openEngine(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	tree, err := eng.GetBoardTree(cmd.Context(), id)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		return printJSON(cmd.OutOrStdout(), tree)
	}
	printBoardTree(cmd.OutOrStdout(), tree)
	return nil
}

func updateBoard(opts *BoardOptions, cmd *cobra.Command, id string) error {
	var upd board.BoardUpdate
	if cmd.Flags().Changed("name") {
		upd.Name = &opts.Name
	}
	if cmd.Flags().Changed("goal") {
		upd.Goal = &opts.Goal
	}

	eng, s, err := openEngine(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	b, err := eng.UpdateBoard(cmd.Context(), id, upd)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		return printJSON(cmd.OutOrStdout(), b)
	}
	printBoard(cmd.OutOrStdout(), b)
	return nil
}

func deleteBoard(opts *BoardOptions, cmd *cobra.Command, id string) error {
	eng, s, err := openEngine(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := eng.DeleteBoard(cmd.Context(), id)
	if err != nil {
		return err
	}

	if n == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "nothing to delete")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "deleted")
	}
	return nil
}

// parseTimeFlag parses an optional RFC 3339 timestamp or date flag.
func parseTimeFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid time %q: use RFC 3339 or YYYY-MM-DD", s)
}
