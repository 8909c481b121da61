package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/corkboard/internal/board"
)

// TaskOptions holds flags for the task subcommands.
type TaskOptions struct {
	*RootOptions
	Title     string
	Content   string
	Metadata  string
	Reason    string
	Position  int
	BoardID   string
	ColumnID  string
	Search    string
	WithWhy   bool
	Since     string
	Until     string
	Limit     int
	Offset    int
}

// NewTaskCommand creates the task command group.
func NewTaskCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TaskOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	add := &cobra.Command{
		Use:   "add <column-id> <title>",
		Short: "Create a task at the end of a column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return addTask(opts, cmd, args[0], args[1])
		},
	}
	add.Flags().StringVar(&opts.Content, "content", "", "task body")
	add.Flags().StringVar(&opts.Metadata, "metadata", "", "structured metadata as JSON")

	show := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showTask(opts, cmd, args[0])
		},
	}

	edit := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Edit a task's title, content, reason, or metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editTask(opts, cmd, args[0])
		},
	}
	edit.Flags().StringVar(&opts.Title, "title", "", "new title")
	edit.Flags().StringVar(&opts.Content, "content", "", "new body")
	edit.Flags().StringVar(&opts.Reason, "reason", "", "why the task changed")
	edit.Flags().StringVar(&opts.Metadata, "metadata", "", "new metadata as JSON")

	move := &cobra.Command{
		Use:   "move <task-id> <column-id>",
		Short: "Move a task to a column",
		Long: `Move a task to a column, appending to the end unless --position
is given. Cross-column moves are rejected when the target column is at
its WIP limit.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return moveTask(opts, cmd, args[0], args[1])
		},
	}
	move.Flags().IntVar(&opts.Position, "position", -1, "target position (default: append)")
	move.Flags().StringVar(&opts.Reason, "reason", "", "why the task moved")

	rm := &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteTask(opts, cmd, args[0])
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listTasks(opts, cmd)
		},
	}
	list.Flags().StringVar(&opts.BoardID, "board", "", "only tasks on this board")
	list.Flags().StringVar(&opts.ColumnID, "column", "", "only tasks in this column")
	list.Flags().StringVar(&opts.Search, "search", "", "substring match over title and content")
	list.Flags().BoolVar(&opts.WithWhy, "with-reason", false, "only tasks with an update reason")
	list.Flags().StringVar(&opts.Since, "since", "", "only tasks created on/after this date (RFC 3339)")
	list.Flags().StringVar(&opts.Until, "until", "", "only tasks created on/before this date (RFC 3339)")
	list.Flags().IntVar(&opts.Limit, "limit", 0, "max results (0 = all)")
	list.Flags().IntVar(&opts.Offset, "offset", 0, "results to skip")

	cmd.AddCommand(add, show, edit, move, rm, list)
	return cmd
}

func addTask(opts *TaskOptions, cmd *cobra.Command, columnID, title string) error {
	meta, err := parseMetadata(opts.Metadata)
	if err != nil {
		return err
	}

	eng, s, err := openEngine(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	t, err := eng.CreateTask(cmd.Context(), columnID, title, opts.Content, meta)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		return printJSON(cmd.OutOrStdout(), t)
	}
	printTask(cmd.OutOrStdout(), t)
	return nil
}

func showTask(opts *TaskOptions, cmd *cobra.Command, id string) error {
	eng, s, err := openEngine(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	t, err := eng.GetTask(cmd.Context(), id)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		return printJSON(cmd.OutOrStdout(), t)
	}
	printTask(cmd.OutOrStdout(), t)
	if t.Content != "" {
		fmt.Fprintln(cmd.OutOrStdout(), t.Content)
	}
	return nil
}

func editTask(opts *TaskOptions, cmd *cobra.Command, id string) error {
	var upd board.TaskUpdate
	if cmd.Flags().Changed("title") {
		upd.Title = &opts.Title
	}
	if cmd.Flags().Changed("content") {
		upd.Content = &opts.Content
	}
	if cmd.Flags().Changed("reason") {
		upd.UpdateReason = &opts.Reason
	}
	if cmd.Flags().Changed("metadata") {
		meta, err := parseMetadata(opts.Metadata)
		if err != nil {
			return err
		}
		upd.Metadata = meta
	}

	eng, s, err := openEngine(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	t, err := eng.UpdateTask(cmd.Context(), id, upd)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		return printJSON(cmd.OutOrStdout(), t)
	}
	printTask(cmd.OutOrStdout(), t)
	return nil
}

func moveTask(opts *TaskOptions, cmd *cobra.Command, taskID, columnID string) error {
	var pos *int
	if cmd.Flags().Changed("position") {
		pos = &opts.Position
	}

	eng, s, err := openEngine(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := eng.MoveTask(cmd.Context(), taskID, columnID, pos, opts.Reason); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "moved")
	return nil
}

func deleteTask(opts *TaskOptions, cmd *cobra.Command, id string) error {
	eng, s, err := openEngine(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := eng.DeleteTask(cmd.Context(), id)
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

func listTasks(opts *TaskOptions, cmd *cobra.Command) error {
	f := board.TaskFilter{
		BoardID:  opts.BoardID,
		ColumnID: opts.ColumnID,
		Search:   opts.Search,
		Limit:    opts.Limit,
		Offset:   opts.Offset,
	}
	if opts.WithWhy {
		yes := true
		f.HasUpdateReason = &yes
	}
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

	tasks, err := eng.ListTasks(cmd.Context(), f)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		return printJSON(cmd.OutOrStdout(), tasks)
	}
	for _, t := range tasks {
		printTask(cmd.OutOrStdout(), t)
	}
	return nil
}

// parseMetadata parses the --metadata JSON flag.
func parseMetadata(s string) (map[string]any, error) {
	if s == "" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("invalid --metadata JSON: %w", err)
	}
	return m, nil
}
