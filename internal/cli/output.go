package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/corkboard/internal/board"
)

// printJSON renders any value as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printBoard renders a one-line board summary.
func printBoard(w io.Writer, b board.Board) {
	fmt.Fprintf(w, "%s  %s", b.ID, b.Name)
	if b.Goal != "" {
		fmt.Fprintf(w, "  (%s)", b.Goal)
	}
	fmt.Fprintln(w)
}

// printBoardTree renders a full board with columns and tasks.
func printBoardTree(w io.Writer, tree board.BoardTree) {
	fmt.Fprintf(w, "%s  %s\n", tree.ID, tree.Name)
	if tree.Goal != "" {
		fmt.Fprintf(w, "goal: %s\n", tree.Goal)
	}
	for _, col := range tree.Columns {
		fmt.Fprintf(w, "\n[%d] %s%s  %s\n", col.Position, col.Name, columnMarkers(col), columnOccupancy(col))
		for _, t := range col.Tasks {
			fmt.Fprintf(w, "  %d. %s  (%s)\n", t.Position, t.Title, t.ID)
		}
	}
}

// columnMarkers renders the landing/done flags.
func columnMarkers(col board.ColumnTree) string {
	var marks []string
	if col.IsLanding {
		marks = append(marks, "landing")
	}
	if col.IsDone {
		marks = append(marks, "done")
	}
	if len(marks) == 0 {
		return ""
	}
	return " <" + strings.Join(marks, ",") + ">"
}

// columnOccupancy renders "n/limit" with capacity warnings.
func columnOccupancy(col board.ColumnTree) string {
	if col.WIPLimit == 0 {
		return fmt.Sprintf("%d", col.TaskCount)
	}
	s := fmt.Sprintf("%d/%d", col.TaskCount, col.WIPLimit)
	switch {
	case col.IsAtCapacity:
		s += " FULL"
	case col.IsNearCapacity:
		s += " near limit"
	}
	return s
}

// printTask renders a one-line task summary.
func printTask(w io.Writer, t board.Task) {
	fmt.Fprintf(w, "%s  [%d] %s", t.ID, t.Position, t.Title)
	if t.UpdateReason != "" {
		fmt.Fprintf(w, "  (%s)", t.UpdateReason)
	}
	fmt.Fprintln(w)
}
