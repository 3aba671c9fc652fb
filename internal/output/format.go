// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"tasker/internal/service"
)

// descIndent lines the description up under the title.
const descIndent = "          "

// FormatTask formats one task of the list.
// Format: "{N:>4}  [x] {TITLE}\n", followed by the description indented
// under the title when it is not empty.
func FormatTask(w io.Writer, num int, task service.Task) {
	mark := " "
	if task.IsComplete {
		mark = "x"
	}
	fmt.Fprintf(w, "%4d  [%s] %s\n", num, mark, normalizeTitle(task.Title))

	if desc := oneLine(task.Description); strings.TrimSpace(desc) != "" {
		fmt.Fprintf(w, "%s%s\n", descIndent, desc)
	}
}

// FormatTasks formats the whole list, numbering tasks from 1.
func FormatTasks(w io.Writer, tasks []service.Task) {
	for i, task := range tasks {
		FormatTask(w, i+1, task)
	}
}

// FormatDraft formats the form: its mode and the draft fields.
func FormatDraft(w io.Writer, editing service.TaskID, isEditing bool, draft service.Draft) {
	if isEditing {
		fmt.Fprintf(w, "editing #%s\n", editing)
	} else {
		fmt.Fprintln(w, "new task")
	}
	fmt.Fprintf(w, "  title:       %s\n", oneLine(draft.Title))
	fmt.Fprintf(w, "  description: %s\n", oneLine(draft.Description))
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = oneLine(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
