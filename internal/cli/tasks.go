package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/existflow/taskboard/internal/event"
	"github.com/existflow/taskboard/internal/form"
	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/markup"
	"github.com/existflow/taskboard/internal/model"
	"github.com/existflow/taskboard/internal/presenter"
)

var tasksCmd = &cobra.Command{
	Use:     "tasks",
	Aliases: []string{"task"},
	Short:   "List and create tasks",
}

var tasksListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your tasks",
	Long: `List your tasks, newest first.

Examples:
  taskboard tasks list
  taskboard tasks ls --format html > tasks.html`,
	Args: cobra.NoArgs,
	RunE: runTasksList,
}

var tasksAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task.

Examples:
  taskboard tasks add "Buy groceries"
  taskboard tasks add "Write report" -d "Q3 numbers" --due 2025-07-01`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTasksAdd,
}

var (
	tasksFormat string
	addDesc     string
	addDue      string
)

func init() {
	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksAddCmd)

	tasksListCmd.Flags().StringVar(&tasksFormat, "format", formatText, "Output format (text, html)")
	tasksAddCmd.Flags().StringVarP(&addDesc, "description", "d", "", "Task description")
	tasksAddCmd.Flags().StringVar(&addDue, "due", "", "Due date (YYYY-MM-DD or RFC 3339)")
}

func runTasksList(cmd *cobra.Command, args []string) error {
	if err := checkFormat(tasksFormat); err != nil {
		return err
	}

	c, err := openClient(cmd.Context())
	if err != nil {
		return err
	}
	defer c.Close()

	sess, err := c.requireSession()
	if err != nil {
		return err
	}

	var out listOutput[model.Task]
	if tasksFormat == formatHTML {
		out = &htmlList[model.Task]{Panel: markup.NewTaskPanel(), out: cmd.OutOrStdout()}
	} else {
		out = &textList[model.Task]{
			out:     cmd.OutOrStdout(),
			heading: taskHeading,
			row:     taskRow,
		}
	}

	if err := loadOnce(cmd.Context(), func(loop *event.Loop, epoch *event.Epoch) {
		presenter.NewTasks(c.gw, out, loop, epoch, nil, logger.Default()).Refresh(sess.UserID)
	}); err != nil {
		return err
	}
	return out.flush()
}

func taskHeading(tasks []model.Task) string {
	pending := 0
	for _, t := range tasks {
		if t.Status != model.TaskCompleted {
			pending++
		}
	}
	return fmt.Sprintf("Tasks (%d pending)", pending)
}

func taskRow(t model.Task, width int) string {
	icon := "[ ]"
	switch t.Status {
	case model.TaskCompleted:
		icon = "[x]"
	case model.TaskInProgress:
		icon = "[~]"
	}

	due := ""
	if t.DueDate != nil {
		due = t.DueDate.Local().Format("Jan 2")
		if t.IsOverdue() {
			due = "! " + due
		}
	}

	title := fit(t.Title, 40)
	line := fmt.Sprintf("  %s  %-8s  %-40s  %-11s  %s", icon, shortID(t.ID), title, t.Status, due)
	return fit(strings.TrimRight(line, " "), width)
}

func runTasksAdd(cmd *cobra.Command, args []string) error {
	c, err := openClient(cmd.Context())
	if err != nil {
		return err
	}
	defer c.Close()

	sess, err := c.requireSession()
	if err != nil {
		return err
	}

	req, err := form.TaskRequest(form.Fields{
		form.FieldTitle:       strings.Join(args, " "),
		form.FieldDescription: addDesc,
		form.FieldDueDate:     addDue,
	}, sess.UserID)
	if err != nil {
		return err
	}

	task, err := c.gw.CreateTask(cmd.Context(), req)
	if err != nil {
		return explain("failed to create task", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Added: \"%s\" (%s)\n", task.Title, shortID(task.ID))

	if cfg.TaskNotifications {
		// A failed companion is logged only; the task stands
		if _, err := c.gw.CreateNotification(cmd.Context(), form.CompanionNotification(*task, sess.UserID)); err != nil {
			logger.Default().Warn("companion notification failed", logger.F("task_id", task.ID), logger.F("error", err))
		}
	}

	if task.DueDate != nil && task.DueDate.Before(time.Now()) {
		fmt.Fprintln(out, "note: the due date is already in the past")
	}
	return nil
}
