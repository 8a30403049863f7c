package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/existflow/taskboard/internal/event"
	"github.com/existflow/taskboard/internal/form"
	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/markup"
	"github.com/existflow/taskboard/internal/model"
	"github.com/existflow/taskboard/internal/presenter"
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notif", "n"},
	Short:   "Manage notifications",
	Long: `Manage your notifications.

IDs may be abbreviated to any unique prefix, as shown by 'list'.`,
}

var notifListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your notifications",
	Args:    cobra.NoArgs,
	RunE:    runNotifList,
}

var notifShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one notification",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotifShow,
}

var notifReadCmd = &cobra.Command{
	Use:   "read [id]",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotifRead,
}

var notifDeleteCmd = &cobra.Command{
	Use:     "delete [id]",
	Aliases: []string{"rm"},
	Short:   "Delete a notification",
	Args:    cobra.ExactArgs(1),
	RunE:    runNotifDelete,
}

var notifCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a notification for yourself",
	Long: `Create a notification.

Examples:
  taskboard notifications create --title "Standup" --message "10:00 in room 4"
  taskboard n create --title Deploy --message done --type push --data '{"build": 42}'`,
	Args: cobra.NoArgs,
	RunE: runNotifCreate,
}

var (
	notifFormat  string
	notifYes     bool
	notifTitle   string
	notifMessage string
	notifType    string
	notifData    string
)

func init() {
	notificationsCmd.AddCommand(notifListCmd)
	notificationsCmd.AddCommand(notifShowCmd)
	notificationsCmd.AddCommand(notifReadCmd)
	notificationsCmd.AddCommand(notifDeleteCmd)
	notificationsCmd.AddCommand(notifCreateCmd)

	notifListCmd.Flags().StringVar(&notifFormat, "format", formatText, "Output format (text, html)")
	notifShowCmd.Flags().StringVar(&notifFormat, "format", formatText, "Output format (text, html)")
	notifDeleteCmd.Flags().BoolVarP(&notifYes, "yes", "y", false, "Delete without asking")
	notifCreateCmd.Flags().StringVar(&notifTitle, "title", "", "Notification title")
	notifCreateCmd.Flags().StringVar(&notifMessage, "message", "", "Notification message")
	notifCreateCmd.Flags().StringVar(&notifType, "type", string(model.NotificationInApp), "Type (in_app, email, push)")
	notifCreateCmd.Flags().StringVar(&notifData, "data", "", "Extra data as a JSON object")
}

func runNotifList(cmd *cobra.Command, args []string) error {
	if err := checkFormat(notifFormat); err != nil {
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

	var out listOutput[model.Notification]
	if notifFormat == formatHTML {
		out = &htmlList[model.Notification]{Panel: markup.NewNotificationPanel(), out: cmd.OutOrStdout()}
	} else {
		out = &textList[model.Notification]{
			out:     cmd.OutOrStdout(),
			heading: notificationHeading,
			row:     notificationRow,
		}
	}

	if err := loadOnce(cmd.Context(), func(loop *event.Loop, epoch *event.Epoch) {
		presenter.NewNotifications(presenter.NotificationOptions{
			API:    c.gw,
			View:   out,
			Loop:   loop,
			Epoch:  epoch,
			Owner:  func() string { return sess.UserID },
			Limit:  cfg.NotificationLimit,
			Logger: logger.Default(),
		}).Refresh(sess.UserID)
	}); err != nil {
		return err
	}
	return out.flush()
}

func notificationHeading(list []model.Notification) string {
	return fmt.Sprintf("Notifications (%d unread)", model.CountUnread(list))
}

func notificationRow(n model.Notification, width int) string {
	marker := "●"
	if n.IsRead() {
		marker = " "
	}
	created := ""
	if !n.CreatedAt.IsZero() {
		created = humanize.Time(n.CreatedAt)
	}
	line := fmt.Sprintf("  %s %-8s  %-36s  %-7s  %-8s  %s",
		marker, shortID(n.ID), fit(n.Title, 36), n.Type, n.Status, created)
	return fit(strings.TrimRight(line, " "), width)
}

// resolveNotification accepts a full id or a unique prefix of one
func resolveNotification(ctx context.Context, c *client, sess model.Session, id string) (string, error) {
	if len(id) >= 36 {
		return id, nil
	}

	list, err := c.gw.ListNotifications(ctx, sess.UserID, cfg.NotificationLimit)
	if err != nil {
		return "", explain("failed to load notifications", err)
	}

	var matches []string
	for _, n := range list {
		if n.ID == id {
			return id, nil
		}
		if strings.HasPrefix(n.ID, id) {
			matches = append(matches, n.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("notification not found: %s", id)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q matches %d notifications, use more characters", id, len(matches))
	}
}

// withNotification opens a client and resolves id before calling fn
func withNotification(cmd *cobra.Command, id string, fn func(c *client, id string) error) error {
	c, err := openClient(cmd.Context())
	if err != nil {
		return err
	}
	defer c.Close()

	sess, err := c.requireSession()
	if err != nil {
		return err
	}

	full, err := resolveNotification(cmd.Context(), c, sess, id)
	if err != nil {
		return err
	}
	return fn(c, full)
}

func runNotifShow(cmd *cobra.Command, args []string) error {
	if err := checkFormat(notifFormat); err != nil {
		return err
	}

	return withNotification(cmd, args[0], func(c *client, id string) error {
		n, err := c.gw.GetNotification(cmd.Context(), id)
		if err != nil {
			return explain("failed to load notification", err)
		}
		d := presenter.NewDetail(*n)
		out := cmd.OutOrStdout()

		if notifFormat == formatHTML {
			html, err := markup.NotificationDetail(d)
			if err != nil {
				return fmt.Errorf("failed to render html: %w", err)
			}
			fmt.Fprintln(out, html)
			return nil
		}

		fmt.Fprintf(out, "%s\n\n%s\n\n", n.Title, n.Message)
		fmt.Fprintf(out, "ID:       %s\n", n.ID)
		fmt.Fprintf(out, "Type:     %s\n", n.Type)
		fmt.Fprintf(out, "Status:   %s\n", n.Status)
		if !n.CreatedAt.IsZero() {
			fmt.Fprintf(out, "Created:  %s (%s)\n", n.CreatedAt.Local().Format("2006-01-02 15:04"), humanize.Time(n.CreatedAt))
		}
		if at, ok := d.ReadAt(); ok {
			fmt.Fprintf(out, "Read:     %s\n", at.Local().Format("2006-01-02 15:04"))
		}
		if len(n.Data) > 0 {
			data, _ := json.MarshalIndent(n.Data, "", "  ")
			fmt.Fprintf(out, "Data:\n%s\n", data)
		}
		return nil
	})
}

func runNotifRead(cmd *cobra.Command, args []string) error {
	return withNotification(cmd, args[0], func(c *client, id string) error {
		if _, err := c.gw.MarkNotificationRead(cmd.Context(), id); err != nil {
			return explain("failed to mark notification as read", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Marked read: %s\n", shortID(id))
		return nil
	})
}

func runNotifDelete(cmd *cobra.Command, args []string) error {
	return withNotification(cmd, args[0], func(c *client, id string) error {
		if cfg.ConfirmDelete && !notifYes {
			ok, err := confirm(fmt.Sprintf("Delete notification %s?", shortID(id)))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}

		if err := c.gw.DeleteNotification(cmd.Context(), id); err != nil {
			return explain("failed to delete notification", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted: %s\n", shortID(id))
		return nil
	})
}

func runNotifCreate(cmd *cobra.Command, args []string) error {
	if err := askMissing(
		prompt{title: "Title", value: &notifTitle},
		prompt{title: "Message", value: &notifMessage},
	); err != nil {
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

	req, err := form.NotificationRequest(form.Fields{
		form.FieldTitle:   notifTitle,
		form.FieldMessage: notifMessage,
		form.FieldType:    notifType,
		form.FieldData:    notifData,
	}, sess.UserID)
	if err != nil {
		return err
	}

	n, err := c.gw.CreateNotification(cmd.Context(), req)
	if err != nil {
		return explain("failed to create notification", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created: \"%s\" (%s)\n", n.Title, shortID(n.ID))
	return nil
}
