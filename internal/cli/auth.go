package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/taskboard/internal/form"
	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/model"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Sign in to the auth service. The session is remembered until logout.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	RunE:  runLogin,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new account and sign in",
	RunE:  runSignup,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE:  runLogout,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is signed in",
	RunE:  runStatus,
}

var (
	authEmail     string
	authPassword  string
	authFirstName string
	authLastName  string
)

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(signupCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)

	for _, c := range []*cobra.Command{loginCmd, signupCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email")
		c.Flags().StringVar(&authPassword, "password", "", "Account password (prompted when omitted)")
	}
	signupCmd.Flags().StringVar(&authFirstName, "first-name", "", "First name")
	signupCmd.Flags().StringVar(&authLastName, "last-name", "", "Last name")
}

func runLogin(cmd *cobra.Command, args []string) error {
	if err := askMissing(
		prompt{title: "Email", value: &authEmail},
		prompt{title: "Password", value: &authPassword, secret: true},
	); err != nil {
		return err
	}

	req, err := form.LoginRequest(form.Fields{
		form.FieldEmail:    authEmail,
		form.FieldPassword: authPassword,
	})
	if err != nil {
		return err
	}

	return authenticate(cmd, func(c *client) (*model.AuthResponse, error) {
		return c.gw.Login(cmd.Context(), req)
	})
}

func runSignup(cmd *cobra.Command, args []string) error {
	if err := askMissing(
		prompt{title: "First name", value: &authFirstName},
		prompt{title: "Last name", value: &authLastName},
		prompt{title: "Email", value: &authEmail},
		prompt{title: "Password", value: &authPassword, secret: true},
	); err != nil {
		return err
	}

	req, err := form.SignupRequest(form.Fields{
		form.FieldFirstName: authFirstName,
		form.FieldLastName:  authLastName,
		form.FieldEmail:     authEmail,
		form.FieldPassword:  authPassword,
	})
	if err != nil {
		return err
	}

	return authenticate(cmd, func(c *client) (*model.AuthResponse, error) {
		return c.gw.Signup(cmd.Context(), req)
	})
}

// authenticate performs call and persists the resulting session
func authenticate(cmd *cobra.Command, call func(c *client) (*model.AuthResponse, error)) error {
	c, err := openClient(cmd.Context())
	if err != nil {
		return err
	}
	defer c.Close()

	resp, err := call(c)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	sess := model.NewSession(resp)
	if err := c.sessions.Save(cmd.Context(), sess); err != nil {
		return fmt.Errorf("signed in, but the session could not be saved: %w", err)
	}

	logger.Default().Info("authenticated", logger.F("user_id", sess.UserID))
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Signed in as %s\n", sess.User().DisplayName())
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	c, err := openClient(cmd.Context())
	if err != nil {
		return err
	}
	defer c.Close()

	if c.sessions.Current() == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
		return nil
	}

	if err := c.sessions.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out.")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	c, err := openClient(cmd.Context())
	if err != nil {
		return err
	}
	defer c.Close()

	out := cmd.OutOrStdout()
	sess := c.sessions.Current()
	if sess == nil {
		fmt.Fprintln(out, "Not logged in.")
	} else {
		fmt.Fprintf(out, "Signed in as %s <%s>\n", sess.User().DisplayName(), sess.Email)
		fmt.Fprintf(out, "User ID:       %s\n", sess.UserID)
	}
	fmt.Fprintf(out, "Auth:          %s\n", cfg.AuthServiceURL)
	fmt.Fprintf(out, "Tasks:         %s\n", cfg.TaskServiceURL)
	fmt.Fprintf(out, "Notifications: %s\n", cfg.NotificationServiceURL)
	return nil
}
