package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginEmailFlag    string
	loginPasswordFlag string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the backend and store the access token",
	Long: `Exchange an email and password for an access token and store it in
the base directory. The password is prompted for when --password is omitted.

Setting TB_TOKEN bypasses the stored token entirely.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskSvc == nil {
			return fmt.Errorf("task service not initialized")
		}

		in := bufio.NewReader(cmd.InOrStdin())
		email := strings.TrimSpace(loginEmailFlag)
		if email == "" {
			fmt.Fprint(cmd.ErrOrStderr(), "Email: ")
			line, err := readLine(in)
			if err != nil {
				return fmt.Errorf("reading email: %w", err)
			}
			email = line
		}

		password := loginPasswordFlag
		if password == "" {
			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			pw, err := readPassword(cmd, in)
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
			password = pw
		}

		if err := TaskSvc.Login(commandContext(cmd), email, password); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskSvc == nil {
			return fmt.Errorf("task service not initialized")
		}
		if err := TaskSvc.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

// readPassword reads without echo when the command is attached to a real
// terminal, and falls back to a plain line read otherwise.
func readPassword(cmd *cobra.Command, in *bufio.Reader) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pw, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	return readLine(in)
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	loginCmd.Flags().StringVar(&loginEmailFlag, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPasswordFlag, "password", "", "Account password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
