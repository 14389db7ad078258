package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sirsjg/traction/auth"
)

// loginCmd signs in and runs sign-in side effects (backend switch and
// local-to-cloud migration) before the process exits.
var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in to the sync server",
	Long: `Sign in with an existing account. The password is read from stdin.
Any projects created as a guest are migrated to the cloud on the first
sign-in, then local storage is cleared.

Examples:
  traction login alice@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuth(args[0], false)
	},
}

// signupCmd registers a new account and signs it in.
var signupCmd = &cobra.Command{
	Use:   "signup <email>",
	Short: "Create an account on the sync server",
	Long: `Register a new account and sign in. The password is read from stdin
and must be at least 8 characters.

Examples:
  traction signup alice@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuth(args[0], true)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
}

func runAuth(email string, register bool) error {
	cfg := loadConfig()
	st, bridge := buildApp(cfg)
	defer st.Close()

	if id := bridge.Current(); id != nil {
		return fmt.Errorf("already signed in as %s; run 'traction logout' first", id.Email)
	}

	password, err := readPassword()
	if err != nil {
		return err
	}

	if err := st.LoadInitial(context.Background()); err != nil {
		return err
	}
	hadLocal := len(st.State().Projects) > 0
	if register {
		err = bridge.SignUp(email, password)
	} else {
		err = bridge.SignIn(email, password)
	}
	if err != nil {
		return err
	}

	// Apply the transition synchronously so migration finishes before
	// the process exits.
	select {
	case change := <-bridge.Changes():
		st.ApplyAuthChange(context.Background(), change)
	default:
	}

	if err := auth.SaveSession(cfg.DataDir, bridge.Current()); err != nil {
		return err
	}

	fmt.Printf("Signed in as %s\n", email)
	if hadLocal {
		fmt.Println("Guest projects migrated to the cloud.")
	}
	return nil
}

func readPassword() (string, error) {
	fmt.Print("Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
