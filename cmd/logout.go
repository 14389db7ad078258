package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sirsjg/traction/auth"
)

// logoutCmd clears the saved session and signs out.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and return to guest mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		st, bridge := buildApp(cfg)
		defer st.Close()

		id := bridge.Current()
		if id == nil {
			fmt.Println("Not signed in.")
			return nil
		}

		bridge.SignOut()
		if err := auth.ClearSession(cfg.DataDir); err != nil {
			return err
		}

		fmt.Printf("Signed out %s\n", id.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
