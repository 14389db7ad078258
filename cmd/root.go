package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sirsjg/traction/auth"
	"github.com/sirsjg/traction/client"
	"github.com/sirsjg/traction/config"
	"github.com/sirsjg/traction/gen"
	"github.com/sirsjg/traction/storage"
	"github.com/sirsjg/traction/store"
)

var (
	// baseURL is the sync server base URL
	baseURL string
	// dataDir is where guest project data lives
	dataDir string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "traction",
	Short: "Traction - turn project ideas into actionable GTD task lists",
	Long: `Traction takes a free-text project idea, breaks it into ordered,
actionable tasks, and tracks them from your terminal. Data stays on
disk until you sign in; after that it syncs to the cloud, and anything
created as a guest is migrated on first sign-in.

Examples:
  # Start the interactive TUI
  traction tui

  # Create a project from an idea without the TUI
  traction add "plan a garden for spring"

  # List projects and tasks
  traction list`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "http://localhost:3000", "Traction sync server base URL")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "local data directory (default ~/.traction/data)")
}

// loadConfig reads .traction.yaml from the working directory and
// folds the command-line flags in on top.
func loadConfig() config.Config {
	cfg, err := config.Load(".")
	if err != nil {
		exitWithError(fmt.Sprintf("failed to load config: %v", err))
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = baseURL
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if cfg.DataDir == "" {
		cfg.DataDir = config.DefaultDataDir()
	}
	return cfg
}

// buildApp wires the store with both persistence backends and the
// identity bridge. A saved session from a previous login is resumed
// silently, so it selects the remote backend without replaying the
// sign-in transition.
func buildApp(cfg config.Config) (*store.Store, *auth.Bridge) {
	local := storage.New(cfg.DataDir)
	remote := client.New(cfg.BaseURL)
	bridge := auth.NewBridge(cfg.BaseURL)

	if id := auth.LoadSession(cfg.DataDir); id != nil {
		bridge.Resume(id)
		remote.SetToken(id.Token)
	}

	return store.New(local, remote, bridge), bridge
}

// buildGenerator creates the configured generation backend.
func buildGenerator(cfg config.Config) gen.Generator {
	generator, err := gen.Create(cfg.Generator, gen.Config{
		APIKey:       cfg.APIKey,
		Instructions: cfg.Instructions,
	})
	if err != nil {
		exitWithError(err.Error())
	}
	return generator
}

// exitWithError prints an error message to stderr and exits with code 1
func exitWithError(msg string) {
	fmt.Fprintln(os.Stderr, "Error:", msg)
	os.Exit(1)
}
