package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sirsjg/traction/ui"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start Traction in interactive TUI mode",
	Long: `Start Traction in interactive Terminal User Interface (TUI) mode.

This mode provides a full-screen interface for creating projects from
ideas, working through tasks in focus mode, and signing in to sync
across devices.

Examples:
  # Start the TUI against the default server
  traction tui

  # Use a custom sync server URL
  traction --base-url http://sync.example.com:3000 tui`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// runTUI starts the interactive TUI mode
func runTUI() error {
	cfg := loadConfig()
	st, bridge := buildApp(cfg)
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go st.WatchAuth(ctx)

	model := ui.NewModel(st, bridge, buildGenerator(cfg))
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
