package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// addCmd creates a project from an idea without entering the TUI.
var addCmd = &cobra.Command{
	Use:   "add <idea>",
	Short: "Create a project from a free-text idea",
	Long: `Generate an ordered GTD task list from a project idea and store it
as a new project.

Examples:
  traction add "learn to bake sourdough bread"
  traction add plan a weekend hiking trip`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idea := strings.TrimSpace(strings.Join(args, " "))
		if idea == "" {
			return fmt.Errorf("project idea must not be empty")
		}

		cfg := loadConfig()
		st, _ := buildApp(cfg)
		defer st.Close()

		if err := st.LoadInitial(context.Background()); err != nil {
			return err
		}

		project, err := st.CreateProject(context.Background(), buildGenerator(cfg), idea)
		if err != nil {
			return err
		}

		fmt.Printf("Created project %s (%s) with %d tasks:\n", project.ID, project.Name, len(project.Tasks))
		for _, t := range project.Tasks {
			fmt.Printf("  %d. %s\n", t.Order+1, t.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
