package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sirsjg/traction/state"
)

var listCompleted bool

// listCmd prints projects and their tasks.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects and their tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		st, _ := buildApp(cfg)
		defer st.Close()

		if err := st.LoadInitial(context.Background()); err != nil {
			return err
		}

		s := st.State()
		projects := state.OpenProjects(s)
		if listCompleted {
			projects = state.CompletedProjects(s)
		}

		if len(projects) == 0 {
			fmt.Println("No projects.")
			return nil
		}

		for _, p := range projects {
			marker := " "
			if p.ID == s.ActiveProjectID {
				marker = "*"
			}
			done := len(state.CompletedTasks(p))
			fmt.Printf("%s %s  %s  (%d/%d tasks)\n", marker, p.ID, p.Name, done, len(p.Tasks))
			for _, t := range p.Tasks {
				check := "[ ]"
				if t.Completed {
					check = "[x]"
				}
				fmt.Printf("    %s %s  %s\n", check, t.ID, t.Title)
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listCompleted, "completed", false, "list completed projects instead of open ones")
	rootCmd.AddCommand(listCmd)
}
