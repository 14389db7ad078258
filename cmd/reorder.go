package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sirsjg/traction/workflow"
)

// reorderCmd rearranges a project's incomplete tasks.
var reorderCmd = &cobra.Command{
	Use:   "reorder <project-id> <task-id...>",
	Short: "Reorder a project's incomplete tasks",
	Long: `Rearrange the incomplete tasks of a project into the given sequence.
All incomplete task ids must be listed exactly once; completed tasks
are unaffected.

Examples:
  traction reorder 3f2a task-2 task-1 task-3`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		st, _ := buildApp(cfg)
		defer st.Close()

		if err := st.LoadInitial(context.Background()); err != nil {
			return err
		}

		return workflow.NewWorkflow(st).Reorder(args[0], args[1:])
	},
}

func init() {
	rootCmd.AddCommand(reorderCmd)
}
