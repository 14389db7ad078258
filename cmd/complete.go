package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sirsjg/traction/workflow"
)

var reopen bool

// completeCmd marks tasks or a whole project completed.
var completeCmd = &cobra.Command{
	Use:   "complete <project-id> [task-id...]",
	Short: "Complete a project or some of its tasks",
	Long: `Mark tasks completed, or the whole project when no task ids are
given. With --reopen the transition runs the other way.

Examples:
  # Complete two tasks
  traction complete 3f2a task-1 task-2

  # Complete the whole project
  traction complete 3f2a

  # Reopen a task
  traction complete --reopen 3f2a task-1`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		st, _ := buildApp(cfg)
		defer st.Close()

		if err := st.LoadInitial(context.Background()); err != nil {
			return err
		}

		projectID := args[0]
		taskIDs := args[1:]

		wf := workflow.NewWorkflow(st)
		switch {
		case len(taskIDs) == 0 && reopen:
			return wf.ReopenProject(projectID)
		case len(taskIDs) == 0:
			return wf.CompleteProject(projectID)
		case reopen:
			return wf.ReopenTasks(projectID, taskIDs)
		default:
			return wf.CompleteTasks(projectID, taskIDs)
		}
	},
}

func init() {
	completeCmd.Flags().BoolVar(&reopen, "reopen", false, "reopen instead of complete")
	rootCmd.AddCommand(completeCmd)
}
