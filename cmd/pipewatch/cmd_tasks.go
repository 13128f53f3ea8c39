package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tasksCmd, logsCmd, artifactsCmd)
}

var tasksCmd = &cobra.Command{
	Use:   "tasks <project-id>",
	Short: "List a project's agent tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid project id %q: %w", args[0], err)
		}

		cfg := loadConfig()
		setupLogging(cfg)

		rest, err := restClient(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if rest == nil {
			return fmt.Errorf("api.base_url is not configured")
		}

		tasks, err := rest.ListProjectTasks(cmd.Context(), projectID)
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tAGENT\tSTATUS\tRETRIES\tERROR")
		for _, t := range tasks {
			errMsg := ""
			if t.ErrorMessage != nil {
				errMsg = *t.ErrorMessage
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", t.ID, t.AgentType, t.Status, t.RetryCount, errMsg)
		}
		return w.Flush()
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs <task-id>",
	Short: "Show the execution logs recorded for a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task id %q: %w", args[0], err)
		}

		cfg := loadConfig()
		setupLogging(cfg)

		rest, err := restClient(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if rest == nil {
			return fmt.Errorf("api.base_url is not configured")
		}

		logs, err := rest.GetTaskLogs(cmd.Context(), taskID)
		if err != nil {
			return fmt.Errorf("get task logs: %w", err)
		}

		fmt.Printf("task %s (%s)\n", logs.TaskID, logs.AgentType)
		if logs.TokensUsed != nil {
			fmt.Printf("tokens used: %d\n", *logs.TokensUsed)
		}
		if logs.ErrorMessage != nil {
			fmt.Printf("error: %s\n", *logs.ErrorMessage)
		}
		if logs.LLMResponse != nil {
			fmt.Println(*logs.LLMResponse)
		}
		return nil
	},
}

var artifactsCmd = &cobra.Command{
	Use:   "artifacts <project-id>",
	Short: "List a project's artifacts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid project id %q: %w", args[0], err)
		}

		cfg := loadConfig()
		setupLogging(cfg)

		rest, err := restClient(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if rest == nil {
			return fmt.Errorf("api.base_url is not configured")
		}

		artifacts, err := rest.ListArtifacts(cmd.Context(), projectID)
		if err != nil {
			return fmt.Errorf("list artifacts: %w", err)
		}

		if len(artifacts) == 0 {
			fmt.Println("No artifacts recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tNAME\tPATH")
		for _, a := range artifacts {
			path := ""
			if a.FilePath != nil {
				path = *a.FilePath
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.ArtifactType, a.Name, path)
		}
		return w.Flush()
	},
}
