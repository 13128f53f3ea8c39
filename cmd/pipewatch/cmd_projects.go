package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/systemcrafter/pipewatch/internal/version"
)

func init() {
	rootCmd.AddCommand(projectsCmd, versionCmd)
	projectsCmd.Flags().Int("page", 1, "page number")
	projectsCmd.Flags().Int("size", 50, "page size")
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List your projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")

		cfg := loadConfig()
		setupLogging(cfg)

		rest, err := restClient(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if rest == nil {
			return fmt.Errorf("api.base_url is not configured")
		}

		resp, err := rest.ListProjects(cmd.Context(), page, size)
		if err != nil {
			return fmt.Errorf("list projects: %w", err)
		}

		if len(resp.Items) == 0 {
			fmt.Println("No projects.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTATUS")
		for _, p := range resp.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, p.Status)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("page %d/%d (%d total)\n", resp.Page, resp.Pages, resp.Total)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("pipewatch " + version.String())
	},
}
