package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "bespec.dev/pkg/bespec/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List persisted runs",
		Long:  "List the runs persisted in the reports directory, oldest first.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			reportsDir := viper.GetString(outputFlagName)

			reports, err := reportStore.Runs(reportsDir)
			if err != nil {
				return err
			}

			if len(reports) == 0 {
				cmd.Printf("no runs in %s\n", reportsDir)
				return nil
			}

			cmd.Print(renderRunsTable(reports))

			return nil
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func renderRunsTable(reports []m.RunReport) string {
	var tableBuffer strings.Builder

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Run", "Started", "Total", "Passed", "Failed", "Skipped", "Result"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
	})

	for _, report := range reports {
		verdict := "PASS"
		if !report.Summary.Successful() {
			verdict = "FAIL"
		}

		table.Append([]string{
			report.Info.ID,
			report.Info.StartedAt.Format(time.RFC3339),
			fmt.Sprintf("%d", report.Summary.Total),
			fmt.Sprintf("%d", report.Summary.Passed),
			fmt.Sprintf("%d", report.Summary.Failed),
			fmt.Sprintf("%d", report.Summary.Skipped),
			verdict,
		})
	}

	table.Render()

	return tableBuffer.String()
}
