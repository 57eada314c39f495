package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"bespec.dev/pkg/bespec/internal/adapter"
	m "bespec.dev/pkg/bespec/internal/model"
)

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()

var mergeRunFlags []string

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge sharded runs into a single report",
		Long: `Merge run reports into one combined report saved alongside them.

By default every run in the reports directory is merged; --run narrows
the merge to the named runs.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			reportsDir := viper.GetString(outputFlagName)

			reports, err := collectMergeReports(reportsDir, mergeRunFlags)
			if err != nil {
				return err
			}

			merged := adapter.MergeReports(uuid.NewString(), reports)

			runDir, err := reportStore.Save(reportsDir, merged)
			if err != nil {
				return fmt.Errorf("saving merged report: %w", err)
			}

			cmd.Printf("merged %d runs into %s\n", len(reports), runDir)

			return nil
		},
	}

	cmd.Flags().StringArrayVar(&mergeRunFlags, runFlagName, nil, "run id to merge (can be repeated; default all runs)")

	return cmd
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}

// collectMergeReports loads the requested runs in full, all of them when ids
// is empty. The run listing only carries metadata, so every report is loaded
// individually for its result forest.
func collectMergeReports(reportsDir string, ids []string) ([]m.RunReport, error) {
	if len(ids) == 0 {
		runs, err := reportStore.Runs(reportsDir)
		if err != nil {
			return nil, err
		}

		for _, run := range runs {
			ids = append(ids, run.Info.ID)
		}
	}

	if len(ids) == 0 {
		return nil, adapter.ErrNoRuns
	}

	reports := make([]m.RunReport, len(ids))

	var group errgroup.Group
	for i, id := range ids {
		i, id := i, id
		group.Go(func() error {
			report, err := reportStore.LoadRun(reportsDir, id)
			if err != nil {
				return fmt.Errorf("loading run %s: %w", id, err)
			}

			reports[i] = report

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}
