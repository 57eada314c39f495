package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bespec.dev/pkg/bespec/internal/controller"
	m "bespec.dev/pkg/bespec/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

var viewInteractiveFlag bool
var viewFailuresOnlyFlag bool
var viewFollowFlag bool

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [run-id]",
		Short: "View a persisted run report",
		Long: `View a run report from the reports directory as a result tree.

Without a run id the latest run is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()
			reportsDir := viper.GetString(outputFlagName)

			report, err := loadViewReport(reportsDir, args)
			if err != nil {
				return err
			}

			var options []controller.DisplayOption
			if viewFailuresOnlyFlag {
				options = append(options, controller.WithFailuresOnly())
			}

			if viewFollowFlag {
				return followReports(ctx, reportsDir, report, options...)
			}

			viewUI := ui
			if viewInteractiveFlag {
				viewUI = controller.NewTUI(os.Stdout)
			}

			return viewUI.DisplayReport(ctx, report, options...)
		},
	}

	cmd.Flags().BoolVarP(&viewInteractiveFlag, interactiveFlagName, "i", false, "browse the report in an interactive viewer")
	cmd.Flags().BoolVar(&viewFailuresOnlyFlag, failuresOnlyFlagName, false, "show only failed examples")
	cmd.Flags().BoolVarP(&viewFollowFlag, followFlagName, "f", false, "keep the viewer open and reload when new runs land")

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func loadViewReport(reportsDir string, args []string) (m.RunReport, error) {
	if len(args) == 1 {
		return reportStore.LoadRun(reportsDir, args[0])
	}

	return reportStore.LatestRun(reportsDir)
}

// followReports watches the reports directory and reloads the latest run
// whenever a new one lands.
func followReports(ctx context.Context, reportsDir string, report m.RunReport, options ...controller.DisplayOption) error {
	if !controller.IsTTY(os.Stdout) {
		return errors.New("following reports requires a terminal")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watching reports: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(reportsDir); err != nil {
		return fmt.Errorf("watching %s: %w", reportsDir, err)
	}

	updates := make(chan struct{}, 1)

	go func() {
		defer close(updates)

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
					select {
					case updates <- struct{}{}:
					default:
					}
				}
			case watchErr, ok := <-watcher.Errors:
				if !ok {
					return
				}

				slog.Warn("reports watcher", "error", watchErr)
			}
		}
	}()

	tui := controller.NewTUI(os.Stdout)

	return tui.FollowReport(ctx, report, func() (m.RunReport, error) {
		return reportStore.LatestRun(reportsDir)
	}, updates, options...)
}
