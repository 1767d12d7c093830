// Package cli реализует команды support-report: разовое построение отчетов с выводом JSON.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dreschagin/support-dashboard/internal/app"
	"github.com/dreschagin/support-dashboard/internal/application/dto"
	"github.com/dreschagin/support-dashboard/pkg/config"
	"github.com/dreschagin/support-dashboard/pkg/logger"
)

var (
	month   string
	page    int
	refresh bool
	compact bool
)

// NewRootCommand собирает дерево команд; JSON пишется в out, логи в stderr
func NewRootCommand(out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "support-report",
		Short:         "Build support dashboard reports from the ticketing API",
		Long:          `support-report builds the live dashboard snapshot or a monthly cohort review once and prints it as JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&compact, "compact", false, "Print JSON without indentation")

	rootCmd.AddCommand(
		newDashboardCommand(out),
		newMonthlyCommand(out),
	)

	return rootCmd
}

func newDashboardCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Print the live dashboard snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				metrics, err := a.Dashboard.Execute(ctx)
				if err != nil {
					return err
				}
				return writeJSON(out, dto.NewDashboardResponse(metrics))
			})
		},
	}
}

func newMonthlyCommand(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Print one page of the monthly review",
		Long:  `Build the monthly cohort review for --month (YYYY-MM, default current month) and print the requested page.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				result, err := a.Monthly.ExecutePage(ctx, dto.MonthlyReviewQuery{
					Month:        month,
					Page:         page,
					ForceRefresh: refresh,
				})
				if err != nil {
					return err
				}
				return writeJSON(out, result)
			})
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "Month in YYYY-MM format")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Ticket rows page")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the monthly review cache")

	return cmd
}

func withApp(ctx context.Context, run func(context.Context, *app.App) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.NewWithFormat(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	return run(ctx, a)
}

func writeJSON(out io.Writer, value interface{}) error {
	encoder := json.NewEncoder(out)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(value)
}
