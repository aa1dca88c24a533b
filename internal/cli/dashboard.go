package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/nutriscan/internal/config"
	"github.com/rshade/nutriscan/internal/tui"
)

// NewDashboardCmd creates the interactive dashboard command.
func NewDashboardCmd() *cobra.Command {
	var (
		household string
		pets      []string
		asOf      string
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Interactive household nutrition dashboard",
		Long: `Opens a terminal dashboard listing every pet with its daily calorie target,
average intake and balance status. Press enter for a pet's detail, 's' to
change the sort order, '/' to filter and 'q' to quit. When stdout is not a
terminal the report table is printed instead.`,
		Example: `  nutriscan dashboard --household household.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			audit := newAuditContext(ctx, "dashboard", map[string]string{"household": household})

			reports, err := buildReports(cmd, household, pets, asOf)
			if err != nil {
				return audit.fail(ctx, err)
			}

			out := cmd.OutOrStdout()
			if !isWriterTerminal(out) {
				logger.Debug().Ctx(ctx).Msg("stdout is not a terminal, rendering report table")
				if err = renderReports(out, config.FormatTable, reports); err != nil {
					return audit.fail(ctx, err)
				}
				audit.logSuccess(ctx, len(reports))
				return nil
			}

			p := tea.NewProgram(
				tui.NewDashboardModel(reports),
				tea.WithContext(ctx),
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(out),
			)
			if _, err = p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return audit.fail(ctx, fmt.Errorf("running dashboard: %w", err))
			}
			audit.logSuccess(ctx, len(reports))
			return nil
		},
	}

	addHouseholdFlag(cmd, &household)
	addPetFlag(cmd, &pets)
	addWindowFlags(cmd, &asOf)

	return cmd
}
