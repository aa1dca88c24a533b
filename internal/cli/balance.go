package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/nutriscan/internal/config"
	"github.com/rshade/nutriscan/internal/nutrition"
	"github.com/rshade/nutriscan/internal/report"
)

// balanceRow is one pet's balance breakdown.
type balanceRow struct {
	Pet        string                         `json:"pet"`
	PetID      string                         `json:"pet_id"`
	WindowDays int                            `json:"window_days"`
	Intake     nutrition.FeedingAggregate     `json:"intake"`
	Breakdown  nutrition.NutritionalBreakdown `json:"breakdown"`
}

// NewBalanceCmd creates the balance command.
func NewBalanceCmd() *cobra.Command {
	var (
		household string
		pets      []string
		asOf      string
	)

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Compare recent feeding history with macro-nutrient targets",
		Long: `Averages each pet's logged meals over a trailing window and compares the
daily protein, fat and fiber grams with the targets derived from its
requirements. Prints a per-macro status, an overall balance summary and a
prioritized adjustment plan. At least 3 feeding records are needed.`,
		Example: `  # Last 30 days (or the configured window) for every pet
  nutriscan balance --household household.yaml

  # Last 7 days for Rex, as of a given date
  nutriscan balance --household household.yaml --pet Rex --window 7 --as-of 2026-03-15`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			audit := newAuditContext(ctx, "balance", map[string]string{"household": household})

			format, err := outputFormat(cmd)
			if err != nil {
				return audit.fail(ctx, err)
			}
			reports, err := buildReports(cmd, household, pets, asOf)
			if err != nil {
				return audit.fail(ctx, err)
			}

			rows := make([]balanceRow, 0, len(reports))
			for _, r := range reports {
				rows = append(rows, balanceRow{
					Pet:        r.Pet.Name,
					PetID:      r.Pet.ID.String(),
					WindowDays: r.Intake.WindowDays,
					Intake:     r.Intake,
					Breakdown:  r.Breakdown,
				})
			}

			if err = renderBalance(cmd.OutOrStdout(), format, rows); err != nil {
				return audit.fail(ctx, err)
			}
			audit.logSuccess(ctx, len(rows))
			return nil
		},
	}

	addHouseholdFlag(cmd, &household)
	addPetFlag(cmd, &pets)
	addOutputFlag(cmd)
	addWindowFlags(cmd, &asOf)

	return cmd
}

func addWindowFlags(cmd *cobra.Command, asOf *string) {
	cmd.Flags().Int(flagWindow, nutrition.DefaultWindowDays, "trailing feeding window in days (default from config)")
	cmd.Flags().StringVar(asOf, flagAsOf, "", "end of the feeding window (YYYY-MM-DD or RFC 3339; default now)")
}

// buildReports loads the household and builds reports with the configured
// window, energy density and concurrency.
func buildReports(cmd *cobra.Command, household string, pets []string, asOf string) ([]report.PetReport, error) {
	ctx := cmd.Context()
	now, err := parseAsOf(asOf)
	if err != nil {
		return nil, err
	}
	window, err := windowDays(cmd)
	if err != nil {
		return nil, err
	}
	h, err := loadHousehold(ctx, household)
	if err != nil {
		return nil, err
	}

	cfg := config.GetGlobalConfig()
	b := report.NewBuilder(
		report.WithClock(clockAt(now)),
		report.WithWindowDays(window),
		report.WithEnergyDensity(cfg.Nutrition.EnergyDensity),
		report.WithConcurrency(cfg.Report.Concurrency),
	)
	return b.Build(ctx, h, pets)
}

func renderBalance(w io.Writer, format string, rows []balanceRow) error {
	if format != config.FormatTable {
		return writeStructured(w, format, rows)
	}

	precision := config.GetOutputPrecision()
	for i, r := range rows {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := balanceTable(w, r, precision).render(w); err != nil {
			return err
		}
	}
	return nil
}

func balanceTable(w io.Writer, r balanceRow, precision int) *table {
	b := r.Breakdown
	t := &table{
		title: fmt.Sprintf("Balance: %s (last %d days, %d records)",
			r.Pet, r.WindowDays, b.RecordCount),
		header: []string{"MACRO", "ACTUAL/DAY", "TARGET/DAY", "OF TARGET", "STATUS"},
	}

	if b.HasInsufficientData {
		t.footer = []string{fmt.Sprintf("Not enough feeding data: %d of %d records needed.",
			b.RecordCount, nutrition.MinFeedingRecords)}
		return t
	}

	for _, m := range b.Macros {
		t.add(
			m.Macro.Label(),
			grams(m.Actual, precision),
			grams(m.Recommended, precision),
			pct(m.Percentage, 0),
			m.Status.Label(),
		)
	}

	s := b.Summary
	t.footer = []string{
		"",
		fmt.Sprintf("Status: %s (%d/%d targets met)",
			statusStyle(w, string(s.Status), balanceSeverity(s.Status)), s.TargetsMet, s.TotalTargets),
		fmt.Sprintf("Average intake: %s/day over %d days",
			nutrition.FormatCalories(r.Intake.AvgDailyCalories), r.Intake.DaysWithRecords),
		s.Explanation,
	}
	if b.Plan != nil {
		t.footer = append(t.footer, "", "Adjustment plan:")
		for _, a := range b.Plan.Actions {
			t.footer = append(t.footer, fmt.Sprintf("  %d. %s", a.Priority, a.Description()))
		}
	}
	return t
}
