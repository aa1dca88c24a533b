package cli

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/nutriscan/internal/config"
	"github.com/rshade/nutriscan/internal/nutrition"
	"github.com/rshade/nutriscan/internal/report"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	var (
		household string
		pets      []string
		asOf      string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Full nutrition report for each pet",
		Long: `Combines requirements, feeding intake, balance breakdown and the
compatibility of every food fed in the window into one report per pet.
Pets are processed concurrently (report.concurrency in the config).`,
		Example: `  # Summary table for the whole household
  nutriscan report --household household.yaml

  # Full detail as newline-delimited JSON
  nutriscan report --household household.yaml -o ndjson`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			audit := newAuditContext(ctx, "report", map[string]string{"household": household})

			format, err := outputFormat(cmd)
			if err != nil {
				return audit.fail(ctx, err)
			}
			reports, err := buildReports(cmd, household, pets, asOf)
			if err != nil {
				return audit.fail(ctx, err)
			}
			if err = renderReports(cmd.OutOrStdout(), format, reports); err != nil {
				return audit.fail(ctx, err)
			}
			audit.logSuccess(ctx, len(reports))
			return nil
		},
	}

	addHouseholdFlag(cmd, &household)
	addPetFlag(cmd, &pets)
	addOutputFlag(cmd)
	addWindowFlags(cmd, &asOf)

	return cmd
}

func renderReports(w io.Writer, format string, reports []report.PetReport) error {
	if format != config.FormatTable {
		return writeStructured(w, format, reports)
	}

	t := &table{
		title: "Household Nutrition Report",
		header: []string{
			"PET", "SPECIES", "STAGE", "TARGET", "INTAKE", "RECORDS", "BALANCE", "DRIVER", "BEST FOOD",
		},
	}
	for _, r := range reports {
		t.add(
			r.Pet.Name,
			string(r.Requirements.Species),
			string(r.Requirements.LifeStage),
			nutrition.FormatCalories(r.Requirements.DailyCalories),
			intakeCell(r),
			strconv.Itoa(r.Intake.RecordCount),
			balanceCell(r.Breakdown),
			driverCell(r.Breakdown),
			bestFoodCell(r.Foods),
		)
	}
	return t.render(w)
}

func intakeCell(r report.PetReport) string {
	if r.Intake.DaysWithRecords == 0 {
		return "-"
	}
	return nutrition.FormatCalories(r.Intake.AvgDailyCalories)
}

func balanceCell(b nutrition.NutritionalBreakdown) string {
	if b.HasInsufficientData || b.Summary == nil {
		return "insufficient data"
	}
	return string(b.Summary.Status)
}

func driverCell(b nutrition.NutritionalBreakdown) string {
	if b.Summary == nil {
		return "-"
	}
	return b.Summary.PrimaryDriver.Label() + " " + pct(b.Summary.PrimaryDriverPercentage, 0)
}

// bestFoodCell names the highest-scoring fed food; first wins ties.
func bestFoodCell(foods []report.FoodAssessment) string {
	if len(foods) == 0 {
		return "-"
	}
	best := foods[0]
	for _, f := range foods[1:] {
		if f.Assessment.Score > best.Assessment.Score {
			best = f
		}
	}
	return best.FoodName + " (" + strconv.Itoa(best.Assessment.Score) + ")"
}
