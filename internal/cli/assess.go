package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/nutriscan/internal/config"
	"github.com/rshade/nutriscan/internal/nutrition"
	"github.com/rshade/nutriscan/internal/report"
)

// assessRow is one pet/food compatibility assessment.
type assessRow struct {
	Pet        string                            `json:"pet"`
	PetID      string                            `json:"pet_id"`
	FoodID     string                            `json:"food_id"`
	FoodName   string                            `json:"food_name"`
	Assessment nutrition.CompatibilityAssessment `json:"assessment"`
}

// NewAssessCmd creates the assess command.
func NewAssessCmd() *cobra.Command {
	var (
		household string
		pets      []string
		foods     []string
		asOf      string
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score foods against a pet's requirements",
		Long: `Scores each food in the household (or those named with --food) against each
pet's requirements. Protein, fat and fiber each contribute up to 25 points and
an allergen-free ingredient list adds 25, for a maximum of 100.`,
		Example: `  # Every food for every pet
  nutriscan assess --household household.yaml

  # One food for one pet, as JSON
  nutriscan assess --household household.yaml --pet Rex --food kibble -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			audit := newAuditContext(ctx, "assess", map[string]string{"household": household})

			format, err := outputFormat(cmd)
			if err != nil {
				return audit.fail(ctx, err)
			}
			now, err := parseAsOf(asOf)
			if err != nil {
				return audit.fail(ctx, err)
			}
			h, err := loadHousehold(ctx, household)
			if err != nil {
				return audit.fail(ctx, err)
			}
			selected, err := report.SelectPets(h, pets)
			if err != nil {
				return audit.fail(ctx, err)
			}
			foodIDs := foods
			if len(foodIDs) == 0 {
				foodIDs = h.FoodIDs
			}

			calc := nutrition.NewCalculator(nutrition.WithClock(clockAt(now)))
			var rows []assessRow
			for _, pet := range selected {
				req := calc.Calculate(pet, h.Goal(pet.ID))
				for _, id := range foodIDs {
					food, ok := h.Food(id)
					if !ok {
						return audit.fail(ctx, &nutrition.FoodNotFoundError{ID: id})
					}
					rows = append(rows, assessRow{
						Pet:        pet.Name,
						PetID:      pet.ID.String(),
						FoodID:     food.ID,
						FoodName:   food.Name,
						Assessment: nutrition.Assess(food, req),
					})
				}
			}

			logger.Debug().Ctx(ctx).Int("assessments", len(rows)).Msg("foods assessed")

			if err = renderAssessments(cmd.OutOrStdout(), format, rows); err != nil {
				return audit.fail(ctx, err)
			}
			audit.logSuccess(ctx, len(selected))
			return nil
		},
	}

	addHouseholdFlag(cmd, &household)
	addPetFlag(cmd, &pets)
	addOutputFlag(cmd)
	cmd.Flags().StringSliceVar(&foods, "food", nil, "food ID to assess (repeatable; default all foods)")
	cmd.Flags().StringVar(&asOf, flagAsOf, "", "reference date for age-based life stages (YYYY-MM-DD or RFC 3339)")

	return cmd
}

func renderAssessments(w io.Writer, format string, rows []assessRow) error {
	if format != config.FormatTable {
		return writeStructured(w, format, rows)
	}

	t := &table{
		title:  "Food Compatibility",
		header: []string{"PET", "FOOD", "SCORE", "LEVEL", "ISSUES"},
	}
	var notes []string
	for _, r := range rows {
		a := r.Assessment
		t.add(
			r.Pet,
			r.FoodName,
			strconv.Itoa(a.Score),
			string(a.Level),
			strconv.Itoa(len(a.Issues)),
		)
		for i, issue := range a.Issues {
			note := fmt.Sprintf("%s / %s: %s", r.Pet, r.FoodName, issue)
			if i < len(a.Recommendations) {
				note += " → " + a.Recommendations[i]
			}
			notes = append(notes, note)
		}
	}
	if len(notes) > 0 {
		t.footer = append([]string{""}, notes...)
	}
	return t.render(w)
}
