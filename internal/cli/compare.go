package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/nutriscan/internal/config"
	"github.com/rshade/nutriscan/internal/ingest"
	"github.com/rshade/nutriscan/internal/nutrition"
)

// ErrPetRequired is returned when a command needs exactly one pet and the
// household holds several.
var ErrPetRequired = errors.New("--pet is required when the household has more than one pet")

// compareResult is a comparison with the pet it was made for.
type compareResult struct {
	Pet        string                    `json:"pet"`
	PetID      string                    `json:"pet_id"`
	Comparison *nutrition.FoodComparison `json:"comparison"`
}

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	var (
		household string
		pet       string
		metric    string
		asOf      string
	)

	cmd := &cobra.Command{
		Use:   "compare FOOD FOOD [FOOD]",
		Short: "Rank two or three foods for one pet",
		Long: `Assesses two or three foods against one pet's requirements and ranks them by
compatibility score. Equal scores keep the order given on the command line.
Also reports which food leads in protein, fat and fiber.`,
		Example: `  # Rank two foods for Miso
  nutriscan compare --household household.yaml --pet Miso kibble wet-salmon`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			audit := newAuditContext(ctx, "compare", map[string]string{
				"household": household,
				"foods":     strings.Join(args, ","),
				"metric":    metric,
			})

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
			p, err := singlePet(h, pet)
			if err != nil {
				return audit.fail(ctx, err)
			}

			req := nutrition.NewCalculator(nutrition.WithClock(clockAt(now))).Calculate(p, h.Goal(p.ID))
			cmp, err := nutrition.CompareFoods(h.Foods, args, req, nutrition.ComparisonMetric(strings.ToLower(metric)))
			if err != nil {
				return audit.fail(ctx, fmt.Errorf("comparing foods: %w", err))
			}

			logger.Debug().Ctx(ctx).
				Str("pet", p.Name).
				Str("best_food", cmp.BestFoodID).
				Msg("foods compared")

			res := compareResult{Pet: p.Name, PetID: p.ID.String(), Comparison: cmp}
			if err = renderComparison(cmd.OutOrStdout(), format, res, h); err != nil {
				return audit.fail(ctx, err)
			}
			audit.logSuccess(ctx, 1)
			return nil
		},
	}

	addHouseholdFlag(cmd, &household)
	addOutputFlag(cmd)
	cmd.Flags().StringVarP(&pet, flagPet, "p", "", "pet name or ID (optional when the household has one pet)")
	cmd.Flags().StringVar(&metric, "metric", string(nutrition.MetricNutrition), "comparison metric: nutrition or price")
	cmd.Flags().StringVar(&asOf, flagAsOf, "", "reference date for age-based life stages (YYYY-MM-DD or RFC 3339)")

	return cmd
}

// singlePet resolves ref, or returns the only pet when ref is empty.
func singlePet(h *ingest.Household, ref string) (nutrition.PetProfile, error) {
	if strings.TrimSpace(ref) != "" {
		return h.Pet(ref)
	}
	switch len(h.Pets) {
	case 0:
		return nutrition.PetProfile{}, ingest.ErrPetNotFound
	case 1:
		return h.Pets[0], nil
	default:
		return nutrition.PetProfile{}, ErrPetRequired
	}
}

func renderComparison(w io.Writer, format string, res compareResult, h *ingest.Household) error {
	if format != config.FormatTable {
		return writeStructured(w, format, []compareResult{res})
	}

	cmp := res.Comparison
	t := &table{
		title:  fmt.Sprintf("Food Comparison for %s", res.Pet),
		header: []string{"RANK", "FOOD", "SCORE", "LEVEL", "KCAL/100G", "PROTEIN", "FAT", "FIBER"},
	}
	for i, e := range cmp.Entries {
		t.add(
			strconv.Itoa(i+1),
			e.Food.Name,
			strconv.Itoa(e.Assessment.Score),
			string(e.Assessment.Level),
			nutrition.FormatFloat(e.Food.CaloriesPer100g, 0),
			pct(e.Food.ProteinPercentage, 1),
			pct(e.Food.FatPercentage, 1),
			pct(e.Food.FiberPercentage, 1),
		)
	}

	name := func(id string) string {
		if f, ok := h.Food(id); ok && f.Name != "" {
			return f.Name
		}
		return id
	}
	t.footer = []string{"", "Best match: " + statusStyle(w, name(cmp.BestFoodID), 0)}
	for _, m := range nutrition.Macros {
		t.footer = append(t.footer, fmt.Sprintf("Highest %s: %s", m, name(cmp.Leaders[m])))
	}
	return t.render(w)
}
