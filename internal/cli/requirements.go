package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/nutriscan/internal/config"
	"github.com/rshade/nutriscan/internal/nutrition"
	"github.com/rshade/nutriscan/internal/report"
)

// requirementsParams holds the flags of the requirements command.
type requirementsParams struct {
	household    string
	pets         []string
	asOf         string
	species      string
	lifeStage    string
	activity     string
	weight       float64
	weightUnit   string
	birthDate    string
	goal         string
	targetWeight float64
}

// requirementsRow is one pet's requirements as rendered.
type requirementsRow struct {
	Pet          string                            `json:"pet"`
	PetID        string                            `json:"pet_id,omitempty"`
	Goal         *nutrition.WeightGoal             `json:"goal,omitempty"`
	Requirements nutrition.NutritionalRequirements `json:"requirements"`
}

// NewRequirementsCmd creates the requirements command.
func NewRequirementsCmd() *cobra.Command {
	var params requirementsParams

	cmd := &cobra.Command{
		Use:   "requirements",
		Short: "Calculate daily calorie and macro-nutrient requirements",
		Long: `Calculates daily calories (RER × MER multiplier) and protein, fat, fiber
and moisture targets for each pet in a household document, or for a single
pet described with --species and the other profile flags.`,
		Example: `  # Every pet in a household file
  nutriscan requirements --household household.yaml

  # One pet from the household
  nutriscan requirements --household household.yaml --pet Rex

  # An ad-hoc senior cat on a weight-loss plan
  nutriscan requirements --species cat --life-stage senior --weight 6 --goal weight-loss --target-weight 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRequirements(cmd, params)
		},
	}

	addHouseholdFlag(cmd, &params.household)
	addPetFlag(cmd, &params.pets)
	addOutputFlag(cmd)
	cmd.Flags().StringVar(&params.asOf, flagAsOf, "", "reference date for age-based life stages (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&params.species, "species", "", "species of an ad-hoc pet: dog or cat")
	cmd.Flags().StringVar(&params.lifeStage, "life-stage", "", "puppy, kitten, adult, senior, pregnant or lactating")
	cmd.Flags().StringVar(&params.activity, "activity", "", "activity level: low, moderate or high")
	cmd.Flags().Float64Var(&params.weight, "weight", 0, "current body weight (0 = species default)")
	cmd.Flags().StringVar(&params.weightUnit, "weight-unit", "kg", "unit of --weight and --target-weight: kg, g, lb or oz")
	cmd.Flags().StringVar(&params.birthDate, "birth-date", "", "birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&params.goal, "goal", "", "weight goal: weight-loss, weight-gain, maintenance or health-improvement")
	cmd.Flags().Float64Var(&params.targetWeight, "target-weight", 0, "goal target weight")
	cmd.MarkFlagsMutuallyExclusive(flagHousehold, "species")

	return cmd
}

func runRequirements(cmd *cobra.Command, params requirementsParams) error {
	ctx := cmd.Context()
	audit := newAuditContext(ctx, "requirements", map[string]string{
		"household": params.household,
		"species":   params.species,
	})

	format, err := outputFormat(cmd)
	if err != nil {
		return audit.fail(ctx, err)
	}
	asOf, err := parseAsOf(params.asOf)
	if err != nil {
		return audit.fail(ctx, err)
	}
	calc := nutrition.NewCalculator(nutrition.WithClock(clockAt(asOf)))

	var rows []requirementsRow
	if params.species != "" {
		row, adHocErr := adHocRequirements(calc, params)
		if adHocErr != nil {
			return audit.fail(ctx, adHocErr)
		}
		rows = []requirementsRow{row}
	} else {
		h, loadErr := loadHousehold(ctx, params.household)
		if loadErr != nil {
			if errors.Is(loadErr, ErrHouseholdRequired) {
				loadErr = fmt.Errorf("%w (or describe a pet with --species)", loadErr)
			}
			return audit.fail(ctx, loadErr)
		}
		pets, selErr := report.SelectPets(h, params.pets)
		if selErr != nil {
			return audit.fail(ctx, selErr)
		}
		for _, pet := range pets {
			goal := h.Goal(pet.ID)
			rows = append(rows, requirementsRow{
				Pet:          pet.Name,
				PetID:        pet.ID.String(),
				Goal:         goal,
				Requirements: calc.Calculate(pet, goal),
			})
		}
	}

	logger.Debug().Ctx(ctx).Int("pet_count", len(rows)).Msg("requirements calculated")

	if err = renderRequirements(cmd.OutOrStdout(), format, rows); err != nil {
		return audit.fail(ctx, err)
	}
	audit.logSuccess(ctx, len(rows))
	return nil
}

// adHocRequirements builds a profile from flags and calculates it.
func adHocRequirements(calc nutrition.Calculator, params requirementsParams) (requirementsRow, error) {
	species, err := nutrition.ParseSpecies(params.species)
	if err != nil {
		return requirementsRow{}, err
	}
	pet := nutrition.PetProfile{Name: "ad-hoc " + string(species), Species: species}

	if params.lifeStage != "" {
		if pet.LifeStage, err = nutrition.ParseLifeStage(params.lifeStage); err != nil {
			return requirementsRow{}, err
		}
	}
	if params.activity != "" {
		if pet.ActivityLevel, err = nutrition.ParseActivityLevel(params.activity); err != nil {
			return requirementsRow{}, err
		}
	}
	if pet.WeightKg, err = nutrition.NormalizeWeightToKg(params.weight, params.weightUnit); err != nil {
		return requirementsRow{}, fmt.Errorf("--weight: %w", err)
	}
	if params.birthDate != "" {
		bd, parseErr := time.Parse(time.DateOnly, params.birthDate)
		if parseErr != nil {
			return requirementsRow{}, fmt.Errorf("invalid --birth-date %q: use YYYY-MM-DD", params.birthDate)
		}
		pet.BirthDate = &bd
	}

	var goal *nutrition.WeightGoal
	if params.goal != "" {
		gt, goalErr := nutrition.ParseGoalType(params.goal)
		if goalErr != nil {
			return requirementsRow{}, goalErr
		}
		target, convErr := nutrition.NormalizeWeightToKg(params.targetWeight, params.weightUnit)
		if convErr != nil {
			return requirementsRow{}, fmt.Errorf("--target-weight: %w", convErr)
		}
		goal = &nutrition.WeightGoal{Type: gt, TargetWeightKg: target}
	}

	return requirementsRow{Pet: pet.Name, Goal: goal, Requirements: calc.Calculate(pet, goal)}, nil
}

func renderRequirements(w io.Writer, format string, rows []requirementsRow) error {
	if format != config.FormatTable {
		return writeStructured(w, format, rows)
	}

	precision := config.GetOutputPrecision()
	t := &table{
		title: "Daily Nutritional Requirements",
		header: []string{
			"PET", "SPECIES", "STAGE", "ACTIVITY", "WEIGHT", "RER", "MULT",
			"KCAL/DAY", "PROTEIN", "FAT", "FIBER", "MOISTURE",
		},
	}
	var goals []string
	for _, r := range rows {
		req := r.Requirements
		t.add(
			r.Pet,
			string(req.Species),
			string(req.LifeStage),
			string(req.ActivityLevel),
			nutrition.FormatFloat(req.WeightBasisKg, precision)+" kg",
			nutrition.FormatCalories(req.RestingEnergy),
			nutrition.FormatFloat(req.Multiplier, 1),
			nutrition.FormatCalories(req.DailyCalories),
			pct(req.ProteinPercentage, 0),
			pct(req.FatPercentage, 0),
			pct(req.FiberPercentage, 0),
			pct(req.MoisturePercentage, 0),
		)
		if r.Goal != nil {
			line := fmt.Sprintf("%s: goal %s", r.Pet, r.Goal.Type)
			if r.Goal.TargetWeightKg > 0 {
				line += fmt.Sprintf(" (target %s kg)", nutrition.FormatFloat(r.Goal.TargetWeightKg, precision))
			}
			goals = append(goals, line)
		}
	}
	if len(goals) > 0 {
		t.footer = append([]string{""}, goals...)
	}
	return t.render(w)
}
