package nutrition

import "fmt"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Parsing and unit errors. Compare with errors.Is.
var (
	ErrUnknownSpecies       = constError("unknown species")
	ErrUnknownLifeStage     = constError("unknown life stage")
	ErrUnknownActivityLevel = constError("unknown activity level")
	ErrUnknownGoalType      = constError("unknown goal type")

	// ErrInvalidUnit indicates an unrecognized mass unit.
	ErrInvalidUnit = constError("invalid mass unit")
	// ErrNegativeValue indicates a negative mass.
	ErrNegativeValue = constError("negative mass value")
	// ErrCalculationOverflow indicates a non-finite input or result.
	ErrCalculationOverflow = constError("calculation overflow")
)

// Food comparison errors.
var (
	// ErrInsufficientFoods is returned when fewer than MinComparisonFoods are requested.
	ErrInsufficientFoods = constError("at least 2 foods are required for comparison")
	// ErrTooManyFoods is returned when more than MaxComparisonFoods are requested.
	ErrTooManyFoods = constError("at most 3 foods can be compared")
	// ErrNotImplemented is returned for comparison metrics that have no implementation.
	ErrNotImplemented = constError("comparison metric not implemented")
)

// FoodNotFoundError reports a requested food that is absent from the catalog.
type FoodNotFoundError struct {
	ID string
}

func (e *FoodNotFoundError) Error() string {
	return fmt.Sprintf("food not found: %s", e.ID)
}
