package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/nutriscan/internal/config"
	"github.com/rshade/nutriscan/internal/ingest"
	"github.com/rshade/nutriscan/internal/logging"
)

// Flag names shared by several commands.
const (
	flagHousehold = "household"
	flagPet       = "pet"
	flagOutput    = "output"
	flagAsOf      = "as-of"
	flagWindow    = "window"
)

// ErrHouseholdRequired is returned when a command needs a household document.
var ErrHouseholdRequired = errors.New("--household is required")

// auditContext holds common context for audit logging within a command.
type auditContext struct {
	logger  *logging.AuditLogger
	traceID string
	params  map[string]string
	start   time.Time
	command string
}

func newAuditContext(ctx context.Context, command string, params map[string]string) *auditContext {
	return &auditContext{
		logger:  logging.AuditLoggerFromContext(ctx),
		traceID: logging.TraceIDFromContext(ctx),
		params:  params,
		start:   time.Now(),
		command: command,
	}
}

func (a *auditContext) logFailure(ctx context.Context, err error) {
	entry := logging.NewAuditEntry(a.command, a.traceID).
		WithParameters(a.params).
		WithError(err.Error()).
		WithDuration(a.start)
	a.logger.Log(ctx, *entry)
}

func (a *auditContext) logSuccess(ctx context.Context, petCount int) {
	entry := logging.NewAuditEntry(a.command, a.traceID).
		WithParameters(a.params).
		WithSuccess(petCount).
		WithDuration(a.start)
	a.logger.Log(ctx, *entry)
}

// fail records err in the audit log and returns it.
func (a *auditContext) fail(ctx context.Context, err error) error {
	a.logFailure(ctx, err)
	return err
}

// loadHousehold reads the household document named by path.
func loadHousehold(ctx context.Context, path string) (*ingest.Household, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrHouseholdRequired
	}
	h, err := ingest.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading household: %w", err)
	}
	return h, nil
}

// parseAsOf parses an RFC 3339 timestamp or a YYYY-MM-DD date (end of day UTC).
// Empty means now.
func parseAsOf(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %q: use YYYY-MM-DD or RFC 3339", s)
	}
	return d.Add(24*time.Hour - time.Nanosecond), nil
}

// clockAt returns a clock frozen at t.
func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// windowDays returns --window if set, else the configured window.
func windowDays(cmd *cobra.Command) (int, error) {
	if cmd.Flags().Changed(flagWindow) {
		w, _ := cmd.Flags().GetInt(flagWindow)
		if w < 1 {
			return 0, fmt.Errorf("--window must be >= 1, got %d", w)
		}
		return w, nil
	}
	return config.GetGlobalConfig().Nutrition.WindowDays, nil
}

func addHouseholdFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, flagHousehold, "f", "", "household document (.yaml, .yml or .json)")
}

func addPetFlag(cmd *cobra.Command, target *[]string) {
	cmd.Flags().StringSliceVarP(target, flagPet, "p", nil, "pet name or ID (repeatable; default all pets)")
}
