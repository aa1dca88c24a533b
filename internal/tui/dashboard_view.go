package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/nutriscan/internal/nutrition"
	"github.com/rshade/nutriscan/internal/report"
)

// View renders the current view (Bubble Tea interface).
func (m DashboardModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateError:
		return fmt.Sprintf("Error: %v\n", m.err)
	case ViewStateDetail:
		return m.renderDetailView()
	case ViewStateList:
		return m.renderListView()
	default:
		return ""
	}
}

func (m DashboardModel) renderListView() string {
	sections := []string{
		HeaderStyle.Render("nutriscan dashboard"),
		m.table.View(),
		m.renderStatusBar(),
	}
	if m.showFilter {
		sections = append(sections, LabelStyle.Render("Filter: ")+m.textInput.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderStatusBar() string {
	filterStatus := ""
	if m.textInput.Value() != "" {
		filterStatus = fmt.Sprintf(" | Filtered: %d/%d", len(m.rows), len(m.allRows))
	}
	status := fmt.Sprintf("Sort: %s%s | enter details, 's' sort, '/' filter, 'q' quit",
		m.sortLabel(), filterStatus)
	return SubtleStyle.Render(status)
}

func (m DashboardModel) sortLabel() string {
	switch m.sortBy {
	case SortByName:
		return "Name"
	case SortByCalories:
		return "Calories"
	case SortByBalance:
		return "Balance"
	default:
		return "Unknown"
	}
}

func (m DashboardModel) renderDetailView() string {
	r, ok := m.Selected()
	if !ok {
		return "No pet selected"
	}

	var content strings.Builder
	content.WriteString(HeaderStyle.Render(strings.ToUpper(r.Pet.Name)))
	content.WriteString("\n\n")
	renderDetailRequirements(&content, r)
	renderDetailBalance(&content, r.Breakdown)
	renderDetailFoods(&content, r.Foods)
	content.WriteString(SubtleStyle.Render("Press ESC to return"))

	return BoxStyle.Width(m.width - borderPadding).Render(content.String())
}

func field(content *strings.Builder, label, value string) {
	content.WriteString(LabelStyle.Render(label))
	content.WriteString(ValueStyle.Render(value))
	content.WriteString("\n")
}

func renderDetailRequirements(content *strings.Builder, r report.PetReport) {
	req := r.Requirements
	content.WriteString(HeaderStyle.Render("REQUIREMENTS"))
	content.WriteString("\n")
	field(content, "  Profile:  ", fmt.Sprintf("%s, %s, %s activity", req.Species, req.LifeStage, req.ActivityLevel))
	field(content, "  Weight:   ", nutrition.FormatFloat(req.WeightBasisKg, 1)+" kg")
	field(content, "  Energy:   ", fmt.Sprintf("%s/day (RER %s × %.1f)",
		nutrition.FormatCalories(req.DailyCalories), nutrition.FormatCalories(req.RestingEnergy), req.Multiplier))
	field(content, "  Targets:  ", fmt.Sprintf("protein %.0f%%, fat %.0f%%, fiber %.0f%%, moisture %.0f%%",
		req.ProteinPercentage, req.FatPercentage, req.FiberPercentage, req.MoisturePercentage))
	if r.Goal != nil {
		goal := string(r.Goal.Type)
		if r.Goal.TargetWeightKg > 0 {
			goal += fmt.Sprintf(" to %s kg", nutrition.FormatFloat(r.Goal.TargetWeightKg, 1))
		}
		field(content, "  Goal:     ", goal)
	}
	content.WriteString("\n")
}

func renderDetailBalance(content *strings.Builder, b nutrition.NutritionalBreakdown) {
	content.WriteString(HeaderStyle.Render("BALANCE"))
	content.WriteString("\n")
	if b.HasInsufficientData || b.Summary == nil {
		content.WriteString(WarningStyle.Render(fmt.Sprintf(
			"  Not enough feeding data: %d of %d records needed.\n\n", b.RecordCount, nutrition.MinFeedingRecords)))
		return
	}
	for _, s := range b.Macros {
		fmt.Fprintf(content, "  %-8s %7s / %7s  %4.0f%%  ",
			s.Macro.Label(), nutrition.FormatGrams(s.Actual), nutrition.FormatGrams(s.Recommended), s.Percentage)
		content.WriteString(macroStyle(s.Status).Render(s.Status.Label()))
		content.WriteString("\n")
	}
	content.WriteString(balanceStyle(b.Summary.Status).Render(
		fmt.Sprintf("  %s (%d/%d targets met)", b.Summary.Status, b.Summary.TargetsMet, b.Summary.TotalTargets)))
	content.WriteString("\n  ")
	content.WriteString(b.Summary.Explanation)
	content.WriteString("\n")
	if b.Plan != nil {
		for _, a := range b.Plan.Actions {
			fmt.Fprintf(content, "  %d. %s\n", a.Priority, a.Description())
		}
	}
	content.WriteString("\n")
}

func renderDetailFoods(content *strings.Builder, foods []report.FoodAssessment) {
	if len(foods) == 0 {
		return
	}
	content.WriteString(HeaderStyle.Render("FOODS FED"))
	content.WriteString("\n")
	for _, f := range foods {
		fmt.Fprintf(content, "  %s: %d (%s)\n", f.FoodName, f.Assessment.Score, f.Assessment.Level)
		for _, issue := range f.Assessment.Issues {
			content.WriteString(SubtleStyle.Render("     " + issue))
			content.WriteString("\n")
		}
	}
	content.WriteString("\n")
}

func macroStyle(s nutrition.MacroStatus) lipgloss.Style {
	switch s {
	case nutrition.StatusOptimal:
		return OKStyle
	case nutrition.StatusSlightlyLow, nutrition.StatusSlightlyHigh:
		return WarningStyle
	default:
		return CriticalStyle
	}
}

func balanceStyle(s nutrition.BalanceStatus) lipgloss.Style {
	switch s {
	case nutrition.BalanceOptimal, nutrition.BalanceGood:
		return OKStyle
	case nutrition.BalanceNeedsAttention:
		return WarningStyle
	default:
		return CriticalStyle
	}
}
