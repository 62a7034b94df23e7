package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/placement/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

func RiskColor(risk domain.RiskLevel) lipgloss.Style {
	switch risk {
	case domain.RiskCritical:
		return StyleRed
	case domain.RiskAtRisk:
		return StyleYellow
	case domain.RiskOnTrack:
		return StyleGreen
	default:
		return StyleDim
	}
}

var riskLabels = map[domain.RiskLevel]string{
	domain.RiskCritical: "CRITICAL",
	domain.RiskAtRisk:   "AT RISK",
	domain.RiskOnTrack:  "ON TRACK",
}

// RiskIndicator renders a coloured dot and label, e.g. "● AT RISK".
func RiskIndicator(risk domain.RiskLevel) string {
	label, ok := riskLabels[risk]
	if !ok {
		label = "UNKNOWN"
	}
	return RiskColor(risk).Render("● " + label)
}

func SeverityPill(s domain.AlertSeverity) string {
	switch s {
	case domain.SeverityHigh:
		return StyleRed.Render("▲ HIGH")
	case domain.SeverityMedium:
		return StyleYellow.Render("● MEDIUM")
	case domain.SeverityLow:
		return StyleBlue.Render("○ LOW")
	default:
		return StyleDim.Render(string(s))
	}
}

// ScoreColor shades a 0..100 match score: green from 70, yellow from 40.
func ScoreColor(score float64) string {
	text := fmt.Sprintf("%5.1f", score)
	switch {
	case score >= 70:
		return StyleGreen.Render(text)
	case score >= 40:
		return StyleYellow.Render(text)
	default:
		return StyleRed.Render(text)
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
