package formatter

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress draws pct (0..100) as a bar of width cells, e.g.
// [██████░░░░]  60%. Fill colour follows the same bands as match scores.
func RenderProgress(pct float64, width int) string {
	pct = math.Max(0, math.Min(100, pct))
	width = max(width, 2)

	filled := int(math.Round(pct / 100 * float64(width)))
	return fmt.Sprintf("[%s%s] %3.0f%%",
		fillStyle(pct).Render(strings.Repeat(filledBlock, filled)),
		StyleDim.Render(strings.Repeat(emptyBlock, width-filled)),
		pct,
	)
}

func fillStyle(pct float64) lipgloss.Style {
	switch {
	case pct >= 70:
		return StyleGreen
	case pct >= 40:
		return StyleYellow
	default:
		return StyleRed
	}
}
