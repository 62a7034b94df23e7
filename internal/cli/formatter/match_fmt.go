package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/placement/internal/domain"
)

// FormatMatches lists ranked matches with the leading reason for each.
func FormatMatches(studentID string, matches []domain.Match) string {
	var b strings.Builder
	b.WriteString(Header("Matches for " + studentID))
	b.WriteString("\n")
	if len(matches) == 0 {
		b.WriteString(Dim("No eligible internships.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(matches))
	for i, m := range matches {
		reason := Dim("--")
		if len(m.Reasons) > 0 {
			reason = m.Reasons[0].Message
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			Bold(m.InternshipID),
			ScoreColor(m.Score),
			fmt.Sprintf("%.0f/%.0f/%.0f/%.0f", m.Breakdown.Skill, m.Breakdown.Academic, m.Breakdown.Experience, m.Breakdown.Location),
			bonus(m.Breakdown.Diversity),
			reason,
		})
	}
	b.WriteString(RenderTable([]string{"#", "INTERNSHIP", "SCORE", "SKL/ACA/EXP/LOC", "BONUS", "WHY"}, rows))
	return b.String()
}

func bonus(v float64) string {
	if v <= 0 {
		return Dim("-")
	}
	return StylePurple.Render(fmt.Sprintf("+%.0f", v))
}
