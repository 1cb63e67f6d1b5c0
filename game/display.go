package game

import (
	"fmt"
	"strings"

	"github.com/domino14/tetrisai/board"
)

func addText(lines []string, row int, hpad int, text string) {
	if row < len(lines) {
		lines[row] += strings.Repeat(" ", hpad) + text
	}
}

// ToDisplayText renders the playfield with the falling piece, the preview
// and the statistics beside it.
func (g *AIGame) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString("+" + strings.Repeat("-", board.Width*2) + "+\n")
	for y := board.Height - 1; y >= 0; y-- {
		sb.WriteString("|")
		for x := 0; x < board.Width; x++ {
			switch g.overlay[y][x].State {
			case Shown:
				sb.WriteString(g.overlay[y][x].Piece.String() + " ")
			case Dying:
				sb.WriteString("* ")
			default:
				sb.WriteString(". ")
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("+" + strings.Repeat("-", board.Width*2) + "+")

	lines := strings.Split(sb.String(), "\n")
	hpadding := 3
	st := g.Stats()
	addText(lines, 1, hpadding, "Next:")
	for y := 3; y >= 0; y-- {
		var row strings.Builder
		for x := 0; x < 4; x++ {
			if g.NextPieceCell(x, y).State == Shown {
				row.WriteString(st.Next.String() + " ")
			} else {
				row.WriteString("  ")
			}
		}
		addText(lines, 2+3-y, hpadding, row.String())
	}
	addText(lines, 7, hpadding, fmt.Sprintf("Current: %v", st.Current))
	addText(lines, 8, hpadding, fmt.Sprintf("Lines:   %d", st.Lines))
	addText(lines, 9, hpadding, fmt.Sprintf("Score:   %d", st.Score))
	addText(lines, 10, hpadding, fmt.Sprintf("Pieces:  %d", st.Pieces))
	addText(lines, 11, hpadding, fmt.Sprintf("Level:   %d", st.Level))
	addText(lines, 12, hpadding, fmt.Sprintf("State:   %v", g.state))
	if m, ok := g.Planned(); ok {
		addText(lines, 13, hpadding, fmt.Sprintf("Target:  %v", m.ShortDescription()))
	}
	return strings.Join(lines, "\n") + "\n"
}
