package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/bingo"
)

// RenderCard draws a bingo card as a styled grid, highlighting the cells
// covered by the drawn numbers. It is shared by the in-game view and the
// card inspection command.
func RenderCard(card bingo.Card, drawn []int) string {
	set := make(map[int]bool, len(drawn))
	for _, n := range drawn {
		set[n] = true
	}

	var b strings.Builder
	header := make([]string, bingo.Size)
	for i, letter := range []string{"B", "I", "N", "G", "O"} {
		header[i] = CellStyle.Render(letter)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))
	b.WriteString("\n")

	for row := 0; row < bingo.Size; row++ {
		cells := make([]string, bingo.Size)
		for col := 0; col < bingo.Size; col++ {
			v := card[row][col]
			switch {
			case v == bingo.FreeValue:
				cells[col] = FreeCellStyle.Render("★")
			case set[v]:
				cells[col] = MarkedCellStyle.Render(fmt.Sprintf("%d", v))
			default:
				cells[col] = CellStyle.Render(fmt.Sprintf("%d", v))
			}
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}
	return b.String()
}
