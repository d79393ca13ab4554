package bingo

import "fmt"

// Pattern identifies a completed line on a card: "row-1".."row-5",
// "col-1".."col-5", "diag-main" or "diag-anti".
type Pattern string

const (
	// PatternDiagMain is the top-left to bottom-right diagonal.
	PatternDiagMain Pattern = "diag-main"
	// PatternDiagAnti is the top-right to bottom-left diagonal.
	PatternDiagAnti Pattern = "diag-anti"
)

// RowPattern returns the pattern for a row index in [0, Size).
func RowPattern(row int) Pattern {
	return Pattern(fmt.Sprintf("row-%d", row+1))
}

// ColPattern returns the pattern for a column index in [0, Size).
func ColPattern(col int) Pattern {
	return Pattern(fmt.Sprintf("col-%d", col+1))
}

// Evaluate reports whether the card holds a completed line given the drawn
// numbers. A cell counts as marked if it is the free cell or its value has
// been drawn.
//
// Lines are checked in a fixed priority order: rows top to bottom, then
// columns left to right, then the main diagonal, then the anti-diagonal,
// stopping at the first full line. When a draw completes several lines at
// once this order decides which pattern is reported, so it must not change.
func Evaluate(card Card, drawn []int) (Pattern, bool) {
	set := drawnSet(drawn)
	marked := func(row, col int) bool {
		return (row == FreeRow && col == FreeCol) || set[card[row][col]]
	}

	for row := 0; row < Size; row++ {
		ok := true
		for col := 0; col < Size; col++ {
			ok = ok && marked(row, col)
		}
		if ok {
			return RowPattern(row), true
		}
	}

	for col := 0; col < Size; col++ {
		ok := true
		for row := 0; row < Size; row++ {
			ok = ok && marked(row, col)
		}
		if ok {
			return ColPattern(col), true
		}
	}

	main, anti := true, true
	for i := 0; i < Size; i++ {
		main = main && marked(i, i)
		anti = anti && marked(i, Size-1-i)
	}
	if main {
		return PatternDiagMain, true
	}
	if anti {
		return PatternDiagAnti, true
	}

	return "", false
}
