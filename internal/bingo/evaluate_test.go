package bingo

import (
	"testing"
)

func rowValues(card Card, row int) []int {
	var vals []int
	for col := 0; col < Size; col++ {
		if v := card[row][col]; v != FreeValue {
			vals = append(vals, v)
		}
	}
	return vals
}

func colValues(card Card, col int) []int {
	var vals []int
	for row := 0; row < Size; row++ {
		if v := card[row][col]; v != FreeValue {
			vals = append(vals, v)
		}
	}
	return vals
}

func TestEvaluateEmptyDrawn(t *testing.T) {
	t.Parallel()

	// The free cell alone never completes a line.
	for id := MinCardID; id <= MaxCardID; id++ {
		if pattern, won := Evaluate(Generate(id), nil); won {
			t.Fatalf("card %d: empty drawn set won with %s", id, pattern)
		}
	}
}

func TestEvaluateRows(t *testing.T) {
	t.Parallel()

	card := Generate(17)
	for row := 0; row < Size; row++ {
		pattern, won := Evaluate(card, rowValues(card, row))
		if !won {
			t.Fatalf("row %d should win", row)
		}
		if pattern != RowPattern(row) {
			t.Errorf("row %d: expected %s, got %s", row, RowPattern(row), pattern)
		}
	}
}

func TestEvaluateMiddleRowUsesFreeCell(t *testing.T) {
	t.Parallel()

	// Card 1's middle row needs only its four numeric values: the free
	// cell is always marked. Order of draws must not matter.
	card := Generate(1)
	vals := rowValues(card, FreeRow)
	if len(vals) != 4 {
		t.Fatalf("middle row should have 4 numeric values, got %d", len(vals))
	}

	reversed := []int{vals[3], vals[2], vals[1], vals[0]}
	for _, drawn := range [][]int{vals, reversed} {
		pattern, won := Evaluate(card, drawn)
		if !won {
			t.Fatal("middle row should win with its four numeric values")
		}
		if pattern != RowPattern(FreeRow) {
			t.Errorf("expected %s, got %s", RowPattern(FreeRow), pattern)
		}
	}

	// Three of the four are not enough.
	if pattern, won := Evaluate(card, vals[:3]); won {
		t.Fatalf("three values should not win, got %s", pattern)
	}
}

func TestEvaluateColumns(t *testing.T) {
	t.Parallel()

	card := Generate(33)
	for col := 0; col < Size; col++ {
		pattern, won := Evaluate(card, colValues(card, col))
		if !won {
			t.Fatalf("column %d should win", col)
		}
		if pattern != ColPattern(col) {
			t.Errorf("column %d: expected %s, got %s", col, ColPattern(col), pattern)
		}
	}
}

func TestEvaluateDiagonals(t *testing.T) {
	t.Parallel()

	card := Generate(50)

	var main, anti []int
	for i := 0; i < Size; i++ {
		if v := card[i][i]; v != FreeValue {
			main = append(main, v)
		}
		if v := card[i][Size-1-i]; v != FreeValue {
			anti = append(anti, v)
		}
	}

	if pattern, won := Evaluate(card, main); !won || pattern != PatternDiagMain {
		t.Errorf("main diagonal: won=%v pattern=%s", won, pattern)
	}
	if pattern, won := Evaluate(card, anti); !won || pattern != PatternDiagAnti {
		t.Errorf("anti diagonal: won=%v pattern=%s", won, pattern)
	}
}

func TestEvaluatePriorityRowBeatsColumn(t *testing.T) {
	t.Parallel()

	// Drawing row 1 and column 1 together must report the row: the
	// fixed check order is the documented tie-break.
	card := Generate(8)
	drawn := append(rowValues(card, 0), colValues(card, 0)...)

	pattern, won := Evaluate(card, drawn)
	if !won {
		t.Fatal("completed row and column should win")
	}
	if pattern != RowPattern(0) {
		t.Errorf("expected %s by priority, got %s", RowPattern(0), pattern)
	}
}

func TestEvaluatePriorityColumnBeatsDiagonal(t *testing.T) {
	t.Parallel()

	card := Generate(8)
	var diag []int
	for i := 0; i < Size; i++ {
		if v := card[i][i]; v != FreeValue {
			diag = append(diag, v)
		}
	}
	drawn := append(colValues(card, 4), diag...)

	pattern, won := Evaluate(card, drawn)
	if !won {
		t.Fatal("completed column and diagonal should win")
	}
	if pattern != ColPattern(4) {
		t.Errorf("expected %s by priority, got %s", ColPattern(4), pattern)
	}
}

func TestEvaluateEverythingDrawn(t *testing.T) {
	t.Parallel()

	all := make([]int, 0, 75)
	for n := 1; n <= 75; n++ {
		all = append(all, n)
	}
	// With every number drawn the first row wins by priority.
	pattern, won := Evaluate(Generate(42), all)
	if !won || pattern != RowPattern(0) {
		t.Errorf("expected %s, got won=%v pattern=%s", RowPattern(0), won, pattern)
	}
}
