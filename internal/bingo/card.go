// Package bingo implements 75-ball bingo cards and win-pattern detection.
//
// A card is a 5x5 grid whose columns draw from the classic B/I/N/G/O
// ranges, with a free cell in the middle. Cards are a pure function of
// their identifier: generating the same ID twice always yields the same
// grid, so any party can recompute a player's card from the ID alone and
// audit a win without the grid ever being stored.
package bingo

import (
	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/rng"
)

// Size is the card dimension.
const Size = 5

// FreeRow and FreeCol locate the free cell, which holds FreeValue and is
// always considered marked.
const (
	FreeRow   = 2
	FreeCol   = 2
	FreeValue = 0
)

// MinCardID and MaxCardID bound the card identifier space players pick from.
const (
	MinCardID = 1
	MaxCardID = 100
)

// Card is a 5x5 grid indexed [row][col]. The free cell holds FreeValue.
type Card [Size][Size]int

// Column number ranges for B, I, N, G, O.
var columnRanges = [Size][2]int{
	{1, 15},
	{16, 30},
	{31, 45},
	{46, 60},
	{61, 75},
}

// Generate builds the card for the given identifier. The identifier itself
// seeds the generator, which is the fairness anchor: a player's card is
// fully determined the instant they pick an ID in [MinCardID, MaxCardID].
// IDs outside that range are a caller bug, not a guarded case.
func Generate(cardID int) Card {
	r := rng.New(uint32(cardID))

	b := r.SampleUnique(1, 15, 5)
	i := r.SampleUnique(16, 30, 5)
	n := r.SampleUnique(31, 45, 4) // 4 because of the free center
	g := r.SampleUnique(46, 60, 5)
	o := r.SampleUnique(61, 75, 5)

	var card Card
	for row := 0; row < Size; row++ {
		card[row][0] = b[row]
		card[row][1] = i[row]
		card[row][3] = g[row]
		card[row][4] = o[row]
	}
	card[0][2] = n[0]
	card[1][2] = n[1]
	card[FreeRow][FreeCol] = FreeValue
	card[3][2] = n[2]
	card[4][2] = n[3]

	return card
}

// Marked returns the card values covered by the drawn numbers, in grid
// order. The free cell is excluded since it carries no number.
func Marked(card Card, drawn []int) []int {
	set := drawnSet(drawn)
	var marked []int
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if v := card[row][col]; v != FreeValue && set[v] {
				marked = append(marked, v)
			}
		}
	}
	return marked
}

func drawnSet(drawn []int) map[int]bool {
	set := make(map[int]bool, len(drawn))
	for _, n := range drawn {
		set[n] = true
	}
	return set
}
