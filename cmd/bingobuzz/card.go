package main

import (
	"fmt"

	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/bingo"
	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/tui"
)

// CardCmd prints the card a given identifier generates. Cards are a pure
// function of their ID, so anyone can audit a win by regenerating the
// winner's card.
type CardCmd struct {
	ID    int   `kong:"arg,help='Card identifier (1..100)'"`
	Drawn []int `kong:"help='Mark these drawn numbers on the card'"`
}

func (c *CardCmd) Run() error {
	if c.ID < bingo.MinCardID || c.ID > bingo.MaxCardID {
		return fmt.Errorf("card id must be between %d and %d", bingo.MinCardID, bingo.MaxCardID)
	}

	card := bingo.Generate(c.ID)
	fmt.Printf("card #%d\n", c.ID)
	fmt.Print(tui.RenderCard(card, c.Drawn))

	if len(c.Drawn) > 0 {
		if pattern, won := bingo.Evaluate(card, c.Drawn); won {
			fmt.Printf("winning pattern: %s\n", pattern)
		} else {
			fmt.Println("no winning pattern")
		}
	}
	return nil
}
