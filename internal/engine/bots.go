package engine

import (
	"fmt"

	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/bingo"
	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/rng"
)

// botSeedBase offsets the per-room bot generator so bot rosters differ
// between rooms but stay identical run to run.
const botSeedBase = 1000

// SeedBots populates every room with a deterministic roster of three to
// six bots, each ready with a card already picked. Bots keep their card
// and readiness across round resets, which keeps rooms above the start
// threshold without real players. Call before Run and before subscribing;
// seeding does not publish events.
func (e *Engine) SeedBots() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, id := range e.order {
		r := e.rooms[id]
		gen := rng.New(uint32(botSeedBase + i))
		count := 3 + int(gen.Float64()*4)
		for b := 0; b < count; b++ {
			r.players = append(r.players, &Player{
				ID:     fmt.Sprintf("%s-bot-%d", id, b),
				Name:   fmt.Sprintf("Bot%d", b+1),
				Bot:    true,
				Ready:  true,
				CardID: bingo.MinCardID + int(gen.Float64()*float64(bingo.MaxCardID)),
			})
		}
		r.recalcPrizePool()
		e.logger.Debug("seeded bots", "room", id, "count", count)
	}
}
