package gameplay

import (
	"fmt"

	"github.com/fastprodman/finrecon/internal/domain"
	"github.com/fastprodman/finrecon/internal/repos/gameplay"
)

var _ gameplay.Gameplay = (*gameplayRepo)(nil)

type gameplayRepo struct{}

func New() *gameplayRepo {
	return &gameplayRepo{}
}

// Table names are fixed here and never come from input.
var lineTables = map[domain.ProductLine]string{
	domain.LineScratch: "scratch_plays",
	domain.LineRaffle:  "raffle_tickets",
}

func tableFor(line domain.ProductLine) (string, error) {
	table, ok := lineTables[line]
	if !ok {
		return "", fmt.Errorf("%w: %q", gameplay.ErrUnknownLine, line)
	}

	return table, nil
}
