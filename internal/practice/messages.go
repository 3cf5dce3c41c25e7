package practice

import (
	"fmt"
	"math/rand/v2"

	"github.com/kcitlyn/Astrarium1/internal/companion"
)

// petMessage picks a flavor line for the companion's reaction. The rng
// is injected so the orchestrator's state transitions stay
// deterministic under test.
func petMessage(rng *rand.Rand, pet *companion.Companion, correct bool, wrongStreak int, luminosityChange float64) string {
	var options []string

	switch {
	case correct && luminosityChange >= 5:
		options = []string{
			fmt.Sprintf("%s feeds on your knowledge! Health +%.0f!", pet.Name, luminosityChange),
			fmt.Sprintf("%s glows brighter! Health at %.0f%%!", pet.Name, pet.Luminosity),
		}
	case correct:
		options = []string{
			fmt.Sprintf("%s is already at max health! Keep it up!", pet.Name),
		}
	case wrongStreak >= 2:
		options = []string{
			fmt.Sprintf("%s suffers! 2 wrong in a row! Health %.0f", pet.Name, luminosityChange),
			fmt.Sprintf("%s dims significantly! Study harder!", pet.Name),
		}
	default:
		options = []string{
			fmt.Sprintf("%s dims slightly (Health %.0f)", pet.Name, luminosityChange),
			fmt.Sprintf("%s encourages: Learn from this! Review the explanation.", pet.Name),
		}
	}

	return options[rng.IntN(len(options))]
}
