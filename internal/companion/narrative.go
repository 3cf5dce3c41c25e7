package companion

import "fmt"

// StateDescription is the read-model for the pet state endpoint.
type StateDescription struct {
	Narrative       string `json:"narrative"`
	Mood            Mood   `json:"mood"`
	Stage           Stage  `json:"stage"`
	Level           int    `json:"level"`
	NextEvolutionAt int    `json:"next_evolution_at"`
}

// Describe renders the companion's current state as a short narrative.
func (c *Companion) Describe() StateDescription {
	return StateDescription{
		Narrative:       narrativeFor(c.Name, c.Mood),
		Mood:            c.Mood,
		Stage:           c.Stage,
		Level:           c.Level,
		NextEvolutionAt: NextEvolutionLevel(c.Level),
	}
}

func narrativeFor(name string, mood Mood) string {
	switch mood {
	case MoodRadiant:
		return fmt.Sprintf("%s glows brilliantly, trailing stardust as it orbits you with delight.", name)
	case MoodContent:
		return fmt.Sprintf("%s hums a soft cosmic tune, pleased with your dedication.", name)
	case MoodDimming:
		return fmt.Sprintf("%s drifts slowly, its light starting to fade. Some practice would cheer it up.", name)
	case MoodFlickering:
		return fmt.Sprintf("%s flickers weakly, hungry for knowledge. It misses your attention.", name)
	default:
		return fmt.Sprintf("%s has gone dark, curled into a silent eclipse. Only study can rekindle it.", name)
	}
}
