package companion

// Species is the companion's cosmetic lineage. It never affects the
// state machine; it only selects art on the client.
type Species string

const (
	SpeciesNebulaSprite  Species = "nebula_sprite"
	SpeciesStarCrawler   Species = "star_crawler"
	SpeciesVoidWisp      Species = "void_wisp"
	SpeciesCosmicBlob    Species = "cosmic_blob"
	SpeciesQuantumBeetle Species = "quantum_beetle"
)

// IsValid reports whether s is a known species.
func (s Species) IsValid() bool {
	switch s {
	case SpeciesNebulaSprite, SpeciesStarCrawler, SpeciesVoidWisp, SpeciesCosmicBlob, SpeciesQuantumBeetle:
		return true
	default:
		return false
	}
}

// SpeciesOrDefault returns s when valid, SpeciesNebulaSprite otherwise.
func SpeciesOrDefault(s Species) Species {
	if s.IsValid() {
		return s
	}
	return SpeciesNebulaSprite
}

// Mood is the companion's derived emotional state, recomputed from the
// vitality axes after every mutation. There is no hysteresis.
type Mood string

const (
	MoodRadiant    Mood = "radiant"
	MoodContent    Mood = "content"
	MoodDimming    Mood = "dimming"
	MoodFlickering Mood = "flickering"
	MoodEclipse    Mood = "eclipse"
)

// Stage is the companion's maturity tier, a monotone function of level.
type Stage string

const (
	StageEgg       Stage = "egg"
	StageHatching  Stage = "hatching"
	StageBaby      Stage = "baby"
	StageLarvae    Stage = "larvae"
	StageYoung     Stage = "young"
	StageJuvenile  Stage = "juvenile"
	StageTeen      Stage = "teen"
	StageMaturing  Stage = "maturing"
	StageAdult     Stage = "adult"
	StagePrime     Stage = "prime"
	StageElder     Stage = "elder"
	StageCelestial Stage = "celestial"
)

// stageEntries is the ordered level→stage mapping, ascending by the
// level at which each stage is entered. StageForLevel scans it from the
// top; NextEvolutionLevel walks it forward.
var stageEntries = []struct {
	EntryLevel int
	Stage      Stage
}{
	{1, StageEgg},
	{2, StageHatching},
	{3, StageBaby},
	{5, StageLarvae},
	{7, StageYoung},
	{9, StageJuvenile},
	{11, StageTeen},
	{15, StageMaturing},
	{20, StageAdult},
	{30, StagePrime},
	{40, StageElder},
	{50, StageCelestial},
}

// StageForLevel returns the stage implied by a level. The highest
// qualifying entry wins; anything below level 2 is still an egg.
func StageForLevel(level int) Stage {
	for i := len(stageEntries) - 1; i >= 0; i-- {
		if level >= stageEntries[i].EntryLevel {
			return stageEntries[i].Stage
		}
	}
	return StageEgg
}

// NextEvolutionLevel returns the level at which the companion's stage
// next changes. At the terminal stage it returns the current level,
// meaning no further evolution remains.
func NextEvolutionLevel(level int) int {
	for _, e := range stageEntries {
		if e.EntryLevel > level {
			return e.EntryLevel
		}
	}
	return level
}
