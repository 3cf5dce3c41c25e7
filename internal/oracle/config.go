package oracle

// Config controls the oracle's generation parameters.
type Config struct {
	// QuestionMaxTokens is the token budget for question generation.
	QuestionMaxTokens int

	// QuestionTemperature controls question variety.
	QuestionTemperature float64

	// EvalMaxTokens is the token budget for answer evaluation.
	EvalMaxTokens int

	// EvalTemperature keeps evaluation near-deterministic.
	EvalTemperature float64

	// HintMaxTokens is the token budget for hint generation.
	HintMaxTokens int

	// HintTemperature controls hint phrasing variety.
	HintTemperature float64
}

// DefaultConfig returns the recommended parameters.
func DefaultConfig() Config {
	return Config{
		QuestionMaxTokens:   600,
		QuestionTemperature: 0.8,
		EvalMaxTokens:       200,
		EvalTemperature:     0.3,
		HintMaxTokens:       100,
		HintTemperature:     0.7,
	}
}
