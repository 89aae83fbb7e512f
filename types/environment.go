package types

// Environment advances a simulated system given discrete actions.
// Observations are dense feature vectors. A nil observation together with
// done means the episode reached a state with no successor.
type Environment interface {
	// Reset starts a new episode and returns the initial observation
	Reset() []float64
	// Step applies an action and returns the next observation, the reward,
	// whether the episode ended and auxiliary info
	Step(action int) (obs []float64, reward float64, done bool, info map[string]string)
	// ActionCount is the size of the discrete action space
	ActionCount() int
}

// Schedule maps the cumulative step count to an exploration rate in [0,1].
// Must be deterministic, the agent reads it once per action selection.
type Schedule interface {
	Value(step int) float64
}
