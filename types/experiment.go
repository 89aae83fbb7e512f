package types

import "fmt"

// RunConfig carries the execution parameters shared by all experiments of a
// comparison.
type RunConfig struct {
	Episodes        int
	MaxEpisodeSteps int
	SaveFreq        int
}

// Experiment wraps one agent under a name so its training run can be
// analyzed and compared against others.
type Experiment struct {
	Name  string
	agent *Agent
}

func NewExperiment(name string, agent *Agent) *Experiment {
	return &Experiment{
		Name:  name,
		agent: agent,
	}
}

// Run trains the agent for the configured number of episodes, printing a
// progress line per episode.
func (e *Experiment) Run(config *RunConfig) error {
	fmt.Printf("Running Experiment: %s\n", e.Name)
	for e.agent.episodesDone < config.Episodes {
		if err := e.agent.TrainOneEpisode(config.MaxEpisodeSteps, config.SaveFreq); err != nil {
			return err
		}
		last := len(e.agent.episodeRewards) - 1
		fmt.Printf("\rExperiment: %s, Episode: %d/%d, Reward: %.3f, Steps: %d",
			e.Name, e.agent.episodesDone, config.Episodes,
			e.agent.episodeRewards[last], e.agent.stepsDone)
	}
	fmt.Println("")
	if e.agent.config.Store != nil {
		if _, err := e.agent.SaveCheckpoint(); err != nil {
			return err
		}
	}
	return nil
}

// Comparison trains several experiments under the same run configuration
// and feeds their episode statistics through an analyzer into comparators.
type Comparison struct {
	Experiments []*Experiment
	analyzer    Analyzer
	comparators []Comparator
}

func NewComparison(analyzer Analyzer, comparators ...Comparator) *Comparison {
	return &Comparison{
		Experiments: make([]*Experiment, 0),
		analyzer:    analyzer,
		comparators: comparators,
	}
}

func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

// Run executes the experiments in order and invokes every comparator on the
// collected datasets.
func (c *Comparison) Run(config *RunConfig) error {
	datasets := make([]DataSet, len(c.Experiments))
	names := make([]string, len(c.Experiments))
	for i, e := range c.Experiments {
		if err := e.Run(config); err != nil {
			return err
		}
		datasets[i] = c.analyzer(e.agent.episodeRewards, e.agent.episodeLengths)
		names[i] = e.Name
	}
	for _, comp := range c.comparators {
		comp(names, datasets)
	}
	return nil
}
