package types

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/aunum/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// EpisodeStats summarizes one completed episode.
type EpisodeStats struct {
	Episode    int
	Length     int
	Reward     float64
	StepsDone  int
	Epsilon    float64
	MemorySize int
}

type AgentConfig struct {
	// discount factor, in (0,1)
	Gamma float64
	// capacity of the replay memory
	MemorySize int
	// mini batch size for one optimization step
	BatchSize int
	// steps between hard target network updates
	TargetUpdateFrequency int
	// when > 0, actions are sampled from a Boltzmann distribution over the
	// Q-values with this temperature instead of epsilon-greedy
	Temperature float64
	// builds the optimizer against a model, also used on checkpoint load
	NewOptimizer OptimizerConstructor
	// checkpoint persistence, may be nil when checkpointing is unused
	Store Store
	// seeds the exploration and sampling randomness, 0 means time-based
	Seed int64
	// invoked after every completed episode, may be nil
	OnEpisodeEnd func(EpisodeStats)
}

// Agent orchestrates DQN training: epsilon-greedy action selection,
// transition storage, the optimization step, target network syncs, episode
// bookkeeping and checkpointing. It owns all mutable training state and is
// strictly single-threaded.
type Agent struct {
	config      *AgentConfig
	env         Environment
	exploration Schedule

	policyNet Model
	targetNet Model
	optimizer Optimizer
	memory    *ReplayMemory
	rng       *rand.Rand

	stepsDone      int
	episodesDone   int
	episodeRewards []float64
	episodeLengths []int
}

// NewAgent constructs an agent around the given policy network. The target
// network is derived once as an independent value copy of the model.
func NewAgent(model Model, env Environment, exploration Schedule, config *AgentConfig) *Agent {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	target := model.CloneIndependent()
	model.SetTraining(true)
	target.SetTraining(false)

	return &Agent{
		config:         config,
		env:            env,
		exploration:    exploration,
		policyNet:      model,
		targetNet:      target,
		optimizer:      config.NewOptimizer(model),
		memory:         NewReplayMemory(config.MemorySize, rng),
		rng:            rng,
		episodeRewards: make([]float64, 0),
		episodeLengths: make([]int, 0),
	}
}

// SelectAction picks an action for the state with an epsilon-greedy policy.
// Epsilon is read at the pre-increment step count, then the counter advances.
// Ties between maximal Q-values resolve to the lowest action index. The
// returned Q-value is that of the chosen action, greedy or not.
func (a *Agent) SelectAction(state []float64) (int, float64) {
	e := a.exploration.Value(a.stepsDone)
	a.stepsDone++

	qValues := a.policyNet.Evaluate(state)
	var action int
	switch {
	case a.config.Temperature > 0:
		action = a.sampleBoltzmann(qValues)
	case a.rng.Float64() > e:
		action = argmax(qValues)
	default:
		action = a.rng.Intn(a.env.ActionCount())
	}
	return action, qValues[action]
}

// sampleBoltzmann draws an action with probability proportional to
// exp(q/temperature).
func (a *Agent) sampleBoltzmann(qValues []float64) int {
	weights := make([]float64, len(qValues))
	sum := float64(0)
	for i, q := range qValues {
		w := math.Exp(q / a.config.Temperature)
		weights[i] = w
		sum += w
	}
	for i := range weights {
		weights[i] /= sum
	}
	i, ok := sampleuv.NewWeighted(weights, nil).Take()
	if !ok {
		return argmax(qValues)
	}
	return i
}

// OptimizeModel runs one mini-batch update of the policy network. A no-op
// until the replay memory holds at least one full batch.
func (a *Agent) OptimizeModel() error {
	if a.memory.Size() < a.config.BatchSize {
		return nil
	}
	batch, err := a.memory.Sample(a.config.BatchSize)
	if err != nil {
		return err
	}

	batchSize := len(batch)
	stateDim := len(batch[0].State)
	states := mat.NewDense(batchSize, stateDim, nil)
	for i, tr := range batch {
		states.SetRow(i, tr.State)
	}

	// gradient-tracked forward pass over the sampled states
	qValues := a.policyNet.Forward(states)
	targets := a.tdTargets(batch)

	// mean squared error over the chosen actions only; each sampled entry
	// contributes gradient 2*(q - y)/batch at its action index
	_, actionCount := qValues.Dims()
	grad := mat.NewDense(batchSize, actionCount, nil)
	for i, tr := range batch {
		q := qValues.At(i, tr.Action)
		grad.Set(i, tr.Action, 2*(q-targets[i])/float64(batchSize))
	}

	a.policyNet.Backward(grad)
	a.optimizer.Step()
	a.optimizer.ClearGradients()
	return nil
}

// tdTargets computes the one-step bootstrapped target for every transition
// in the batch: y = r + gamma * max_a' Q_target(s', a'), with terminal
// entries contributing y = r. The target network runs without gradient
// tracking.
func (a *Agent) tdTargets(batch []Transition) []float64 {
	nonFinalMask := make([]bool, len(batch))
	nonFinal := make([][]float64, 0, len(batch))
	for i, tr := range batch {
		if !tr.IsTerminal() {
			nonFinalMask[i] = true
			nonFinal = append(nonFinal, tr.NextState)
		}
	}

	nextValues := make([]float64, len(batch))
	if len(nonFinal) > 0 {
		nextStates := mat.NewDense(len(nonFinal), len(nonFinal[0]), nil)
		for i, s := range nonFinal {
			nextStates.SetRow(i, s)
		}
		nextQ := a.targetNet.EvaluateBatch(nextStates)
		row := 0
		for i := range batch {
			if nonFinalMask[i] {
				q := mat.Row(nil, row, nextQ)
				nextValues[i] = q[argmax(q)]
				row++
			}
		}
	}

	targets := make([]float64, len(batch))
	for i, tr := range batch {
		targets[i] = tr.Reward + a.config.Gamma*nextValues[i]
	}
	return targets
}

// syncTarget overwrites the target network with the policy network's
// current parameters.
func (a *Agent) syncTarget() error {
	return a.targetNet.ImportParameters(a.policyNet.ExportParameters())
}

// TrainOneEpisode runs a single episode of at most maxEpisodeSteps steps.
// A transition is stored with a nil next state exactly when the episode
// ends, whether the environment reported done or the step limit was hit.
func (a *Agent) TrainOneEpisode(maxEpisodeSteps, saveFreq int) error {
	state := cloneVector(a.env.Reset())
	totalReward := float64(0)

	for step := 1; step <= maxEpisodeSteps; step++ {
		action, q := a.SelectAction(state)
		obs, reward, done, _ := a.env.Step(action)
		totalReward += reward

		terminal := done || step == maxEpisodeSteps
		var nextState []float64
		if !terminal {
			nextState = cloneVector(obs)
		}
		a.memory.Push(Transition{State: state, Action: action, NextState: nextState, Reward: reward})

		if err := a.OptimizeModel(); err != nil {
			return err
		}
		if a.stepsDone%a.config.TargetUpdateFrequency == 0 {
			if err := a.syncTarget(); err != nil {
				return err
			}
		}

		if terminal {
			a.episodesDone++
			a.episodeRewards = append(a.episodeRewards, totalReward)
			a.episodeLengths = append(a.episodeLengths, step)
			e := a.exploration.Value(a.stepsDone)
			log.Debugf("episode %d ended: reward=%.3f steps=%d last_q=%.3f total_steps=%d e=%.3f",
				a.episodesDone, totalReward, step, q, a.stepsDone, e)
			if a.config.OnEpisodeEnd != nil {
				a.config.OnEpisodeEnd(EpisodeStats{
					Episode:    a.episodesDone,
					Length:     step,
					Reward:     totalReward,
					StepsDone:  a.stepsDone,
					Epsilon:    e,
					MemorySize: a.memory.Size(),
				})
			}
			if saveFreq > 0 && a.episodesDone%saveFreq == 0 {
				if _, err := a.SaveCheckpoint(); err != nil {
					return err
				}
			}
			return nil
		}
		state = nextState
	}
	return nil
}

// Train runs episodes until numEpisodes have completed, then saves a final
// checkpoint if a store is configured.
func (a *Agent) Train(numEpisodes, maxEpisodeSteps, saveFreq int) error {
	for a.episodesDone < numEpisodes {
		if err := a.TrainOneEpisode(maxEpisodeSteps, saveFreq); err != nil {
			return err
		}
	}
	if a.config.Store != nil {
		if _, err := a.SaveCheckpoint(); err != nil {
			return err
		}
	}
	return nil
}

// SaveCheckpoint writes the trainer-state and replay-memory artifacts under
// a fresh timestamp tag and returns the tag.
func (a *Agent) SaveCheckpoint() (string, error) {
	if a.config.Store == nil {
		return "", errors.New("agent has no checkpoint store configured")
	}
	tag := time.Now().UTC().Format(CheckpointTagFormat)
	state := &TrainerState{
		EpisodesDone:     a.episodesDone,
		StepsDone:        a.stepsDone,
		PolicyParameters: a.policyNet.ExportParameters(),
		TargetParameters: a.targetNet.ExportParameters(),
		OptimizerState:   a.optimizer.ExportState(),
		EpisodeRewards:   a.episodeRewards,
		EpisodeLengths:   a.episodeLengths,
	}
	if err := a.config.Store.SaveTrainerState(tag, state); err != nil {
		return "", err
	}
	if err := a.config.Store.SaveMemory(tag, a.memory.Snapshot()); err != nil {
		return "", err
	}
	log.Infof("saved checkpoint %s after episode %d", tag, a.episodesDone)
	return tag, nil
}

// LoadCheckpoint restores the agent from the artifacts saved under tag.
// With dataOnly only the episode statistics are restored. Otherwise the
// counters and statistics are restored, the policy network parameters are
// loaded and copied into the target network, and the optimizer is rebuilt
// against the restored policy network before its saved state is imported,
// so the saved learning rate wins over the constructor default. With
// loadMemory the replay memory is restored from the matching artifact.
func (a *Agent) LoadCheckpoint(tag string, dataOnly, loadMemory bool) error {
	state, err := a.config.Store.LoadTrainerState(tag)
	if err != nil {
		return err
	}
	log.Infof("loading checkpoint %s", tag)

	a.episodeRewards = state.EpisodeRewards
	a.episodeLengths = state.EpisodeLengths
	if dataOnly {
		return nil
	}

	a.episodesDone = state.EpisodesDone
	a.stepsDone = state.StepsDone

	if err := a.policyNet.ImportParameters(state.PolicyParameters); err != nil {
		return err
	}
	// the target network is re-derived from the restored policy parameters
	// rather than loaded from its own snapshot
	if err := a.targetNet.ImportParameters(state.PolicyParameters); err != nil {
		return err
	}
	a.policyNet.SetTraining(true)
	a.targetNet.SetTraining(false)

	a.optimizer = a.config.NewOptimizer(a.policyNet)
	if err := a.optimizer.ImportState(state.OptimizerState); err != nil {
		return err
	}

	if loadMemory {
		memory, err := a.config.Store.LoadMemory(tag)
		if err != nil {
			return err
		}
		a.memory.Restore(memory)
	}
	return nil
}

func (a *Agent) StepsDone() int            { return a.stepsDone }
func (a *Agent) EpisodesDone() int         { return a.episodesDone }
func (a *Agent) EpisodeRewards() []float64 { return a.episodeRewards }
func (a *Agent) EpisodeLengths() []int     { return a.episodeLengths }
func (a *Agent) Memory() *ReplayMemory     { return a.memory }

func (a *Agent) PolicyParameters() ParameterSnapshot { return a.policyNet.ExportParameters() }
func (a *Agent) TargetParameters() ParameterSnapshot { return a.targetNet.ExportParameters() }

// argmax returns the index of the largest value, lowest index on ties.
func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
