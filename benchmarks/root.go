package benchmarks

import (
	"github.com/spf13/cobra"

	"github.com/pointW/rdd-rl/checkpoint"
	"github.com/pointW/rdd-rl/network"
	"github.com/pointW/rdd-rl/types"
)

var (
	episodes        int
	maxEpisodeSteps int
	saveDir         string
	saveFreq        int
	batchSize       int
	memorySize      int
	gamma           float64
	targetUpdate    int
	learningRate    float64
	seed            int64
	redisAddr       string
	monitorAddr     string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{Use: "rdd-rl"}
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", 500, "Number of episodes to train for")
	rootCommand.PersistentFlags().IntVar(&maxEpisodeSteps, "max-steps", 100, "Max steps of each episode")
	rootCommand.PersistentFlags().StringVarP(&saveDir, "save", "s", "results", "Directory for checkpoints and result data")
	rootCommand.PersistentFlags().IntVar(&saveFreq, "save-freq", 100, "Episodes between checkpoints")
	rootCommand.PersistentFlags().IntVar(&batchSize, "batch-size", 64, "Mini batch size for one optimization step")
	rootCommand.PersistentFlags().IntVar(&memorySize, "memory-size", 100000, "Capacity of the replay memory")
	rootCommand.PersistentFlags().Float64Var(&gamma, "gamma", 0.99, "Discount factor")
	rootCommand.PersistentFlags().IntVar(&targetUpdate, "target-update", 1000, "Steps between target network syncs")
	rootCommand.PersistentFlags().Float64Var(&learningRate, "lr", network.DefaultLearningRate, "Optimizer learning rate")
	rootCommand.PersistentFlags().Int64Var(&seed, "seed", 0, "Random seed, 0 picks a time-based seed")
	rootCommand.PersistentFlags().StringVar(&redisAddr, "redis", "", "Store checkpoints in redis at this address instead of on disk")
	rootCommand.PersistentFlags().StringVar(&monitorAddr, "monitor", "", "Serve live training stats over HTTP on this address")
	// adding the subcommands here
	rootCommand.AddCommand(GridCommand())
	rootCommand.AddCommand(ResumeCommand())
	rootCommand.AddCommand(CompareCommand())
	return rootCommand
}

// newStore picks the checkpoint backend from the flags.
func newStore() (types.Store, error) {
	if redisAddr != "" {
		return checkpoint.NewRedisStore(redisAddr), nil
	}
	return checkpoint.NewFileStore(saveDir)
}

// newAgentConfig builds the agent configuration shared by the commands.
func newAgentConfig(store types.Store) *types.AgentConfig {
	return &types.AgentConfig{
		Gamma:                 gamma,
		MemorySize:            memorySize,
		BatchSize:             batchSize,
		TargetUpdateFrequency: targetUpdate,
		NewOptimizer: func(m types.Model) types.Optimizer {
			return network.NewAdam(m, learningRate)
		},
		Store: store,
		Seed:  seed,
	}
}
