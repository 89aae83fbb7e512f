package benchmarks

import (
	"github.com/spf13/cobra"

	"github.com/pointW/rdd-rl/exploration"
	"github.com/pointW/rdd-rl/grid"
	"github.com/pointW/rdd-rl/network"
	"github.com/pointW/rdd-rl/types"
)

// CompareCommand trains one agent per exploration strategy on the same grid
// and plots their reward curves against each other.
func CompareCommand() *cobra.Command {
	var height int
	var width int
	var temperature float64

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare exploration strategies on the grid world",
		RunE: func(cmd *cobra.Command, args []string) error {
			comparison := types.NewComparison(
				types.MovingAverageRewards(20),
				types.RewardPlotter(saveDir, "compare"),
				types.SummaryPrinter(),
			)

			schedules := map[string]types.Schedule{
				"linear":      &exploration.LinearDecay{Start: 1.0, End: 0.05, Steps: 10000},
				"exponential": &exploration.ExponentialDecay{Start: 1.0, End: 0.05, Decay: 3000},
				"constant":    exploration.Constant(0.1),
			}
			for name, schedule := range schedules {
				comparison.AddExperiment(types.NewExperiment(name, newCompareAgent(schedule, 0, height, width)))
			}
			// boltzmann selection ignores epsilon, the schedule is unused
			comparison.AddExperiment(types.NewExperiment(
				"boltzmann", newCompareAgent(exploration.Constant(0), temperature, height, width)))

			return comparison.Run(&types.RunConfig{
				Episodes:        episodes,
				MaxEpisodeSteps: maxEpisodeSteps,
				SaveFreq:        0,
			})
		},
	}
	cmd.Flags().IntVar(&height, "height", 8, "Height of the grid")
	cmd.Flags().IntVar(&width, "width", 8, "Width of the grid")
	cmd.Flags().Float64Var(&temperature, "temperature", 0.5, "Temperature of the boltzmann experiment")
	return cmd
}

func newCompareAgent(schedule types.Schedule, temperature float64, height, width int) *types.Agent {
	env := grid.New(height, width)
	model := network.NewMLP([]int{env.ObservationSize(), 128, 64, env.ActionCount()}, seed)
	config := newAgentConfig(nil)
	config.Temperature = temperature
	return types.NewAgent(model, env, schedule, config)
}
