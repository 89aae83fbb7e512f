package benchmarks

import (
	"fmt"
	"path"
	"time"

	"github.com/spf13/cobra"

	"github.com/pointW/rdd-rl/exploration"
	"github.com/pointW/rdd-rl/grid"
	"github.com/pointW/rdd-rl/monitor"
	"github.com/pointW/rdd-rl/network"
	"github.com/pointW/rdd-rl/types"
	"github.com/pointW/rdd-rl/util"
)

func GridCommand() *cobra.Command {
	var height int
	var width int
	var epsStart float64
	var epsEnd float64
	var epsSteps int

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Train a DQN agent on the grid world",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStore()
			if err != nil {
				return err
			}

			env := grid.New(height, width)
			schedule := &exploration.LinearDecay{Start: epsStart, End: epsEnd, Steps: epsSteps}
			model := network.NewMLP([]int{env.ObservationSize(), 128, 64, env.ActionCount()}, seed)

			config := newAgentConfig(store)
			if monitorAddr != "" {
				mon := monitor.NewServer(monitorAddr)
				mon.Start()
				defer mon.Stop()
				config.OnEpisodeEnd = mon.Publish
			}
			agent := types.NewAgent(model, env, schedule, config)

			comparison := types.NewComparison(
				types.MovingAverageRewards(20),
				types.RewardPlotter(saveDir, "grid"),
				types.CSVRecorder(saveDir),
				types.SummaryPrinter(),
			)
			comparison.AddExperiment(types.NewExperiment("grid", agent))
			if err := comparison.Run(&types.RunConfig{
				Episodes:        episodes,
				MaxEpisodeSteps: maxEpisodeSteps,
				SaveFreq:        saveFreq,
			}); err != nil {
				return err
			}

			rewards := agent.EpisodeRewards()
			return util.AppendToFile(path.Join(saveDir, "runs.txt"),
				fmt.Sprintf("%s grid %dx%d episodes=%d steps=%d last_reward=%.3f",
					time.Now().UTC().Format(time.RFC3339), height, width,
					len(rewards), agent.StepsDone(), rewards[len(rewards)-1]))
		},
	}
	cmd.Flags().IntVar(&height, "height", 8, "Height of the grid")
	cmd.Flags().IntVar(&width, "width", 8, "Width of the grid")
	cmd.Flags().Float64Var(&epsStart, "eps-start", 1.0, "Initial exploration rate")
	cmd.Flags().Float64Var(&epsEnd, "eps-end", 0.05, "Final exploration rate")
	cmd.Flags().IntVar(&epsSteps, "eps-steps", 10000, "Steps over which the exploration rate decays")
	return cmd
}
