package benchmarks

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"github.com/pointW/rdd-rl/exploration"
	"github.com/pointW/rdd-rl/grid"
	"github.com/pointW/rdd-rl/monitor"
	"github.com/pointW/rdd-rl/network"
	"github.com/pointW/rdd-rl/types"
)

func ResumeCommand() *cobra.Command {
	var height int
	var width int
	var epsStart float64
	var epsEnd float64
	var epsSteps int
	var dataOnly bool
	var skipMemory bool

	cmd := &cobra.Command{
		Use:   "resume <tag>",
		Short: "Resume grid-world training from a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag := args[0]
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

			if err := agent.LoadCheckpoint(tag, dataOnly, !skipMemory); err != nil {
				return err
			}
			if dataOnly {
				rewards := agent.EpisodeRewards()
				if len(rewards) == 0 {
					fmt.Printf("Checkpoint %s holds no completed episodes\n", tag)
					return nil
				}
				fmt.Printf("Checkpoint %s: episodes=%d best_reward=%.3f\n",
					tag, len(rewards), slices.Max(rewards))
				return nil
			}
			return agent.Train(episodes, maxEpisodeSteps, saveFreq)
		},
	}
	cmd.Flags().IntVar(&height, "height", 8, "Height of the grid")
	cmd.Flags().IntVar(&width, "width", 8, "Width of the grid")
	cmd.Flags().Float64Var(&epsStart, "eps-start", 1.0, "Initial exploration rate")
	cmd.Flags().Float64Var(&epsEnd, "eps-end", 0.05, "Final exploration rate")
	cmd.Flags().IntVar(&epsSteps, "eps-steps", 10000, "Steps over which the exploration rate decays")
	cmd.Flags().BoolVar(&dataOnly, "data-only", false, "Only restore the episode statistics and print a summary")
	cmd.Flags().BoolVar(&skipMemory, "skip-memory", false, "Do not restore the replay memory")
	return cmd
}
