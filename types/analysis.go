package types

import (
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/pointW/rdd-rl/util"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Generic dataset obtained after processing the episode statistics
type DataSet interface{}

// Analyzer compresses the episode statistics of one experiment to a DataSet
type Analyzer func(rewards []float64, lengths []int) DataSet

// Comparator differentiates between datasets with associated experiment names
type Comparator func(names []string, datasets []DataSet)

// EpisodeRewards returns the raw per-episode reward curve.
func EpisodeRewards() Analyzer {
	return func(rewards []float64, _ []int) DataSet {
		out := make([]float64, len(rewards))
		copy(out, rewards)
		return out
	}
}

// MovingAverageRewards smooths the reward curve with a trailing window.
func MovingAverageRewards(window int) Analyzer {
	return func(rewards []float64, _ []int) DataSet {
		out := make([]float64, len(rewards))
		sum := float64(0)
		for i, r := range rewards {
			sum += r
			if i >= window {
				sum -= rewards[i-window]
				out[i] = sum / float64(window)
			} else {
				out[i] = sum / float64(i+1)
			}
		}
		return out
	}
}

// EpisodeLengths returns the per-episode step counts as floats.
func EpisodeLengths() Analyzer {
	return func(_ []float64, lengths []int) DataSet {
		out := make([]float64, len(lengths))
		for i, l := range lengths {
			out[i] = float64(l)
		}
		return out
	}
}

// RewardPlotter saves a line plot comparing the reward curves of the
// experiments under plotPath.
func RewardPlotter(plotPath, name string) Comparator {
	if _, err := os.Stat(plotPath); err != nil {
		os.MkdirAll(plotPath, os.ModePerm)
	}
	return func(names []string, datasets []DataSet) {
		p := plot.New()
		p.Title.Text = "Episode rewards"
		p.X.Label.Text = "Episode"
		p.Y.Label.Text = "Reward"
		for i := 0; i < len(names); i++ {
			curve, ok := datasets[i].([]float64)
			if !ok {
				continue
			}
			points := make(plotter.XYs, len(curve))
			for j, v := range curve {
				points[j] = plotter.XY{
					X: float64(j),
					Y: v,
				}
			}
			line, err := plotter.NewLine(points)
			if err != nil {
				continue
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(names[i], line)
		}
		p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, name+"_rewards.png"))
	}
}

// SummaryPrinter prints mean, standard deviation and best reward per
// experiment.
func SummaryPrinter() Comparator {
	return func(names []string, datasets []DataSet) {
		for i, name := range names {
			curve, ok := datasets[i].([]float64)
			if !ok || len(curve) == 0 {
				continue
			}
			mean, std := stat.MeanStdDev(curve, nil)
			fmt.Printf("Experiment %s: episodes=%d mean=%.3f std=%.3f best=%.3f\n",
				name, len(curve), mean, std, slices.Max(curve))
		}
	}
}

// CSVRecorder appends one line per episode to a per-experiment file under
// recordPath.
func CSVRecorder(recordPath string) Comparator {
	if _, err := os.Stat(recordPath); err != nil {
		os.MkdirAll(recordPath, os.ModePerm)
	}
	return func(names []string, datasets []DataSet) {
		for i, name := range names {
			curve, ok := datasets[i].([]float64)
			if !ok {
				continue
			}
			lines := make([]string, len(curve))
			for j, v := range curve {
				lines[j] = strconv.Itoa(j) + "," + strconv.FormatFloat(v, 'f', -1, 64)
			}
			util.WriteToFile(path.Join(recordPath, name+"_rewards.csv"), lines...)
		}
	}
}
