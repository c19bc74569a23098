package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/framesim/config"
	"github.com/sarchlab/framesim/examples/counter"
	"github.com/sarchlab/framesim/examples/drive"
	"github.com/sarchlab/framesim/examples/randomwalk"
	"github.com/sarchlab/framesim/examples/timeline"
	"github.com/sarchlab/framesim/sim/scheduling"
	"github.com/sarchlab/framesim/sim/simulation"
)

func newCounterCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "counter",
		Short: "Count frames with a model that has no event.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			model := &counter.Counter{}

			err := runSimulation(opts, out, "counter", model,
				&counter.Recorder{},
				func(
					s *simulation.Simulator[
						*counter.Counter, *counter.Recorder, counter.NoEvent],
				) error {
					return s.Run(opts.cfg.Frames)
				})
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "count: %d\n", model.Count)

			return nil
		},
	}
}

func newDriveCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "drive",
		Short: "Drive a car until it runs out of fuel or frames.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			car := drive.NewCar(opts.logger)
			recorder := &drive.Recorder{}

			err := runSimulation(opts, out, "drive", car, recorder,
				func(
					s *simulation.Simulator[
						*drive.Car, *drive.Recorder, drive.Event],
				) error {
					return s.RunWhile(func(c *drive.Car) bool {
						return c.Running() && s.Frame() < opts.cfg.Frames
					})
				})
			if err != nil {
				return err
			}

			fmt.Fprintf(out,
				"car %s: time %d, fuel used %d, fuel injected %d, "+
					"distance %d\n",
				car.Status, recorder.Time, recorder.UsedFuel,
				recorder.InjectedFuel, recorder.Distance)

			return nil
		},
	}
}

func newWalkCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "walk",
		Short: "Move walkers that follow different schedules.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			walkers, err := loadWalkers(opts.scenario)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			model := randomwalk.NewWalkerList(walkers...)
			recorder := randomwalk.Recorder{}

			err = runSimulation(opts, out, "walk", model, recorder,
				func(
					s *simulation.Simulator[
						*randomwalk.WalkerList,
						randomwalk.Recorder,
						randomwalk.Walk],
				) error {
					return s.Run(opts.cfg.Frames)
				})
			if err != nil {
				return err
			}

			for i, w := range model.Walkers {
				fmt.Fprintf(out, "%s: %d steps, at (%.2f, %.2f)\n",
					w.Name, len(recorder[i]), w.X, w.Y)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&opts.scenario, "scenario", "",
		"YAML file that lists the walkers")

	return cmd
}

func loadWalkers(scenarioPath string) ([]*randomwalk.Walker, error) {
	if scenarioPath == "" {
		walkers := []*randomwalk.Walker{}
		for _, p := range randomwalk.DefaultPatterns() {
			walkers = append(walkers, randomwalk.NewWalker(p))
		}

		return walkers, nil
	}

	scenario, err := config.LoadScenario(scenarioPath)
	if err != nil {
		return nil, err
	}

	walkers := make([]*randomwalk.Walker, 0, len(scenario.Walkers))

	for _, ws := range scenario.Walkers {
		schedule, err := ws.Build()
		if err != nil {
			return nil, err
		}

		w := randomwalk.NewWalker(schedule)
		w.Name = ws.DisplayName()
		w.Priority = scheduling.Priority(ws.Priority)
		walkers = append(walkers, w)
	}

	return walkers, nil
}

func newTimelineCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline",
		Short: "Show a social feed that refreshes every ten frames.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			model := timeline.NewTimeline(timeline.DefaultAccounts()...)

			return runSimulation(opts, out, "timeline", model,
				&timeline.Feed{Out: out},
				func(
					s *simulation.Simulator[
						*timeline.Timeline, *timeline.Feed, timeline.Event],
				) error {
					return s.Run(opts.cfg.Frames)
				})
		},
	}
}
