package cmd

import (
	"fmt"
	"io"

	"github.com/sarchlab/framesim/datarecording"
	"github.com/sarchlab/framesim/monitoring"
	"github.com/sarchlab/framesim/sim/simulation"
	"github.com/sarchlab/framesim/tracing"
)

// runSimulation builds a simulator for model, attaches the hooks selected by
// the options, and lets drive run the frames.
func runSimulation[M simulation.Model[R, E], R, E any](
	opts *options,
	out io.Writer,
	name string,
	model M,
	recorder R,
	drive func(s *simulation.Simulator[M, R, E]) error,
) error {
	counter := tracing.NewFireCountTracer(tracing.KindByValue)

	s, err := simulation.MakeBuilder[M, R, E]().
		WithModel(model).
		WithRecorder(recorder).
		WithSeed(opts.cfg.Seed).
		WithHook(simulation.NewFrameLogger(opts.logger)).
		WithHook(counter).
		Build()
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	logger := opts.logger.With().Str("model", name).Str("run", s.ID()).Logger()

	if opts.cfg.Record != "" {
		dataRecorder := datarecording.NewDataRecorder(opts.cfg.Record)
		defer dataRecorder.Close()

		s.AcceptHook(datarecording.NewFireTracer(dataRecorder, s.ID()))
		logger.Info().Str("file", opts.cfg.Record+".sqlite3").
			Msg("recording fired events")
	}

	if opts.cfg.Monitor {
		m := monitoring.NewMonitor().WithPortNumber(opts.cfg.MonitorPort)
		if opts.openBrowser {
			m.WithBrowser()
		}

		progress := m.TrackFrames(opts.cfg.Frames)

		m.RegisterSimulation(s, s.Model())
		s.AcceptHook(progress)
		m.StartServer()

		defer m.StopServer()
		defer progress.Complete()
	}

	logger.Info().Uint64("seed", opts.cfg.Seed).Msg("simulation started")

	err = drive(s)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	status := s.Status()
	logger.Info().
		Uint64("frames", status.Frame).
		Uint64("fired", status.FiredTotal).
		Msg("simulation finished")

	printSummary(out, name, status, counter)

	return nil
}

func printSummary(
	out io.Writer,
	name string,
	status simulation.Status,
	counter *tracing.FireCountTracer,
) {
	fmt.Fprintf(out, "%s: %d frames, %d events fired, %d pending\n",
		name, status.Frame, status.FiredTotal, status.Pending)

	for _, kind := range counter.GetKinds() {
		fmt.Fprintf(out, "  %s: %d\n", kind, counter.GetFireCount(kind))
	}
}
