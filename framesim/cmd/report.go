package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/framesim/datarecording"
)

var errNoRecording = errors.New("a recording is required, set it with --record")

func newReportCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Summarize the runs stored in a recording.",
		Long: `report reads the SQLite file written by --record and prints ` +
			`the frames, fired events, and pending events of every run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.cfg.Record == "" {
				return errNoRecording
			}

			file := opts.cfg.Record + ".sqlite3"
			if _, err := os.Stat(file); err != nil {
				return fmt.Errorf("report: %w", err)
			}

			reader := datarecording.NewReader(file)
			defer reader.Close()

			reports, err := datarecording.ReadRunReports(cmd.Context(), reader)
			if err != nil {
				return fmt.Errorf("report: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, r := range reports {
				fmt.Fprintf(out, "%s: %d frames, %d events fired, %d pending\n",
					r.RunID, r.Frames, r.Fired, r.Pending)

				for _, kind := range r.Kinds {
					fmt.Fprintf(out, "  %s: %d\n", kind, r.Counts[kind])
				}
			}

			opts.logger.Debug().Int("runs", len(reports)).
				Str("file", file).Msg("report printed")

			return nil
		},
	}
}
