package datarecording

import (
	"context"
)

// A RunReport summarizes one recorded run.
type RunReport struct {
	RunID   string
	Frames  uint64
	Fired   int
	Pending int

	// Kinds lists the recorded events in the order they first fired.
	Kinds  []string
	Counts map[string]int
}

// ReadRunReports reads the tables written by FireTracer and summarizes every
// run they contain, in recording order.
func ReadRunReports(
	ctx context.Context,
	reader DataReader,
) ([]*RunReport, error) {
	reader.MapTable(FrameTable, FrameEntry{})
	reader.MapTable(FiredTable, FiredEntry{})

	var reports []*RunReport

	byID := make(map[string]*RunReport)
	report := func(runID string) *RunReport {
		r, ok := byID[runID]
		if !ok {
			r = &RunReport{RunID: runID, Counts: make(map[string]int)}
			byID[runID] = r
			reports = append(reports, r)
		}

		return r
	}

	frames, _, err := reader.Query(ctx, FrameTable,
		QueryParams{OrderBy: "rowid"})
	if err != nil {
		return nil, err
	}

	for _, row := range frames {
		entry := row.(*FrameEntry)
		r := report(entry.RunID)
		r.Frames = max(r.Frames, entry.Frame)
		r.Fired += entry.Fired
		r.Pending = entry.Pending
	}

	fired, _, err := reader.Query(ctx, FiredTable,
		QueryParams{OrderBy: "rowid"})
	if err != nil {
		return nil, err
	}

	for _, row := range fired {
		entry := row.(*FiredEntry)
		r := report(entry.RunID)

		if _, seen := r.Counts[entry.Event]; !seen {
			r.Kinds = append(r.Kinds, entry.Event)
		}

		r.Counts[entry.Event]++
	}

	return reports, nil
}
