package app

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/alizain-patel/shifts-online/internal/config"
	"github.com/alizain-patel/shifts-online/internal/status"
)

// RunSnapshot performs one full pipeline pass and renders the view as a text
// table on out. It is the renderer collaborator in CLI form.
func RunSnapshot(cfg config.Config, q status.Query, out io.Writer) error {
	logger := zap.L().Named("app.snapshot")

	statusService, err := buildStatusService(cfg, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout())
	defer cancel()

	view, err := statusService.GetView(ctx, q)
	if err != nil {
		logger.Error("snapshot pass failed", zap.Error(err))
		return err
	}

	renderTable(out, view)
	return nil
}

func renderTable(out io.Writer, view status.View) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Name & Status\tDate\tWork mode\tEvent\tTime")
	for _, row := range view.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			row.NameStatus, row.Date, row.WorkMode, row.Event, row.Time)
	}
	w.Flush()

	s := view.Summary
	fmt.Fprintf(out, "\nView: %s · Window: %s", s.View, s.Window)
	if s.WindowStart != "" {
		fmt.Fprintf(out, " (%s → %s)", s.WindowStart, s.WindowEnd)
	}
	fmt.Fprintf(out, "\nRows: %d of %d normalized · dropped: %d\n", s.ViewRows, s.TotalRecords, s.DroppedRecords)
	if s.LastEventAt != "" {
		fmt.Fprintf(out, "Data last event time (%s): %s\n", s.Timezone, s.LastEventAt)
	}
	fmt.Fprintf(out, "Data source: %s", s.Source)
	if s.FileModifiedAt != "" {
		fmt.Fprintf(out, " · File last updated (%s): %s", s.Timezone, s.FileModifiedAt)
	}
	fmt.Fprintln(out)
	if s.Stale {
		fmt.Fprintf(out, "WARNING: serving last good snapshot, source error: %s\n", s.SourceError)
	}
}
