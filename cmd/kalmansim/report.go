package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// writeReport renders the per-entity errors and the step timings as tables.
func writeReport(w io.Writer, style string, results []Result, m *Metrics) error {
	if w == nil {
		return fmt.Errorf("invalid report writer")
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(tableStyle(style))

	tw.AppendHeader(table.Row{"ENTITY", "MEAS RMS", "FILTER RMS", "SMOOTH RMS", "MEAN NIS"})
	for _, r := range results {
		smooth := "-"
		if r.Smoothed != nil {
			smooth = fmt.Sprintf("%.4f", r.SmoothRMS)
		}
		tw.AppendRow(table.Row{r.Entity, fmt.Sprintf("%.4f", r.MeasRMS), fmt.Sprintf("%.4f", r.FilterRMS), smooth, fmt.Sprintf("%.3f", r.NIS)})
	}
	tw.Render()

	tw = table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(tableStyle(style))

	tw.AppendHeader(table.Row{"STEP", "COUNT", "MEAN", "P99"})
	for _, t := range []struct {
		name string
		snap interface {
			Count() int64
			Mean() float64
			Percentile(float64) float64
		}
	}{
		{"predict", m.Predict.Snapshot()},
		{"update", m.Update.Snapshot()},
		{"smooth", m.Smooth.Snapshot()},
	} {
		tw.AppendRow(table.Row{t.name, t.snap.Count(), time.Duration(t.snap.Mean()), time.Duration(t.snap.Percentile(0.99))})
	}
	tw.AppendFooter(table.Row{"errors", m.Errors.Count(), "", ""})
	tw.Render()

	return nil
}

func tableStyle(name string) table.Style {
	switch name {
	case "bold":
		return table.StyleBold
	case "double":
		return table.StyleDouble
	case "light":
		return table.StyleLight
	case "round":
		return table.StyleRounded
	}

	return table.StyleDefault
}
