package main

import (
	"fmt"
	"io"
	"time"

	"fuhao/internal/buildpipeline"
	"fuhao/internal/diag"
	"fuhao/internal/diagfmt"
	"fuhao/internal/driver"
	"fuhao/internal/observ"
)

// printTimingReport выводит OBS6001 с итогом и строку на каждую фазу.
func printTimingReport(out io.Writer, path string, rep observ.Report, colored bool) error {
	bag := diag.NewBag(1)
	driver.AppendTimingDiagnostic(bag, "compile", path, rep)
	if err := diagfmt.Pretty(out, bag, nil, diagfmt.PrettyOpts{Color: colored}); err != nil {
		return err
	}
	for _, ph := range rep.Phases {
		if _, err := fmt.Fprintf(out, "  %-10s %8.3f ms  %s\n", ph.Name, ph.DurationMS, ph.Note); err != nil {
			return err
		}
	}
	return nil
}

// printStageTimings prints stage sums of a build; the write stage has no
// timing of its own.
func printStageTimings(out io.Writer, timings *buildpipeline.Timings) error {
	if out == nil {
		return nil
	}
	for _, stage := range buildpipeline.Stages() {
		if !timings.Has(stage) {
			continue
		}
		if _, err := fmt.Fprintf(out, "%-10s %.1f ms\n", stage, toMillis(timings.Duration(stage))); err != nil {
			return err
		}
	}
	total := timings.Sum(buildpipeline.Stages()...)
	_, err := fmt.Fprintf(out, "%-10s %.1f ms\n", "total", toMillis(total))
	return err
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
