package main

import (
	"encoding/json"
	"io"

	"fuhao/internal/compiler"
	"fuhao/internal/diag"
	"fuhao/internal/diagfmt"
	"fuhao/internal/emit"
	"fuhao/internal/observ"
	"fuhao/internal/source"
)

// writeDiagnostics печатает bag в w: JSON для инструментов, иначе pretty.
func writeDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, asJSON bool, pretty diagfmt.PrettyOpts) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	if asJSON {
		return diagfmt.JSON(w, bag, fs, jsonDiagOpts(pretty.ShowNotes))
	}
	return diagfmt.Pretty(w, bag, fs, pretty)
}

func jsonDiagOpts(notes bool) diagfmt.JSONOpts {
	return diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: notes}
}

// filterBag copies the diagnostics at or above minSev into a new bag.
func filterBag(bag *diag.Bag, minSev diag.Severity) *diag.Bag {
	out := diag.NewBag(0)
	if bag == nil {
		return out
	}
	for _, d := range bag.Filter(minSev) {
		out.Add(d)
	}
	return out
}

// compileReport is what `compile --format json` prints.
type compileReport struct {
	Success     bool                      `json:"success"`
	Target      emit.Target               `json:"target"`
	Output      string                    `json:"output,omitempty"`
	SourceMap   []compiler.SourceMapEntry `json:"source_map,omitempty"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
	Timings     observ.Report             `json:"timings"`
}

// buildCompileReport: info-диагностики фаз попадают в отчёт только с --debug.
func buildCompileReport(res *compiler.Result, opts compiler.Options) (compileReport, error) {
	minSev := diag.SevWarning
	if opts.Debug {
		minSev = diag.SevInfo
	}
	shown := filterBag(res.Report, minSev)
	shown.Sort()
	diags, err := diagfmt.BuildDiagnosticsOutput(shown, res.Files, jsonDiagOpts(true))
	if err != nil {
		return compileReport{}, err
	}
	return compileReport{
		Success:     res.Success,
		Target:      opts.Target,
		Output:      res.Text(opts.Target),
		SourceMap:   res.SourceMap,
		Diagnostics: diags,
		Timings:     res.Timings,
	}, nil
}

func writeCompileReport(w io.Writer, res *compiler.Result, opts compiler.Options) error {
	report, err := buildCompileReport(res, opts)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
