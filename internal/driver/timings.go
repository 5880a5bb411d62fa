package driver

import (
	"encoding/json"
	"fmt"

	"fuhao/internal/diag"
	"fuhao/internal/observ"
	"fuhao/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// TimingDiagnostic packs a phase report into an OBS6001 info diagnostic. The
// message is for humans; the note carries the report as JSON.
func TimingDiagnostic(kind, path string, rep observ.Report) diag.Diagnostic {
	payload := timingPayload{Kind: kind, Path: path, TotalMS: rep.TotalMS, Phases: rep.Phases}
	if payload.Kind == "" {
		payload.Kind = "pipeline"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s, %s", msg, payload.Path)
	}
	d := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, msg)
	if data, err := json.Marshal(payload); err == nil {
		d = d.WithNote(source.Span{}, string(data))
	}
	return d
}

// AppendTimingDiagnostic adds the timing entry even when the bag is full.
func AppendTimingDiagnostic(bag *diag.Bag, kind, path string, rep observ.Report) {
	if bag == nil {
		return
	}
	entry := TimingDiagnostic(kind, path, rep)
	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(bag.Len() + 1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
