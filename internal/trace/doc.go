// Package trace records structured events from the fuhao pipeline.
//
// The driver opens a span per build and per file, the compiler one per
// phase (scan, parse, transform, emit). Events go to a Tracer chosen by
// configuration:
//
//   - Nop drops everything and costs nothing.
//   - StreamTracer writes each event as it happens, as text or NDJSON.
//   - RingTracer keeps the last N events in memory.
//   - MultiTracer fans out to several tracers.
//
// Level decides which scopes are emitted; LevelPhase shows driver and phase
// boundaries, LevelDetail adds per-file spans.
//
//	ctx = trace.WithTracer(ctx, t)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", 0)
//	defer span.End("")
package trace
