// Package diag defines the diagnostic model shared by all compiler phases.
//
// Diagnostic is the central record: Severity, a numeric Code with a stable
// string form (LEX, SYN, NUM, EMT, IO, OBS ranges), a short Message, the
// Primary span and optional Notes.
//
// Phases emit through a Reporter so that storage stays decoupled: BagReporter
// collects into a Bag, which supports a limit, sorting and deduplication.
// ReportBuilder chains notes before Emit.
//
// Package diag does no terminal formatting; colour output lives in
// internal/diagfmt. FormatShort renders the stable one-line form used by the
// compiler facade and golden tests.
package diag
