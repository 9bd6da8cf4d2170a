// Package diag defines the diagnostic model shared by every compilation phase.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced by the
//     CSS parser, the analysis features and the transformer.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error. Severity is advisory: no phase stops
//     because of a diagnostic.
//   - Code – numeric identifier. Each feature family owns a thousands bucket
//     (CSS, SYM, IMP, NSP, SEL, VAR, ATR, MIX, GEN) so tooling can filter by
//     prefix; see codes.go.
//   - Message – short human text.
//   - Primary – the source span of the triggering node (narrowed to Word when
//     one is given).
//   - Node – handle of the triggering AST node; resolved to a span at report
//     time, so clones of the tree keep valid references.
//
// # Consumers
//
//   - internal/meta: per-stylesheet Bag and the Error/Warn/Info helpers.
//   - internal/diagfmt: pretty and JSON renderers.
//   - internal/driver and cmd/stylc: strict-mode policy and exit codes.
package diag
