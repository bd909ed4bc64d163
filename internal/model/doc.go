// Package model defines the data structures shared by every gdpdash stage.
//
// This package contains the following main types:
//   - Header, Row and Dataset: the loaded GDP table, immutable after load
//   - View: a filtered subsequence of Dataset rows
//   - RunConfig and Operation: what a single run computes
//   - Series, ContinentTotal and Trend: chart-ready shapes
//   - RunReport: the accumulated result of one pipeline run
//
// It also owns the error taxonomy (ErrNotFound, ErrParse,
// ErrInvalidOperation, ErrSchema) so that loader, processor and visualizer
// report failures the CLI and dashboard can classify with errors.Is.
//
// Design decision: We keep models in their own package so that loader,
// processor, visualizer, report and dashboard can share them without import
// cycles. RunReport is serializable to JSON for reports and the history
// database; the Dataset itself is never serialized.
package model
