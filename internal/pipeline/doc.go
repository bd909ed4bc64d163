// Package pipeline runs a gdpdash computation as a sequence of steps.
//
// A run loads the dataset, filters and reduces it, describes the values,
// shapes chart series, renders charts and records the run. Each stage is a
// Step that receives the same *model.RunReport and fills in its part.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. The CLI, the sweep and the dashboard assemble different subsets of steps
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context between steps
//
// BatchProcessor runs one pipeline per year concurrently over a shared,
// read-only dataset, with the concurrency bounded by errgroup.
package pipeline
