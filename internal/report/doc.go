// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown with tables and a mermaid pie chart
//   - ExcelWriter: XLSX workbook with summary, filtered rows and continents
//
// Design decision: Report writing is separate from the run data
// (which lives in the model package) so new output formats can be added
// without touching the pipeline.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
