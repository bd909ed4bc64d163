// Package render draws model.Series as PNG charts.
//
// Bar and line charts are drawn with gonum/plot, pie charts with go-chart.
// Each chart function writes to an io.Writer so the same code serves files
// written by the CLI and images streamed by the dashboard. Renderer.RenderAll
// writes every chart of a run report into a directory.
package render
