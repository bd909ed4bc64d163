// Package main provides the entry point for the gdpdash CLI.
//
// gdpdash loads a GDP time series table, computes a statistic over one
// region and year, prints the result, renders charts and serves an
// interactive dashboard.
//
// Usage:
//
//	gdpdash run
//	gdpdash serve
//	gdpdash sweep --from 2000 --to 2020
//
// See --help for all available options.
package main

// main is the entry point for gdpdash.
func main() {
	Execute()
}
