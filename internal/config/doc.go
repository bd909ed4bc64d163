// Package config provides the configuration of gdpdash.
//
// Three sources feed a run:
//   - the run configuration, a JSON file (config/config.json by default)
//     naming the region, year and operation to compute;
//   - the optional settings file, YAML (.gdpdash.yaml), which tunes how
//     data is shaped: column names, the aggregate block-list, top-N size,
//     trend range, chart directory and dashboard defaults;
//   - the environment, optionally seeded from a .env file, which supplies
//     defaults for flags that were not set.
//
// Config gathers the resolved values and validates them once before any
// data is read.
package config
