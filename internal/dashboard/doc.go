// Package dashboard serves the interactive GDP dashboard.
//
// A Controller owns the UI state (selected tab, region, year, country and
// chart mode) together with the chart handles of the current view. Every UI
// event runs to completion under the controller's mutex and replaces the
// chart handles, so concurrent HTTP requests observe events one at a time.
//
// The Server exposes the controller over HTTP with chi: one page per tab,
// PNG chart endpoints, a JSON state endpoint and a health check.
package dashboard
