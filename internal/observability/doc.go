// Package observability records client activity. Events are appended to a
// JSON Lines file and summaries are derived from it on demand.
package observability
