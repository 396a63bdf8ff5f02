// Package pipeline orchestrates a sync run: discovery, analysis, the
// parallel sync phase, and the summary.
//
// A [Syncer] moves through Idle → Analyzing → Syncing → Done exactly once.
// Analysis is sequential (one ffprobe at a time); the sync phase fans the
// work list out to a fixed pool of workers. Per-file failures are recorded
// in [RunStats] and never abort the run.
package pipeline
