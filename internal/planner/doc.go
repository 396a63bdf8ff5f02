// Package planner decides, per source file, whether the destination is a
// byte copy or a transcode and at which bitrate. The result is a [Plan] that
// the pipeline executes.
//
// Destination-side checks (already present, claimed by another source) need
// the filesystem and the run's collision table, so the pipeline applies them
// before calling [BuildPlan].
package planner
