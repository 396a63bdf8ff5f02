// Package probe wraps ffprobe. One JSON call per file yields the container
// format block and the stream list that the rest of tunesync reasons about.
//
// The [Prober] interface is the seam the orchestrator depends on; [FFprobe]
// is the production implementation and tests substitute fakes.
package probe
