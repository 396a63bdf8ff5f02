package planner

import (
	"github.com/backmassage/tunesync/internal/config"
	"github.com/backmassage/tunesync/internal/library"
	"github.com/backmassage/tunesync/internal/naming"
)

// BuildPlan decides copy vs transcode for sf under target t.
//
// Flow:
//  1. Compute the destination path (mirrored tree, target extension)
//  2. Compare the probed container with the target format
//  3. Resolve the bitrate through the quality policy
func BuildPlan(t config.Target, sf *library.SyncFile) *Plan {
	plan := &Plan{
		InputPath:  sf.SourcePath,
		OutputPath: naming.OutputPath(t.DestRoot, sf.RelPath, string(t.Format)),
	}

	src, known := sf.BitRateKbps()
	b := ResolveBitrate(t, sf.IsContainer(string(t.Format)), src, known)
	plan.Reason = b.Note
	if !b.Transcode {
		plan.Action = ActionCopy
		return plan
	}

	plan.Action = ActionTranscode
	plan.Format = t.Format
	plan.BitrateKbps = b.Kbps
	plan.DropVideo = sf.HasVideo()
	return plan
}
