package planner

import "github.com/backmassage/tunesync/internal/config"

// Action describes the per-file processing decision.
type Action int

const (
	ActionCopy Action = iota
	ActionTranscode
	ActionSkip
)

func (a Action) String() string {
	switch a {
	case ActionCopy:
		return "copy"
	case ActionTranscode:
		return "transcode"
	case ActionSkip:
		return "skip"
	}
	return "unknown"
}

// Plan holds the decision for a single source file.
type Plan struct {
	Action Action
	Reason string // Human-readable explanation, logged in verbose and dry-run mode.

	InputPath  string
	OutputPath string

	// Transcode settings; zero values when Action is not ActionTranscode.
	Format      config.Format
	BitrateKbps int  // 0 = encoder default.
	DropVideo   bool // Source carries a video stream (cover art, flv video).
}

// Skip returns a skip plan for input → output.
func Skip(input, output, reason string) *Plan {
	return &Plan{Action: ActionSkip, Reason: reason, InputPath: input, OutputPath: output}
}
