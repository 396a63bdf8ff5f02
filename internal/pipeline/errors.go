package pipeline

import (
	"errors"
	"fmt"
)

// ErrAlreadyRun is returned when Run is called on a Syncer that has left
// the Idle state.
var ErrAlreadyRun = errors.New("syncer already ran")

// FilesystemError reports a failed filesystem operation on the destination
// (or, for reads, the source) side.
type FilesystemError struct {
	Op   string // "stat", "mkdir", "copy", "rename", "walk"
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }
