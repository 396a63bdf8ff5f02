// Package naming maps source files onto destination paths and arbitrates
// destination ownership within a run.
//
// Destination layout mirrors the source tree with the extension replaced by
// the target format:
//
//	<dest>/<dir(rel)>/<stem(rel)>.<format>
//
// Two sources can map to the same destination (song.flac and song.mp3 in one
// directory). [CollisionResolver] lets the first claimant win; later
// claimants are told who owns the path and are skipped by the caller.
package naming
