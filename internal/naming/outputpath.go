package naming

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// OutputPath builds the destination path for the source at rel (relative to
// the source root). format is the target extension without dot.
func OutputPath(destRoot, rel, format string) string {
	rel = filepath.Clean(rel)
	stem := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	return filepath.Join(destRoot, filepath.Dir(rel), stem+"."+format)
}

// TempPath returns a hidden, unique sibling of dst that keeps dst's
// extension, so ffmpeg still picks the right muxer. Output is written there
// first and renamed into place on success.
func TempPath(dst string) string {
	dir, base := filepath.Split(dst)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, "."+stem+".part-"+uuid.NewString()[:8]+ext)
}

// IsTempName reports whether base was produced by [TempPath].
func IsTempName(base string) bool {
	return strings.HasPrefix(base, ".") && strings.Contains(base, ".part-")
}
