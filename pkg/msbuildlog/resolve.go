package msbuildlog

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath anchors a path printed in a build log at the directory of the log itself.
//
// rawPath is joined onto the directory of invocationContext and cleaned.
// An absolute rawPath replaces the directory entirely. A rooted rawPath without
// a volume name (e.g. `\src\a.c` on Windows) takes the volume of invocationContext.
// On POSIX systems a result starting with exactly two slashes keeps them, since
// "//host/path" may name a different root than "/host/path".
//
// ResolvePath does not touch the filesystem: paths that do not exist resolve normally.
func ResolvePath(rawPath, invocationContext string) string {
	if filepath.IsAbs(rawPath) {
		return keepDoubleSlash(rawPath, filepath.Clean(rawPath))
	}

	dir := filepath.Dir(invocationContext)
	if isRooted(rawPath) {
		return filepath.Clean(filepath.VolumeName(dir) + rawPath)
	}
	// the joined path starts with whatever invocationContext starts with
	return keepDoubleSlash(invocationContext, filepath.Join(dir, rawPath))
}

// isRooted reports whether p starts with a path separator but is not absolute,
// which only happens on Windows.
func isRooted(p string) bool {
	return p != "" && os.IsPathSeparator(p[0]) && filepath.VolumeName(p) == ""
}

// keepDoubleSlash restores the leading "//" that filepath.Clean folds, when
// orig starts with exactly two slashes on a '/'-separated system.
func keepDoubleSlash(orig, cleaned string) string {
	if filepath.Separator != '/' {
		return cleaned
	}
	if strings.HasPrefix(orig, "//") && !strings.HasPrefix(orig, "///") && !strings.HasPrefix(cleaned, "//") {
		return "/" + cleaned
	}
	return cleaned
}
