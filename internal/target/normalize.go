package target

import (
	"net/url"
	"path/filepath"
)

// Normalize converts a compile target into the absolute path form used by the
// local file system. Targets may be plain paths or file URIs. Relative paths
// are resolved against base. Other URI schemes are returned unchanged so that
// another FileSystem implementation can handle them.
func Normalize(target string, base string) string {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "" && u.Scheme != "file" && len(u.Scheme) > 1) {
		return target
	}
	if u.Scheme == "file" {
		target = u.Path
	}
	if !filepath.IsAbs(target) {
		if base == "" {
			base = "/"
		}
		return filepath.Join(base, target)
	}
	return filepath.Clean(target)
}

// Display returns the shortest readable name for an absolute path: the path
// relative to base when it lies beneath base, otherwise the path itself.
func Display(path string, base string) string {
	if base == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || filepath.IsAbs(rel) || hasParentPrefix(rel) {
		return path
	}
	return rel
}

func hasParentPrefix(rel string) bool {
	return len(rel) >= 3 && rel[:2] == ".." && rel[2] == filepath.Separator
}
