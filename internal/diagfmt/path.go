package diagfmt

import (
	"path/filepath"
	"strings"

	"fuhao/internal/source"
)

// displayPath renders the path of f according to mode. Virtual files keep
// their name as is: "<input>" has no place on disk.
func displayPath(f *source.File, mode PathMode, baseDir string) string {
	if f == nil {
		return ""
	}
	p := f.Path
	if f.Flags.Has(source.FileVirtual) && !filepath.IsAbs(p) {
		if mode == PathModeBasename {
			return filepath.Base(p)
		}
		return filepath.ToSlash(p)
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	case PathModeRelative:
		p = relativeTo(p, baseDir)
	case PathModeBasename:
		p = filepath.Base(p)
	case PathModeAuto:
		if rel := relativeTo(p, baseDir); !strings.HasPrefix(rel, "..") {
			p = rel
		}
	}
	return filepath.ToSlash(p)
}

func relativeTo(p, baseDir string) string {
	if baseDir == "" {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return p
	}
	return rel
}
