package driver

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFile creates dir/rel with content, parents included, and returns the path.
func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

const keywordsWithAlias = `[category]
"引" = "import"
"函" = "function"
"功" = "function"
"组" = "component"
"界" = "interface"
"主" = "root"
"态" = "state"
"文" = "text"
"列" = "list"
"象" = "object"
"样" = "style"
"注" = "documentation"
"←" = "assign"
"→" = "yield"
"∘" = "compose"
`
