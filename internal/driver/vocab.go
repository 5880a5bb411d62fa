package driver

import (
	"fmt"
	"os"

	"fuhao/internal/symtab"
)

// LoadVocabulary reads replacement vocabulary tables from dir. Tables missing
// from dir keep their embedded version; an empty dir means symtab.Default().
func LoadVocabulary(dir string) (*symtab.Table, error) {
	if dir == "" {
		return symtab.Default(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("vocabulary: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vocabulary: %s is not a directory", dir)
	}
	t, err := symtab.Load(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("vocabulary %s: %w", dir, err)
	}
	return t, nil
}
