package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"fuhao/internal/emit"
)

// ManifestName is the project manifest looked up from the working directory upwards.
const ManifestName = "fuhao.toml"

// DefaultOutDir is used when [build].out_dir is empty.
const DefaultOutDir = "out"

// Manifest is a loaded fuhao.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package    PackageConfig    `toml:"package"`
	Build      BuildConfig      `toml:"build"`
	Vocabulary VocabularyConfig `toml:"vocabulary"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

// BuildConfig holds defaults for compile and build; CLI flags override them.
type BuildConfig struct {
	Target    string `toml:"target"`
	OutDir    string `toml:"out_dir"`
	Strict    bool   `toml:"strict"`
	Debug     bool   `toml:"debug"`
	SourceMap bool   `toml:"source_map"`
	Jobs      int    `toml:"jobs"`
}

type VocabularyConfig struct {
	// Dir: каталог с заменяющими таблицами, относительно манифеста.
	Dir string `toml:"dir"`
}

// FindManifest walks from startDir to the file system root looking for fuhao.toml.
func FindManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest finds and decodes the manifest; ok is false when none exists.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig decodes and validates one manifest file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if cfg.Build.Target != "" {
		t, err := emit.ParseTarget(cfg.Build.Target)
		if err != nil {
			return Config{}, fmt.Errorf("%s: [build].target: %w", path, err)
		}
		cfg.Build.Target = string(t)
	}
	if cfg.Build.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [build].jobs must not be negative", path)
	}
	return cfg, nil
}

// OutDir resolves [build].out_dir against the manifest root.
func (m *Manifest) OutDir() string {
	dir := m.Config.Build.OutDir
	if dir == "" {
		dir = DefaultOutDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(m.Root, filepath.FromSlash(dir))
}

// VocabularyDir resolves [vocabulary].dir; empty means the embedded tables.
func (m *Manifest) VocabularyDir() string {
	dir := m.Config.Vocabulary.Dir
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(m.Root, filepath.FromSlash(dir))
}
