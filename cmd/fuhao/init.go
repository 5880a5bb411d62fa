package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"fuhao/internal/driver"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new fuhao project",
	Long: `Initialize a new fuhao project by creating a project manifest (fuhao.toml)
and a hello-world entry point (main.fh). Without an argument the current
directory is used; a missing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 && args[0] != "" {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "fuhao-project"
	}

	manifestPath := filepath.Join(target, driver.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	if err := os.WriteFile(manifestPath, []byte(defaultManifest(name)), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	mainPath := filepath.Join(target, "main"+driver.SourceExt)
	createdMain := false
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(mainPath, []byte(defaultMain), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", filepath.Base(mainPath), err)
		}
		createdMain = true
	}

	if quiet(cmd) {
		return nil
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized fuhao project %s in %s\n", name, target)
	fmt.Fprintf(out, "  - %s\n", driver.ManifestName)
	if createdMain {
		fmt.Fprintf(out, "  - main%s\n", driver.SourceExt)
	} else {
		fmt.Fprintf(out, "  - main%s (existing)\n", driver.SourceExt)
	}
	return nil
}

func defaultManifest(name string) string {
	return fmt.Sprintf(`# fuhao project manifest
[package]
name = %q

[build]
target = "go"
out_dir = "out"
`, name)
}

const defaultMain = `注【hello world】
引【ui】
界主【
  文【"Hello, fuhao!"】
界】
`
