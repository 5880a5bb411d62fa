package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fuhao/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Remove build outputs and, with --cache, the build cache",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().String("out", "", "output directory (default: [build].out_dir or out)")
	cleanCmd.Flags().Bool("cache", false, "also drop the shared build cache")
}

func runClean(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}
	dropCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return err
	}
	m, err := projectFor(dir)
	if err != nil {
		return err
	}
	layout, err := resolveBuildLayout(cmd, dir, m)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	info, err := os.Stat(layout.outDir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if !quiet(cmd) {
			fmt.Fprintln(out, "output directory not found")
		}
	case err != nil:
		return fmt.Errorf("failed to stat %q: %w", layout.outDir, err)
	case !info.IsDir():
		return fmt.Errorf("%q is not a directory", layout.outDir)
	default:
		if err := os.RemoveAll(layout.outDir); err != nil {
			return fmt.Errorf("failed to remove %q: %w", layout.outDir, err)
		}
		if !quiet(cmd) {
			fmt.Fprintf(out, "removed %s\n", layout.outDir)
		}
	}

	if !dropCache {
		return nil
	}
	cache, err := driver.OpenDiskCache("fuhao")
	if err != nil {
		return fmt.Errorf("failed to open build cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to drop build cache: %w", err)
	}
	if !quiet(cmd) {
		fmt.Fprintf(out, "dropped cache %s\n", cache.Dir())
	}
	return nil
}
