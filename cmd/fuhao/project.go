package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fuhao/internal/compiler"
	"fuhao/internal/driver"
	"fuhao/internal/emit"
	"fuhao/internal/trace"
)

// projectFor finds fuhao.toml starting from path (a file or a directory).
// Without a manifest the result is nil.
func projectFor(path string) (*driver.Manifest, error) {
	start := path
	if st, err := os.Stat(path); err == nil && !st.IsDir() {
		start = filepath.Dir(path)
	}
	m, ok, err := driver.LoadManifest(start)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return m, nil
}

// openSession wires the vocabulary, compiler, caches and the context tracer.
// --vocab wins over [vocabulary].dir.
func openSession(cmd *cobra.Command, m *driver.Manifest, noCache bool) (*driver.Session, error) {
	vocab, err := cmd.Root().PersistentFlags().GetString("vocab")
	if err != nil {
		return nil, fmt.Errorf("failed to get vocab flag: %w", err)
	}
	if vocab == "" && m != nil {
		vocab = m.VocabularyDir()
	}
	sess, err := driver.NewSession(driver.SessionConfig{
		VocabularyDir: vocab,
		NoCache:       noCache,
		Tracer:        trace.FromContext(cmd.Context()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	return sess, nil
}

func addCompileFlags(cmd *cobra.Command) {
	cmd.Flags().String("target", string(emit.TargetGo), "output target (go|rust|llvm|plain)")
	cmd.Flags().Bool("debug", false, "report every phase and recovered problem")
	cmd.Flags().Bool("source-map", false, "map top-level declarations to generated lines")
	cmd.Flags().Bool("strict", false, "treat unsupported constructs as errors")
	cmd.Flags().Int("indent", 0, "indent width for rust and plain output (0 = 4)")
	cmd.Flags().Bool("tabs", false, "indent rust and plain output with tabs")
}

// compileOptions reads the compile flags. Values from [build] apply to
// every flag the user did not set.
func compileOptions(cmd *cobra.Command, m *driver.Manifest) (compiler.Options, error) {
	var opts compiler.Options
	flags := cmd.Flags()

	targetValue, err := flags.GetString("target")
	if err != nil {
		return opts, err
	}
	if m != nil && !flags.Changed("target") && m.Config.Build.Target != "" {
		targetValue = m.Config.Build.Target
	}
	if opts.Target, err = emit.ParseTarget(targetValue); err != nil {
		return opts, err
	}

	boolFlag := func(name string, fromManifest bool) (bool, error) {
		v, err := flags.GetBool(name)
		if err != nil {
			return false, err
		}
		if m != nil && !flags.Changed(name) {
			return fromManifest, nil
		}
		return v, nil
	}
	var build driver.BuildConfig
	if m != nil {
		build = m.Config.Build
	}
	if opts.Debug, err = boolFlag("debug", build.Debug); err != nil {
		return opts, err
	}
	if opts.SourceMap, err = boolFlag("source-map", build.SourceMap); err != nil {
		return opts, err
	}
	if opts.Strict, err = boolFlag("strict", build.Strict); err != nil {
		return opts, err
	}
	if opts.IndentWidth, err = flags.GetInt("indent"); err != nil {
		return opts, err
	}
	if opts.UseTabs, err = flags.GetBool("tabs"); err != nil {
		return opts, err
	}
	if opts.MaxDiagnostics, err = maxDiagnostics(cmd); err != nil {
		return opts, err
	}
	return opts, nil
}
