package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"fuhao/internal/buildpipeline"
	"fuhao/internal/driver"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [dir]",
	Short: "Build every fuhao source file of a project",
	Long: `Build compiles every .fh file under dir (or under the fuhao.toml root) in
parallel and mirrors the layout into the output directory. Unchanged files
are served from the build cache.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	addCompileFlags(buildCmd)
	buildCmd.Flags().String("out", "", "output directory (default: [build].out_dir or out)")
	buildCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	buildCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	buildCmd.Flags().Bool("no-cache", false, "ignore and do not update the build cache")
}

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	mode := uiMode(strings.TrimSpace(strings.ToLower(value)))
	switch mode {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return mode, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// useTUI: в auto режиме только для терминала и без --quiet.
func (m uiMode) useTUI(quiet bool) bool {
	switch m {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	return !quiet && isTerminal(os.Stdout)
}

// buildLayout: корень сборки и каталог вывода.
type buildLayout struct {
	root   string
	outDir string
	jobs   int
}

func resolveBuildLayout(cmd *cobra.Command, dir string, m *driver.Manifest) (buildLayout, error) {
	var layout buildLayout
	root := dir
	if m != nil && dir == "." {
		root = m.Root
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return layout, fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return layout, fmt.Errorf("failed to stat path: %w", err)
	}
	if !st.IsDir() {
		return layout, fmt.Errorf("%s is not a directory", root)
	}
	layout.root = abs

	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return layout, err
	}
	switch {
	case out != "":
		layout.outDir, err = filepath.Abs(out)
		if err != nil {
			return layout, err
		}
	case m != nil:
		layout.outDir = m.OutDir()
	default:
		layout.outDir = filepath.Join(abs, driver.DefaultOutDir)
	}

	// clean не знает про --jobs
	if cmd.Flags().Lookup("jobs") == nil {
		return layout, nil
	}
	if layout.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return layout, err
	}
	if m != nil && !cmd.Flags().Changed("jobs") {
		layout.jobs = m.Config.Build.Jobs
	}
	if layout.jobs < 0 {
		return layout, fmt.Errorf("--jobs must not be negative")
	}
	return layout, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
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
	opts, err := compileOptions(cmd, m)
	if err != nil {
		return err
	}
	sess, err := openSession(cmd, m, noCache)
	if err != nil {
		return err
	}
	defer sess.Close()

	files, err := driver.ListSources(layout.root)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}
	// вывод внутри корня не должен собираться повторно
	files = excludeDir(files, layout.outDir)
	if len(files) == 0 {
		return fmt.Errorf("no %s files under %s", driver.SourceExt, layout.root)
	}

	req := &buildpipeline.BuildRequest{
		BaseDir:  layout.root,
		Files:    files,
		Compiler: sess.Compiler,
		Options: driver.BuildOptions{
			Compile: opts,
			OutDir:  layout.outDir,
			Jobs:    layout.jobs,
			Cache:   sess.Cache,
			Memo:    sess.Memo,
			Vocab:   sess.Vocab,
		},
	}

	quietMode := quiet(cmd)
	var res *buildpipeline.BuildResult
	if mode.useTUI(quietMode) {
		title := "fuhao build"
		if m != nil && m.Config.Package.Name != "" {
			title = "fuhao build " + m.Config.Package.Name
		}
		res, err = runBuildWithUI(cmd.Context(), title, req)
	} else {
		if !quietMode {
			req.Progress = lineSink(cmd.ErrOrStderr())
		}
		res, err = buildpipeline.Build(cmd.Context(), req)
	}
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	stderr := cmd.ErrOrStderr()
	colored := useColor(cmd, os.Stderr)
	for _, fr := range res.Files {
		if fr.Err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", fr.Rel, fr.Err)
			continue
		}
		printMessages(stderr, fr.Result.Diagnostics, colored)
		if !opts.Debug {
			printMessages(stderr, fr.Result.Errors, colored)
		}
	}
	if !quietMode {
		fmt.Fprintf(cmd.OutOrStdout(), "built %d files (%d cached, %d failed) into %s\n",
			len(res.Files), res.Cached, res.Failed, layout.outDir)
	}
	if showTimings {
		if err := printStageTimings(cmd.OutOrStdout(), &res.Timings); err != nil {
			return err
		}
	}
	if res.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", res.Failed, len(res.Files))
	}
	return nil
}

// lineSink печатает по строке на каждый завершённый файл.
func lineSink(w io.Writer) buildpipeline.ProgressSink {
	var mu sync.Mutex
	return buildpipeline.FuncSink(func(ev buildpipeline.Event) {
		if ev.File == "" {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		switch ev.Status {
		case buildpipeline.StatusDone, buildpipeline.StatusCached:
			fmt.Fprintf(w, "%-7s %s (%.1f ms)\n", ev.Status, ev.File, toMillis(ev.Elapsed))
		case buildpipeline.StatusError:
			fmt.Fprintf(w, "%-7s %s\n", ev.Status, ev.File)
		}
	})
}

func excludeDir(files []string, dir string) []string {
	prefix := filepath.Clean(dir) + string(filepath.Separator)
	out := files[:0]
	for _, f := range files {
		if abs, err := filepath.Abs(f); err == nil && strings.HasPrefix(abs, prefix) {
			continue
		}
		out = append(out, f)
	}
	return out
}
