package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fuhao/internal/compiler"
	"fuhao/internal/driver"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] file.fh|-",
	Short: "Compile one fuhao source file",
	Long: `Compile translates one fuhao source file (or stdin with "-") into the
selected target and writes the result to stdout or to --output`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	addCompileFlags(compileCmd)
	compileCmd.Flags().StringP("output", "o", "", "write the result to this file")
	compileCmd.Flags().String("format", "text", "output format (text|json)")
}

var errCompileFailed = errors.New("compilation failed")

func runCompile(cmd *cobra.Command, args []string) error {
	input := args[0]
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	var m *driver.Manifest
	if input != "-" {
		if m, err = projectFor(input); err != nil {
			return err
		}
	}
	opts, err := compileOptions(cmd, m)
	if err != nil {
		return err
	}
	sess, err := openSession(cmd, m, true)
	if err != nil {
		return err
	}
	defer sess.Close()

	var res compiler.Result
	if input == "-" {
		src, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("failed to read stdin: %w", readErr)
		}
		res = sess.Compiler.CompileContext(cmd.Context(), string(src), opts)
	} else {
		res, err = driver.CompileFile(cmd.Context(), sess.Compiler, input, opts)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", input, err)
		}
	}

	stderr := cmd.ErrOrStderr()
	if format == "text" {
		printMessages(stderr, res.Diagnostics, useColor(cmd, os.Stderr))
		if !opts.Debug {
			printMessages(stderr, res.Errors, useColor(cmd, os.Stderr))
		}
	}
	if showTimings {
		if err := printTimingReport(stderr, input, res.Timings, useColor(cmd, os.Stderr)); err != nil {
			return err
		}
	}

	if format == "json" {
		if err := writeCompileReport(cmd.OutOrStdout(), &res, opts); err != nil {
			return err
		}
	} else if res.Success {
		if err := writeCompiled(cmd, output, &res, opts); err != nil {
			return err
		}
	}
	if !res.Success {
		return errCompileFailed
	}
	return nil
}

// writeCompiled prints the text or stores it with its source map next to it.
func writeCompiled(cmd *cobra.Command, output string, res *compiler.Result, opts compiler.Options) error {
	text := res.Text(opts.Target)
	if output == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), text)
		return err
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(output, []byte(text), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	if opts.SourceMap {
		data, err := json.MarshalIndent(res.SourceMap, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(output+".map.json", data, 0o600); err != nil {
			return fmt.Errorf("failed to write source map: %w", err)
		}
	}
	if !quiet(cmd) {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", output)
	}
	return nil
}

// printMessages печатает строки диагностик, подсвечивая метку серьёзности.
func printMessages(w io.Writer, lines []string, colored bool) {
	labels := map[string]*color.Color{
		"error":   color.New(color.FgRed, color.Bold),
		"warning": color.New(color.FgYellow, color.Bold),
		"info":    color.New(color.FgCyan),
	}
	for _, line := range lines {
		label, rest, found := strings.Cut(line, " ")
		c, ok := labels[label]
		if !found || !ok {
			fmt.Fprintln(w, line)
			continue
		}
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		fmt.Fprintf(w, "%s %s\n", c.Sprint(label), rest)
	}
}
