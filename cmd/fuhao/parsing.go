package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fuhao/internal/diag"
	"fuhao/internal/diagfmt"
	"fuhao/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.fh",
	Short: "Parse a fuhao source file and output its syntax tree",
	Long: `Parse analyzes a fuhao source file and prints the syntax tree with every
glyph expanded to its vocabulary word`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "tree" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	maxDiag, err := maxDiagnostics(cmd)
	if err != nil {
		return err
	}
	m, err := projectFor(filePath)
	if err != nil {
		return err
	}
	sess, err := openSession(cmd, m, true)
	if err != nil {
		return err
	}
	defer sess.Close()

	result, err := driver.Parse(filePath, sess.Symbols, maxDiag)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	// пропущенные токены (info) видны только без --quiet
	minSev := diag.SevInfo
	if quiet(cmd) {
		minSev = diag.SevWarning
	}
	opts := diagfmt.PrettyOpts{Color: useColor(cmd, os.Stderr), Context: 2, ShowNotes: true}
	if err := writeDiagnostics(cmd.ErrOrStderr(), filterBag(result.Bag, minSev), result.FileSet, format == "json", opts); err != nil {
		return err
	}
	if result.Err != nil {
		return fmt.Errorf("parsing failed: %w", result.Err)
	}

	if format == "json" {
		return diagfmt.FormatASTJSON(cmd.OutOrStdout(), result.Program, result.FileSet)
	}
	return diagfmt.FormatASTPretty(cmd.OutOrStdout(), result.Program, result.FileSet)
}
