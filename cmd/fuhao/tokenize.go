package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fuhao/internal/diagfmt"
	"fuhao/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.fh",
	Short: "Tokenize a fuhao source file",
	Long:  `Tokenize breaks down a fuhao source file into its constituent tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
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

	result, err := driver.Tokenize(filePath, sess.Symbols, maxDiag)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// диагностики в stderr, в том же формате, что и токены
	opts := diagfmt.PrettyOpts{Color: useColor(cmd, os.Stderr), Context: 2}
	if err := writeDiagnostics(cmd.ErrOrStderr(), result.Bag, result.FileSet, format == "json", opts); err != nil {
		return err
	}

	if format == "json" {
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens)
	}
	return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet)
}
