package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"fuhao/internal/version"
)

const versionTagline = "glyphs in, code out"

// versionFields выбирает, какие метаданные сборки показывать.
type versionFields struct {
	hash    bool
	message bool
	date    bool
}

func (f versionFields) any() bool { return f.hash || f.message || f.date }

type versionReport struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	Tagline    string `json:"tagline"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show fuhao version and build metadata",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("message", false, "include git commit message")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "include all build metadata")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	full, _ := cmd.Flags().GetBool("full")
	var fields versionFields
	fields.hash, _ = cmd.Flags().GetBool("hash")
	fields.message, _ = cmd.Flags().GetBool("message")
	fields.date, _ = cmd.Flags().GetBool("date")
	if full {
		fields = versionFields{hash: true, message: true, date: true}
	}

	report := buildVersionReport(version.Get(), fields)
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "pretty":
		writeVersionPretty(cmd.OutOrStdout(), report, fields)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

func buildVersionReport(info version.Info, fields versionFields) versionReport {
	r := versionReport{Tool: "fuhao", Version: info.Version, Tagline: versionTagline}
	if fields.hash {
		r.GitCommit = orUnknown(info.GitCommit)
	}
	if fields.message {
		r.GitMessage = orUnknown(info.GitMessage)
	}
	if fields.date {
		r.BuildDate = orUnknown(info.BuildDate)
	}
	return r
}

func writeVersionPretty(out io.Writer, r versionReport, fields versionFields) {
	fmt.Fprintf(out, "%s %s (%s)\n", r.Tool, version.Colored(r.Version), r.Tagline)
	if !fields.any() {
		fmt.Fprintln(out, "pass --hash, --message, --date or --full for build metadata")
		return
	}
	if fields.hash {
		fmt.Fprintf(out, "commit:  %s\n", r.GitCommit)
	}
	if fields.message {
		fmt.Fprintf(out, "message: %s\n", r.GitMessage)
	}
	if fields.date {
		fmt.Fprintf(out, "built:   %s\n", r.BuildDate)
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
