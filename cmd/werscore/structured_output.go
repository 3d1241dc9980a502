package main

import (
	"github.com/spf13/cobra"

	"werscore/internal/report"
)

// writeStructured encodes v as JSON or YAML to the command's stdout.
func writeStructured(cmd *cobra.Command, format report.Format, v any) error {
	if format == report.FormatYAML {
		return report.WriteYAML(cmd.OutOrStdout(), v)
	}
	return report.WriteJSON(cmd.OutOrStdout(), v)
}
