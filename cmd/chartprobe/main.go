// Package main provides the CLI entry point for chartprobe.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// ExitError carries a process exit code without a message.
type ExitError struct{ Code int }

func (e *ExitError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	password string
	verbose  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "chartprobe",
		Short: "Check whether a chart exists on an Excel worksheet",
		Long: `chartprobe inspects the drawings of an xlsx workbook and reports whether a
chart, identified by its drawing id or creation GUID, exists on a sheet.`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVar(&root.password, "password", "", "Workbook password (env: "+envPassword+")")
	cmd.PersistentFlags().BoolVarP(&root.verbose, "verbose", "v", false, "Log progress to stderr")

	cmd.AddCommand(
		newCheckCmd(root),
		newListCmd(root),
		newSheetsCmd(root),
	)
	return cmd
}
