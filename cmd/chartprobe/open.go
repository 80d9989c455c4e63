package main

import (
	"github.com/PetLahev/chartprobe/pkg/chartprobe"
	"github.com/spf13/cobra"
)

// openProbe opens the workbook named on the command line with the root
// options applied. Progress goes to the command's stderr.
func openProbe(cmd *cobra.Command, root *rootOptions, path string, opts chartprobe.Options) (*chartprobe.Probe, error) {
	opts.Password = resolvePassword(root)
	opts.Logger = newLogger(cmd.ErrOrStderr(), root.verbose)
	return chartprobe.Open(path, opts)
}
