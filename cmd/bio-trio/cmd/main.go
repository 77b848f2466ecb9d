// Package cmd implements the bio-trio command-line tool: trio-binning
// haplotype path extraction and pseudo-haplotype decomposition over
// assembly graphs.
package cmd

import (
	"log"

	"v.io/x/lib/cmdline"
)

// Run is the tool's entry point, dispatching to the trio and pseudo-hap
// subcommands.
func Run() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-trio",
			Short:    "Trio-binning haplotype path extraction over assembly graphs",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdTrio(),
				newCmdPseudoHap(),
			},
		})
}
