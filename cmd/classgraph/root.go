/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"classgraph/internal/logging"
)

// copyrightBanner is printed once before a command does any work, the same
// habit the teacher's showCopyright prints before execution starts —
// suppressed for --version, since that output stands alone.
const copyrightBanner = "classgraph v. " + version + " — classpath relation indexer"

func newRootCmd() *cobra.Command {
	var verbosity string

	root := &cobra.Command{
		Use:           "classgraph",
		Short:         "Index classfile relations across a classpath",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Name() != "version" {
				fmt.Println(copyrightBanner)
			}
			applyVerbosity(verbosity)
		},
	}
	root.PersistentFlags().StringVar(&verbosity, "verbose", "",
		"verbosity level: fine, finest (default: warnings and above only)")

	root.AddCommand(newScanCmd())
	return root
}

func applyVerbosity(level string) {
	switch level {
	case "finest":
		logging.Level = logging.FINEST
	case "fine":
		logging.Level = logging.FINE
	default:
		logging.Level = logging.WARNING
	}
}
