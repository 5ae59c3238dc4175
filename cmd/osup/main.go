// Command osup drives a WPS external-registrar attack against a single
// access point: Pixie Dust offline PIN recovery, online brute force, or a
// one-shot registration with a known or generated PIN.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raisul587/osup/internal/aplog"
)

var (
	verbose    bool
	reportsDir string
	homeDir    string

	slog = aplog.New()
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "osup",
		Short:         "WPS external-registrar attack driver",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				return aplog.SetLevel("debug")
			}
			return aplog.SetLevel("info")
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&reportsDir, "reports-dir", "reports", "directory for stored.txt/stored.csv")
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	root.PersistentFlags().StringVar(&homeDir, "home-dir", home, "directory holding .OneShot session/pixiewps state")

	root.AddCommand(newPinCmd())
	root.AddCommand(newPixieCmd())
	root.AddCommand(newBruteforceCmd())
	root.AddCommand(newRegCmd())

	return root
}
