package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/klauspost/oui"
	"github.com/spf13/cobra"

	"github.com/raisul587/osup/internal/netaddr"
	"github.com/raisul587/osup/internal/pingen"
)

func newPinCmd() *cobra.Command {
	var all, showStatic bool
	var ouiDBPath string

	cmd := &cobra.Command{
		Use:   "pin <bssid>",
		Short: "generate or suggest WPS PIN candidates for a target MAC address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mac, err := netaddr.Parse(args[0])
			if err != nil {
				return err
			}

			if vendor, ok := lookupVendor(ouiDBPath, mac); ok {
				color.New(color.Faint).Printf("vendor: %s\n", vendor)
			}

			var candidates []pingen.Candidate
			if all {
				candidates = pingen.All(mac, showStatic)
			} else {
				candidates = pingen.Suggested(mac)
			}

			bold := color.New(color.Bold)
			for _, c := range candidates {
				bold.Printf("%-24s", c.Name)
				if c.Pin == "" {
					fmt.Println("<empty>")
				} else {
					fmt.Println(c.Pin)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "list every catalog algorithm instead of just the OUI-suggested ones")
	cmd.Flags().BoolVar(&showStatic, "static", false, "include the fixed-body static vendor PINs (only with --all)")
	cmd.Flags().StringVar(&ouiDBPath, "oui-db-path", "", "path to an IEEE OUI database file, for vendor-name enrichment")
	return cmd
}

// lookupVendor resolves mac's manufacturer name from an IEEE OUI database,
// the same oui.OpenStaticFile/Query pair ap-ouisearch uses. A missing or
// unset path is not an error: vendor enrichment is strictly optional, since
// the PIN suggestion itself only needs the raw OUI prefix.
func lookupVendor(dbPath string, mac netaddr.MAC) (string, bool) {
	if dbPath == "" {
		return "", false
	}
	db, err := oui.OpenStaticFile(dbPath)
	if err != nil {
		return "", false
	}
	entry, err := db.Query(mac.ColonForm())
	if err != nil {
		return "", false
	}
	return entry.Manufacturer, true
}
