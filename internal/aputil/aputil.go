// Package aputil collects small process/filesystem helpers shared across
// osup's components, adapted from ap_common/aputil. The fleet-management
// pieces of the original package — fault reporting, gRPC credentials,
// protobuf timestamp conversion, DHCP option decoding — have no home in a
// standalone CLI tool and were dropped; see DESIGN.md.
package aputil

import "os"

// FileExists reports whether path exists, following symlinks.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
