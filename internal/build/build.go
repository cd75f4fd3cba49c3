// Package build exposes version information stamped in by the linker.
package build

import "fmt"

// Version and Commit are overwritten with -ldflags "-X go.trai.ch/courier/internal/build.Version=...".
var (
	Version = "dev"
	Commit  = ""
)

// Info describes the running binary, for example "courier v1.2.0 (3f2a9c1)".
func Info() string {
	if Commit == "" {
		return fmt.Sprintf("courier %s", Version)
	}
	return fmt.Sprintf("courier %s (%s)", Version, Commit)
}
