// Package conf contains the constants that are used across packages for
// configuring versions.
package conf

import (
	"fmt"
	"time"
)

const (
	// VERSION is the version of the hidl-expr tool.
	VERSION = "hidl-expr 0.1.0"
	// VERSIONMAJORN is the major version.
	VERSIONMAJORN = 0
	// VERSIONMINORN is the minor version.
	VERSIONMINORN = 1
	// VERSIONPATCHN is the patch version.
	VERSIONPATCHN = 0
)

// FullVersion returns the version and copyright.
func FullVersion() string {
	return fmt.Sprintf("%v Copyright (C) %v", VERSION, time.Now().Year())
}
