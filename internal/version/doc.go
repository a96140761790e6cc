// Package version exposes build metadata for ota-firmware.
//
// Version, Commit and BuildTime are injected via Go ldflags and default to
// local-build values.
package version
