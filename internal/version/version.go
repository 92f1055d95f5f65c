// Package version exposes the build-time version of the distbuilder binary.
package version

// Version is overridden at build time via -ldflags.
var Version = "dev"
