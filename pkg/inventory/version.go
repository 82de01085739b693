// Package inventory carries build-level metadata shared by the CLI and
// tooling.
package inventory

const Version = "v0.1.0"
