// Package format defines the identifiers shared by the sumo persistence layer:
// payload kinds, per-kind versions and compression types.
package format
