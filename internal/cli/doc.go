// Package cli defines the componentry command line surface: a validate
// command that checks declarations without producing output, and an export
// command that additionally writes the frozen registry in an interchange
// format. Both exit non-zero if any record is invalid.
package cli
