// Package hcl provides the concrete HCL implementation of the declaration
// Loader interface defined in the config package. It is responsible for all
// file parsing and for translating component and fragment documents into the
// format-agnostic values the rest of the pipeline consumes.
package hcl
