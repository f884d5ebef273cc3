// Package config defines the format-agnostic representation of raw component
// declarations, along with the Loader interface that format-specific
// implementations (currently HCL) satisfy.
//
// A Declaration is a component before composition: the base partial record
// plus the ordered fragment references to merge into it. The registry package
// consumes Declarations without knowing anything about the document format
// they came from.
package config
