// Package model defines the typed, fully composed component record: the
// shape downstream renderers consume. Records are decoded from validated cty
// values, so decoding is not where errors are expected to surface; the
// validate package has already rejected anything malformed.
package model
