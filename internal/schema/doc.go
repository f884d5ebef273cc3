// Package schema holds the explicit, data-driven shape that every composed
// component record must satisfy. The schema is a tree of Field definitions
// with closed enumerations for classification values and a tagged variant for
// configuration option types.
//
// The schema exists so that validation has a single source of truth: the
// validate package walks a composed record value against this tree, and
// nothing else in the system hard-codes per-field checks.
package schema
