// Package app wires the generation pipeline together: it owns the run
// configuration, the logger, the fragment store, the validator and the
// registry, and drives one load-compose-validate-register-export pass over a
// set of declaration documents.
package app
