// Package compose implements the deep-merge engine that combines a base
// partial record with resolved fragments into one composed record value.
//
// The merge policy is deliberately small and auditable:
//
//   - object and map values merge key-by-key, recursively; a base's entries
//     survive alongside fragment-added entries unless keys collide
//   - list and tuple values concatenate, preserving order and duplicates
//   - everything else is last-write-wins, so a later overlay overrides
//     earlier values at the same key path
//
// Composition is a pure function over cty values; it never mutates its
// inputs and never executes anything.
package compose
