// Package registry holds the frozen mapping from component id to validated
// component record that one generation run produces.
//
// Register is all-or-nothing per record: a declaration is composed against
// the fragment store, validated in full, and only inserted if the report is
// clean. Resubmitting identical content for an id is idempotent; submitting
// different content for a registered id is a hard error, and the existing
// entry is left untouched. Insertion is serialized behind a mutex so that
// independent records may be registered from parallel workers.
package registry
