// Package validate checks composed component records against the explicit
// schema and collects every violation into a report.
//
// The validator never stops at the first problem: a record with a missing
// description, a misspelled enum member and an unknown platform key yields
// three violations in one pass, each addressed by its field path. It is a
// pure function of the record, the schema, the fragment store and the master
// platform list, so independent records can be validated in parallel.
package validate
