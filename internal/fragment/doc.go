// Package fragment implements the store of reusable named partial records.
//
// A fragment is authored once, as an HCL body, and referenced by any number
// of component declarations. Its body may contain `args.<name>` placeholders
// that the referencing component fills in at resolve time, which is how a
// single canonical block (say, an HTTP auth option) carries per-component
// example credentials. Resolution is a pure template expansion: expressions
// are evaluated against the supplied arguments and the injected urls table,
// nothing more.
package fragment
