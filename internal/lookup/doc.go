// Package lookup holds the read-only lookup collaborators injected into
// composition and validation: the urls table referenced by declaration
// expressions, and the master platform list that support.platforms keys are
// checked against. Both are plain data loaded before the pipeline starts;
// neither performs any I/O after construction.
package lookup
