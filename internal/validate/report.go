package validate

import (
	"fmt"
	"strings"
)

// ViolationKind classifies one schema violation.
type ViolationKind string

const (
	MissingRequiredField        ViolationKind = "MissingRequiredField"
	TypeMismatch                ViolationKind = "TypeMismatch"
	EnumOutOfRange              ViolationKind = "EnumOutOfRange"
	UnresolvedFragmentReference ViolationKind = "UnresolvedFragmentReference"
	EmptyDescription            ViolationKind = "EmptyDescription"
	InconsistentTlsDefault      ViolationKind = "InconsistentTlsDefault"
	UnknownPlatformKey          ViolationKind = "UnknownPlatformKey"
)

// Violation is one schema violation at a specific field path.
type Violation struct {
	Path    string
	Kind    ViolationKind
	Message string
}

// Report carries every violation found in one component record. An empty
// report means the record is valid.
type Report struct {
	ID         string
	Violations []Violation
}

// Valid reports whether the record passed without violations.
func (r *Report) Valid() bool {
	return len(r.Violations) == 0
}

func (r *Report) add(path string, kind ViolationKind, format string, args ...any) {
	r.Violations = append(r.Violations, Violation{
		Path:    path,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}

// String renders the report as one build-error line per violation.
func (r *Report) String() string {
	var b strings.Builder
	for _, v := range r.Violations {
		fmt.Fprintf(&b, "%s: %s: %s: %s\n", r.ID, v.Path, v.Kind, v.Message)
	}
	return b.String()
}
