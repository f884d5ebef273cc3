package compose

import (
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Compose folds the overlays into base in the order given and returns the
// merged value. A zero-overlay call returns base unchanged.
func Compose(base cty.Value, overlays ...cty.Value) cty.Value {
	merged := base
	for _, overlay := range overlays {
		merged = Merge(merged, overlay)
	}
	return merged
}

// Merge combines two values under the package merge policy. Null or missing
// sides short-circuit to the other side so partial records stay partial.
func Merge(base, overlay cty.Value) cty.Value {
	if overlay == cty.NilVal || overlay.IsNull() {
		return base
	}
	if base == cty.NilVal || base.IsNull() {
		return overlay
	}

	if isMapping(base) && isMapping(overlay) {
		merged := map[string]cty.Value{}
		for key, val := range base.AsValueMap() {
			merged[key] = val
		}
		for key, val := range overlay.AsValueMap() {
			if existing, ok := merged[key]; ok {
				merged[key] = Merge(existing, val)
			} else {
				merged[key] = val
			}
		}
		if len(merged) == 0 {
			return cty.EmptyObjectVal
		}
		return cty.ObjectVal(merged)
	}

	if isSequence(base) && isSequence(overlay) {
		elems := append(base.AsValueSlice(), overlay.AsValueSlice()...)
		if len(elems) == 0 {
			return cty.EmptyTupleVal
		}
		return cty.TupleVal(elems)
	}

	return overlay
}

// PathValue wraps a value in nested single-key objects so that it merges in
// at the given dotted field path, e.g. PathValue("configuration.auth", v)
// yields {configuration: {auth: v}}.
func PathValue(path string, v cty.Value) cty.Value {
	if path == "" {
		return v
	}
	steps := strings.Split(path, ".")
	for i := len(steps) - 1; i >= 0; i-- {
		v = cty.ObjectVal(map[string]cty.Value{steps[i]: v})
	}
	return v
}

func isMapping(v cty.Value) bool {
	ty := v.Type()
	return ty.IsObjectType() || ty.IsMapType()
}

func isSequence(v cty.Value) bool {
	ty := v.Type()
	return ty.IsListType() || ty.IsTupleType()
}
