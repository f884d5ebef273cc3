package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/componentry/internal/lookup"
	"github.com/vk/componentry/internal/schema"
)

// FragmentChecker answers whether a fragment name is defined. The fragment
// store satisfies it; tests can substitute a stub.
type FragmentChecker interface {
	Has(name string) bool
}

// Validator walks composed records against the component schema.
type Validator struct {
	schema    *schema.Field
	fragments FragmentChecker
	platforms *lookup.Platforms
}

// New builds a validator bound to a fragment store and a master platform
// list.
func New(fragments FragmentChecker, platforms *lookup.Platforms) *Validator {
	return &Validator{
		schema:    schema.Component(),
		fragments: fragments,
		platforms: platforms,
	}
}

// Validate checks one composed record and returns the full list of
// violations found, never stopping early.
func (v *Validator) Validate(id string, record cty.Value) *Report {
	rep := &Report{ID: id}
	v.walk("", v.schema, record, rep)
	return rep
}

func (v *Validator) walk(path string, f *schema.Field, val cty.Value, rep *Report) {
	switch f.Kind {
	case schema.Object:
		v.walkObject(path, f, val, rep)
	case schema.Map:
		v.walkMap(path, f, val, rep)
	case schema.List:
		v.walkList(path, f, val, rep)
	case schema.Variant:
		v.walkVariant(path, f, val, rep)
	case schema.String:
		v.checkString(path, f, val, rep)
	case schema.Bool:
		if val.Type() != cty.Bool {
			rep.add(path, TypeMismatch, "expected bool, got %s", val.Type().FriendlyName())
		}
	case schema.Uint:
		v.checkUint(path, val, rep)
	case schema.Enum:
		v.checkEnum(path, f, val, rep)
	}
}

func (v *Validator) walkObject(path string, f *schema.Field, val cty.Value, rep *Report) {
	attrs, ok := valueMap(val)
	if !ok {
		rep.add(path, TypeMismatch, "expected an object, got %s", val.Type().FriendlyName())
		return
	}

	if f.FragmentRef {
		if ref, ok := attrs["fragment"]; ok && !ref.IsNull() {
			v.checkFragmentRef(path, ref, attrs, rep)
			return
		}
	}

	for _, name := range sortedKeys(f.Fields) {
		field := f.Fields[name]
		childPath := joinPath(path, name)
		child, ok := attrs[name]
		if !ok || child.IsNull() {
			if field.Required {
				rep.add(childPath, MissingRequiredField, "required field is missing")
			}
			continue
		}
		v.walk(childPath, field, child, rep)
	}

	for _, name := range sortedKeys(attrs) {
		if _, declared := f.Fields[name]; !declared {
			rep.add(joinPath(path, name), TypeMismatch, "undeclared field")
		}
	}

	if f.TLSConsistency {
		v.checkTLSDefault(path, attrs, rep)
	}
}

func (v *Validator) walkMap(path string, f *schema.Field, val cty.Value, rep *Report) {
	entries, ok := valueMap(val)
	if !ok {
		rep.add(path, TypeMismatch, "expected a mapping, got %s", val.Type().FriendlyName())
		return
	}

	for _, key := range sortedKeys(entries) {
		childPath := joinPath(path, key)

		if len(f.KeyEnum) > 0 && !contains(f.KeyEnum, key) {
			rep.add(childPath, EnumOutOfRange, "key %q is not one of [%s]", key, strings.Join(f.KeyEnum, ", "))
			continue
		}
		if f.PlatformKeys && !v.platforms.Known(key) {
			rep.add(childPath, UnknownPlatformKey, "%q is not in the master platform list", key)
			continue
		}
		if f.Elem != nil {
			v.walk(childPath, f.Elem, entries[key], rep)
		}
	}
}

func (v *Validator) walkList(path string, f *schema.Field, val cty.Value, rep *Report) {
	ty := val.Type()
	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		rep.add(path, TypeMismatch, "expected a sequence, got %s", ty.FriendlyName())
		return
	}
	if f.Elem == nil {
		return
	}
	for i, elem := range val.AsValueSlice() {
		v.walk(fmt.Sprintf("%s[%d]", path, i), f.Elem, elem, rep)
	}
}

func (v *Validator) walkVariant(path string, f *schema.Field, val cty.Value, rep *Report) {
	attrs, ok := valueMap(val)
	if !ok || len(attrs) != 1 {
		rep.add(path, TypeMismatch, "expected exactly one type tag of [%s]", strings.Join(sortedKeys(f.Variants), ", "))
		return
	}
	for tag, body := range attrs {
		variant, ok := f.Variants[tag]
		if !ok {
			rep.add(joinPath(path, tag), EnumOutOfRange, "tag %q is not one of [%s]", tag, strings.Join(sortedKeys(f.Variants), ", "))
			return
		}
		v.walk(joinPath(path, tag), variant, body, rep)
	}
}

func (v *Validator) checkString(path string, f *schema.Field, val cty.Value, rep *Report) {
	if val.Type() != cty.String {
		rep.add(path, TypeMismatch, "expected string, got %s", val.Type().FriendlyName())
		return
	}
	if f.NonEmpty && strings.TrimSpace(val.AsString()) == "" {
		rep.add(path, EmptyDescription, "description must not be blank")
	}
}

func (v *Validator) checkUint(path string, val cty.Value, rep *Report) {
	if val.Type() != cty.Number {
		rep.add(path, TypeMismatch, "expected unsigned integer, got %s", val.Type().FriendlyName())
		return
	}
	bf := val.AsBigFloat()
	if !bf.IsInt() || bf.Sign() < 0 {
		rep.add(path, TypeMismatch, "expected unsigned integer, got %s", bf.Text('g', -1))
	}
}

func (v *Validator) checkEnum(path string, f *schema.Field, val cty.Value, rep *Report) {
	if val.Type() != cty.String {
		rep.add(path, TypeMismatch, "expected string, got %s", val.Type().FriendlyName())
		return
	}
	if !contains(f.Members, val.AsString()) {
		rep.add(path, EnumOutOfRange, "%q is not one of [%s]", val.AsString(), strings.Join(f.Members, ", "))
	}
}

// checkFragmentRef validates the passthrough form of an output spec: an
// object whose sole attribute names a fragment store entry.
func (v *Validator) checkFragmentRef(path string, ref cty.Value, attrs map[string]cty.Value, rep *Report) {
	if ref.Type() != cty.String {
		rep.add(joinPath(path, "fragment"), TypeMismatch, "expected string, got %s", ref.Type().FriendlyName())
		return
	}
	if len(attrs) > 1 {
		rep.add(path, TypeMismatch, "a fragment reference must not carry other fields")
	}
	if !v.fragments.Has(ref.AsString()) {
		rep.add(joinPath(path, "fragment"), UnresolvedFragmentReference, "fragment %q is not defined", ref.AsString())
	}
}

// checkTLSDefault enforces the capability matrix invariant: a disabled
// capability cannot default to on. enabled=true places no constraint on
// enabled_default.
func (v *Validator) checkTLSDefault(path string, attrs map[string]cty.Value, rep *Report) {
	enabled, okEnabled := boolAttr(attrs, "enabled")
	enabledDefault, okDefault := boolAttr(attrs, "enabled_default")
	if !okEnabled || !okDefault {
		return
	}
	if !enabled && enabledDefault {
		rep.add(joinPath(path, "enabled_default"), InconsistentTlsDefault,
			"enabled_default cannot be true while enabled is false")
	}
}

func boolAttr(attrs map[string]cty.Value, name string) (bool, bool) {
	val, ok := attrs[name]
	if !ok || val.IsNull() || val.Type() != cty.Bool {
		return false, false
	}
	return val.True(), true
}

func valueMap(val cty.Value) (map[string]cty.Value, bool) {
	ty := val.Type()
	if val.IsNull() || (!ty.IsObjectType() && !ty.IsMapType()) {
		return nil, false
	}
	if val.LengthInt() == 0 {
		return map[string]cty.Value{}, true
	}
	return val.AsValueMap(), true
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func contains(set []string, member string) bool {
	for _, s := range set {
		if s == member {
			return true
		}
	}
	return false
}
