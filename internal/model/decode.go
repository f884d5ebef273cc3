package model

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
)

// DecodeComponent translates a validated composed record value into the
// typed model. The value must already have passed validation; any error
// returned here indicates a schema/validator mismatch, not bad input.
func DecodeComponent(id string, v cty.Value) (*ComponentRecord, error) {
	attrs, err := attrMap(v, "")
	if err != nil {
		return nil, err
	}

	record := &ComponentRecord{
		ID:          id,
		Title:       stringAttr(attrs, "title"),
		Description: stringAttr(attrs, "description"),
	}

	classes, err := decodeClasses(attrs["classes"])
	if err != nil {
		return nil, err
	}
	record.Classes = classes

	if features, ok := present(attrs, "features"); ok {
		record.Features, err = decodeFeatures(features)
		if err != nil {
			return nil, err
		}
	}

	support, err := decodeSupport(attrs["support"])
	if err != nil {
		return nil, err
	}
	record.Support = support

	record.Configuration, err = decodeOptions(attrs["configuration"], "configuration")
	if err != nil {
		return nil, err
	}

	if output, ok := present(attrs, "output"); ok {
		record.Output, err = decodeOutput(output)
		if err != nil {
			return nil, err
		}
	}

	return record, nil
}

func decodeClasses(v cty.Value) (Classes, error) {
	attrs, err := attrMap(v, "classes")
	if err != nil {
		return Classes{}, err
	}
	return Classes{
		CommonlyUsed:    boolAttr(attrs, "commonly_used"),
		Delivery:        stringAttr(attrs, "delivery"),
		DeploymentRoles: stringSliceAttr(attrs, "deployment_roles"),
		Development:     stringAttr(attrs, "development"),
		EgressMethod:    stringAttr(attrs, "egress_method"),
	}, nil
}

func decodeFeatures(v cty.Value) (*Features, error) {
	attrs, err := attrMap(v, "features")
	if err != nil {
		return nil, err
	}
	features := &Features{}
	if collect, ok := present(attrs, "collect"); ok {
		decoded, err := decodeCollect(collect)
		if err != nil {
			return nil, err
		}
		features.Collect = decoded
	}
	return features, nil
}

func decodeCollect(v cty.Value) (*Collect, error) {
	attrs, err := attrMap(v, "features.collect")
	if err != nil {
		return nil, err
	}
	collect := &Collect{}

	if checkpoint, ok := present(attrs, "checkpoint"); ok {
		cpAttrs, err := attrMap(checkpoint, "features.collect.checkpoint")
		if err != nil {
			return nil, err
		}
		collect.Checkpoint = Checkpoint{Enabled: boolAttr(cpAttrs, "enabled")}
	}

	if from, ok := present(attrs, "from"); ok {
		fromAttrs, err := attrMap(from, "features.collect.from")
		if err != nil {
			return nil, err
		}
		svcAttrs, err := attrMap(fromAttrs["service"], "features.collect.from.service")
		if err != nil {
			return nil, err
		}
		collect.From = &Upstream{Service: Service{
			Name:     stringAttr(svcAttrs, "name"),
			Thing:    stringAttr(svcAttrs, "thing"),
			URL:      stringAttr(svcAttrs, "url"),
			Versions: stringAttr(svcAttrs, "versions"),
		}}
	}

	if iface, ok := present(attrs, "interface"); ok {
		ifaceAttrs, err := attrMap(iface, "features.collect.interface")
		if err != nil {
			return nil, err
		}
		sockAttrs, err := attrMap(ifaceAttrs["socket"], "features.collect.interface.socket")
		if err != nil {
			return nil, err
		}
		collect.Interface = &Interface{Socket: Socket{
			Direction: stringAttr(sockAttrs, "direction"),
			Protocols: stringSliceAttr(sockAttrs, "protocols"),
			SSL:       stringAttr(sockAttrs, "ssl"),
		}}
	}

	if tls, ok := present(attrs, "tls"); ok {
		tlsAttrs, err := attrMap(tls, "features.collect.tls")
		if err != nil {
			return nil, err
		}
		collect.TLS = &TLSCapabilities{
			Enabled:              boolAttr(tlsAttrs, "enabled"),
			CanEnable:            boolAttr(tlsAttrs, "can_enable"),
			CanVerifyCertificate: boolAttr(tlsAttrs, "can_verify_certificate"),
			CanVerifyHostname:    boolAttr(tlsAttrs, "can_verify_hostname"),
			EnabledDefault:       boolAttr(tlsAttrs, "enabled_default"),
		}
	}

	return collect, nil
}

func decodeSupport(v cty.Value) (Support, error) {
	attrs, err := attrMap(v, "support")
	if err != nil {
		return Support{}, err
	}

	support := Support{
		Requirements: stringSliceAttr(attrs, "requirements"),
		Warnings:     stringSliceAttr(attrs, "warnings"),
		Notices:      stringSliceAttr(attrs, "notices"),
	}

	platforms, err := attrMap(attrs["platforms"], "support.platforms")
	if err != nil {
		return Support{}, err
	}
	support.Platforms = make(map[string]bool, len(platforms))
	for key, val := range platforms {
		support.Platforms[key] = val.True()
	}
	return support, nil
}

func decodeOptions(v cty.Value, path string) (map[string]*OptionSpec, error) {
	entries, err := attrMap(v, path)
	if err != nil {
		return nil, err
	}
	options := make(map[string]*OptionSpec, len(entries))
	for name, entry := range entries {
		option, err := decodeOption(entry, path+"."+name)
		if err != nil {
			return nil, err
		}
		options[name] = option
	}
	return options, nil
}

func decodeOption(v cty.Value, path string) (*OptionSpec, error) {
	attrs, err := attrMap(v, path)
	if err != nil {
		return nil, err
	}

	option := &OptionSpec{
		Description:  stringAttr(attrs, "description"),
		Required:     boolAttr(attrs, "required"),
		Common:       boolAttr(attrs, "common"),
		Warnings:     stringSliceAttr(attrs, "warnings"),
		RelevantWhen: stringAttr(attrs, "relevant_when"),
	}

	optionType, err := decodeOptionType(attrs["type"], path+".type")
	if err != nil {
		return nil, err
	}
	option.Type = *optionType
	return option, nil
}

func decodeOptionType(v cty.Value, path string) (*OptionType, error) {
	variants, err := attrMap(v, path)
	if err != nil {
		return nil, err
	}
	if len(variants) != 1 {
		return nil, fmt.Errorf("%s: expected exactly one type tag", path)
	}

	for tag, body := range variants {
		attrs, err := attrMap(body, path+"."+tag)
		if err != nil {
			return nil, err
		}

		ot := &OptionType{
			Tag:  tag,
			Unit: stringAttr(attrs, "unit"),
		}
		if def, ok := present(attrs, "default"); ok {
			ot.Default = native(def)
		}
		if examples, ok := present(attrs, "examples"); ok {
			for _, example := range examples.AsValueSlice() {
				ot.Examples = append(ot.Examples, native(example))
			}
		}
		if items, ok := present(attrs, "items"); ok {
			itemAttrs, err := attrMap(items, path+"."+tag+".items")
			if err != nil {
				return nil, err
			}
			ot.Items, err = decodeOptionType(itemAttrs["type"], path+"."+tag+".items.type")
			if err != nil {
				return nil, err
			}
		}
		if options, ok := present(attrs, "options"); ok {
			ot.Options, err = decodeOptions(options, path+"."+tag+".options")
			if err != nil {
				return nil, err
			}
		}
		return ot, nil
	}
	return nil, fmt.Errorf("%s: missing type tag", path)
}

func decodeOutput(v cty.Value) (*Output, error) {
	attrs, err := attrMap(v, "output")
	if err != nil {
		return nil, err
	}
	output := &Output{}

	if metrics, ok := present(attrs, "metrics"); ok {
		entries, err := attrMap(metrics, "output.metrics")
		if err != nil {
			return nil, err
		}
		output.Metrics = make(map[string]*OutputSpec, len(entries))
		for kind, entry := range entries {
			spec, err := decodeOutputSpec(entry, "output.metrics."+kind)
			if err != nil {
				return nil, err
			}
			output.Metrics[kind] = spec
		}
	}
	return output, nil
}

func decodeOutputSpec(v cty.Value, path string) (*OutputSpec, error) {
	attrs, err := attrMap(v, path)
	if err != nil {
		return nil, err
	}

	spec := &OutputSpec{
		Fragment:         stringAttr(attrs, "fragment"),
		Description:      stringAttr(attrs, "description"),
		Type:             stringAttr(attrs, "type"),
		DefaultNamespace: stringAttr(attrs, "default_namespace"),
	}

	if tags, ok := present(attrs, "tags"); ok {
		entries, err := attrMap(tags, path+".tags")
		if err != nil {
			return nil, err
		}
		spec.Tags = make(map[string]*MetricTag, len(entries))
		for name, entry := range entries {
			tagAttrs, err := attrMap(entry, path+".tags."+name)
			if err != nil {
				return nil, err
			}
			spec.Tags[name] = &MetricTag{
				Description: stringAttr(tagAttrs, "description"),
				Required:    boolAttr(tagAttrs, "required"),
				Examples:    stringSliceAttr(tagAttrs, "examples"),
			}
		}
	}
	return spec, nil
}

// native converts a cty value into plain Go data for interchange output.
func native(v cty.Value) any {
	if v.IsNull() {
		return nil
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString()
	case ty == cty.Bool:
		return v.True()
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			return i
		}
		f, _ := bf.Float64()
		return f
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		elems := make([]any, 0, v.LengthInt())
		for _, elem := range v.AsValueSlice() {
			elems = append(elems, native(elem))
		}
		return elems
	case ty.IsObjectType() || ty.IsMapType():
		entries := make(map[string]any, v.LengthInt())
		for key, val := range v.AsValueMap() {
			entries[key] = native(val)
		}
		return entries
	default:
		return v.GoString()
	}
}

func attrMap(v cty.Value, path string) (map[string]cty.Value, error) {
	if v == cty.NilVal || v.IsNull() {
		return nil, fmt.Errorf("%s: expected an object, got none", path)
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("%s: expected an object, got %s", path, ty.FriendlyName())
	}
	if v.LengthInt() == 0 {
		return map[string]cty.Value{}, nil
	}
	return v.AsValueMap(), nil
}

func present(attrs map[string]cty.Value, name string) (cty.Value, bool) {
	val, ok := attrs[name]
	if !ok || val.IsNull() {
		return cty.NilVal, false
	}
	return val, true
}

func stringAttr(attrs map[string]cty.Value, name string) string {
	if val, ok := present(attrs, name); ok && val.Type() == cty.String {
		return val.AsString()
	}
	return ""
}

func boolAttr(attrs map[string]cty.Value, name string) bool {
	if val, ok := present(attrs, name); ok && val.Type() == cty.Bool {
		return val.True()
	}
	return false
}

func stringSliceAttr(attrs map[string]cty.Value, name string) []string {
	val, ok := present(attrs, name)
	if !ok {
		return nil
	}
	ty := val.Type()
	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		return nil
	}
	var out []string
	for _, elem := range val.AsValueSlice() {
		if elem.Type() == cty.String {
			out = append(out, elem.AsString())
		}
	}
	return out
}
