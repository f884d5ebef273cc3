// Package testutil provides shared fixtures for package tests: a canonical
// valid composed record and helpers for deriving broken variants from it.
package testutil

import (
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// ValidRecord returns a fully composed record value that passes validation
// against the default platform list, provided the fragment store defines
// "_passthrough_counter". Tests derive invalid variants from it with SetAttr
// and DropAttr.
func ValidRecord() cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"title":       cty.StringVal("Prometheus"),
		"description": cty.StringVal("Scrapes endpoints exposing the Prometheus text format."),

		"classes": cty.ObjectVal(map[string]cty.Value{
			"commonly_used":    cty.True,
			"delivery":         cty.StringVal("at_least_once"),
			"deployment_roles": cty.TupleVal([]cty.Value{cty.StringVal("daemon"), cty.StringVal("sidecar")}),
			"development":      cty.StringVal("beta"),
			"egress_method":    cty.StringVal("batch"),
		}),

		"features": cty.ObjectVal(map[string]cty.Value{
			"collect": cty.ObjectVal(map[string]cty.Value{
				"checkpoint": cty.ObjectVal(map[string]cty.Value{
					"enabled": cty.False,
				}),
				"from": cty.ObjectVal(map[string]cty.Value{
					"service": cty.ObjectVal(map[string]cty.Value{
						"name":     cty.StringVal("Prometheus client"),
						"thing":    cty.StringVal("an endpoint exposing the Prometheus text format"),
						"url":      cty.StringVal("https://prometheus.io/"),
						"versions": cty.StringVal(">= 0.4.0"),
					}),
				}),
				"interface": cty.ObjectVal(map[string]cty.Value{
					"socket": cty.ObjectVal(map[string]cty.Value{
						"direction": cty.StringVal("outgoing"),
						"protocols": cty.TupleVal([]cty.Value{cty.StringVal("http")}),
						"ssl":       cty.StringVal("optional"),
					}),
				}),
				"tls": cty.ObjectVal(map[string]cty.Value{
					"enabled":                cty.True,
					"can_enable":             cty.False,
					"can_verify_certificate": cty.True,
					"can_verify_hostname":    cty.True,
					"enabled_default":        cty.False,
				}),
			}),
		}),

		"support": cty.ObjectVal(map[string]cty.Value{
			"platforms": cty.ObjectVal(map[string]cty.Value{
				"x86_64-apple-darwin":      cty.True,
				"x86_64-unknown-linux-gnu": cty.True,
			}),
			"requirements": cty.EmptyTupleVal,
			"warnings":     cty.EmptyTupleVal,
			"notices":      cty.EmptyTupleVal,
		}),

		"configuration": cty.ObjectVal(map[string]cty.Value{
			"endpoints": cty.ObjectVal(map[string]cty.Value{
				"description": cty.StringVal("Endpoint URLs to scrape metrics from."),
				"required":    cty.True,
				"common":      cty.True,
				"warnings":    cty.TupleVal([]cty.Value{cty.StringVal("You must explicitly add the path to your endpoints.")}),
				"type": cty.ObjectVal(map[string]cty.Value{
					"array": cty.ObjectVal(map[string]cty.Value{
						"items": cty.ObjectVal(map[string]cty.Value{
							"type": cty.ObjectVal(map[string]cty.Value{
								"string": cty.ObjectVal(map[string]cty.Value{
									"examples": cty.TupleVal([]cty.Value{cty.StringVal("http://localhost:9090/metrics")}),
								}),
							}),
						}),
					}),
				}),
			}),
			"scrape_interval_secs": cty.ObjectVal(map[string]cty.Value{
				"description": cty.StringVal("The interval between scrapes, in seconds."),
				"common":      cty.True,
				"type": cty.ObjectVal(map[string]cty.Value{
					"uint": cty.ObjectVal(map[string]cty.Value{
						"default": cty.NumberIntVal(15),
						"unit":    cty.StringVal("seconds"),
					}),
				}),
			}),
		}),

		"output": cty.ObjectVal(map[string]cty.Value{
			"metrics": cty.ObjectVal(map[string]cty.Value{
				"counter": cty.ObjectVal(map[string]cty.Value{
					"fragment": cty.StringVal("_passthrough_counter"),
				}),
			}),
		}),
	})
}

// SetAttr returns a copy of v with the value at the dotted path replaced or
// created. Intermediate objects are created as needed.
func SetAttr(v cty.Value, path string, val cty.Value) cty.Value {
	return setAttr(v, strings.Split(path, "."), val)
}

func setAttr(v cty.Value, steps []string, val cty.Value) cty.Value {
	attrs := map[string]cty.Value{}
	if v != cty.NilVal && !v.IsNull() && v.Type().IsObjectType() && v.LengthInt() > 0 {
		attrs = v.AsValueMap()
	}
	if len(steps) == 1 {
		attrs[steps[0]] = val
	} else {
		attrs[steps[0]] = setAttr(attrs[steps[0]], steps[1:], val)
	}
	return cty.ObjectVal(attrs)
}

// DropAttr returns a copy of v with the value at the dotted path removed.
func DropAttr(v cty.Value, path string) cty.Value {
	return dropAttr(v, strings.Split(path, "."))
}

func dropAttr(v cty.Value, steps []string) cty.Value {
	if v == cty.NilVal || v.IsNull() || !v.Type().IsObjectType() || v.LengthInt() == 0 {
		return v
	}
	attrs := v.AsValueMap()
	if len(steps) == 1 {
		delete(attrs, steps[0])
	} else if child, ok := attrs[steps[0]]; ok {
		attrs[steps[0]] = dropAttr(child, steps[1:])
	}
	if len(attrs) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(attrs)
}
