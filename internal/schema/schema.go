package schema

// Kind identifies the value shape a Field accepts.
type Kind int

const (
	// String accepts any cty string.
	String Kind = iota
	// Bool accepts a cty bool.
	Bool
	// Uint accepts a non-negative whole cty number.
	Uint
	// List accepts a list or tuple whose elements all satisfy Elem.
	List
	// Map accepts an object or map with arbitrary keys whose values all
	// satisfy Elem. Key constraints, when any, come from KeyEnum or
	// PlatformKeys.
	Map
	// Object accepts an object with the declared Fields and nothing else.
	Object
	// Enum accepts a string drawn from the closed Members set.
	Enum
	// Variant accepts an object carrying exactly one of the Variants keys,
	// whose value satisfies that variant's schema. This models tagged types
	// such as a configuration option's type block.
	Variant
)

// Field describes one node of the record schema.
type Field struct {
	Kind     Kind
	Required bool

	// NonEmpty marks string fields that must not be blank. It is set on
	// description fields, where a blank value is reported as
	// EmptyDescription rather than a type error.
	NonEmpty bool

	// Members is the closed value set for Enum fields.
	Members []string

	// Elem is the element schema for List and Map fields.
	Elem *Field

	// Fields are the declared attributes of an Object field.
	Fields map[string]*Field

	// Variants maps a tag name to the schema of that variant's body.
	Variants map[string]*Field

	// KeyEnum, when non-nil, restricts Map keys to a closed set.
	KeyEnum []string

	// PlatformKeys marks a Map whose keys must appear in the externally
	// supplied master platform list.
	PlatformKeys bool

	// FragmentRef marks an Object that may instead be a reference to a
	// shared fragment: an object whose sole attribute is "fragment" naming
	// a fragment store entry.
	FragmentRef bool

	// TLSConsistency marks the tls capability object, which carries the
	// cross-field rule that a disabled capability cannot default to on.
	TLSConsistency bool
}

// Closed enumerations for the classification fields.
var (
	DeliveryGuarantees = []string{"at_least_once", "best_effort", "exactly_once"}
	DevelopmentStages  = []string{"beta", "stable", "deprecated"}
	EgressMethods      = []string{"batch", "stream"}
	DeploymentRoles    = []string{"aggregator", "daemon", "sidecar"}
	MetricKinds        = []string{"counter", "gauge", "histogram", "summary"}
	SocketDirections   = []string{"incoming", "outgoing"}
	SSLPostures        = []string{"disabled", "optional", "required"}
)

// OptionTypeTags are the closed tags of the option type variant.
var OptionTypeTags = []string{"array", "bool", "object", "string", "uint"}

func str(required bool) *Field     { return &Field{Kind: String, Required: required} }
func boolean(required bool) *Field { return &Field{Kind: Bool, Required: required} }
func description() *Field {
	return &Field{Kind: String, Required: true, NonEmpty: true}
}
func enum(members []string, required bool) *Field {
	return &Field{Kind: Enum, Members: members, Required: required}
}
func stringList() *Field {
	return &Field{Kind: List, Elem: str(false)}
}

// optionType builds the tagged variant describing a configuration option's
// type. The array and object tags recurse back into the variant and the
// option spec respectively, so the returned Field is a cyclic structure.
func optionType(option *Field) *Field {
	variant := &Field{Kind: Variant, Required: true, Variants: map[string]*Field{}}

	variant.Variants["string"] = &Field{Kind: Object, Fields: map[string]*Field{
		"default":  str(false),
		"examples": stringList(),
	}}
	variant.Variants["bool"] = &Field{Kind: Object, Fields: map[string]*Field{
		"default": boolean(false),
	}}
	variant.Variants["uint"] = &Field{Kind: Object, Fields: map[string]*Field{
		"default":  {Kind: Uint},
		"unit":     str(false),
		"examples": {Kind: List, Elem: &Field{Kind: Uint}},
	}}
	variant.Variants["array"] = &Field{Kind: Object, Fields: map[string]*Field{
		"items": {Kind: Object, Required: true, Fields: map[string]*Field{
			"type": variant,
		}},
	}}
	variant.Variants["object"] = &Field{Kind: Object, Fields: map[string]*Field{
		"options": {Kind: Map, Required: true, Elem: option},
	}}

	return variant
}

// OptionSpec returns the schema of one configuration option. The result is
// self-referential through the array and object type tags.
func OptionSpec() *Field {
	option := &Field{Kind: Object, Fields: map[string]*Field{
		"description":   description(),
		"required":      boolean(false),
		"common":        boolean(false),
		"warnings":      stringList(),
		"relevant_when": str(false),
	}}
	option.Fields["type"] = optionType(option)
	return option
}

// outputSpec is the schema of one output metric definition. The FragmentRef
// flag permits the passthrough form, an object whose only attribute is
// "fragment".
func outputSpec() *Field {
	return &Field{
		Kind:        Object,
		FragmentRef: true,
		Fields: map[string]*Field{
			"fragment":          str(false),
			"description":       description(),
			"type":              enum(MetricKinds, true),
			"default_namespace": str(false),
			"tags": {Kind: Map, Elem: &Field{Kind: Object, Fields: map[string]*Field{
				"description": description(),
				"required":    boolean(false),
				"examples":    stringList(),
			}}},
		},
	}
}

// Component returns the full schema for a composed component record.
func Component() *Field {
	return &Field{
		Kind:     Object,
		Required: true,
		Fields: map[string]*Field{
			"title":       str(true),
			"description": description(),

			"classes": {Kind: Object, Required: true, Fields: map[string]*Field{
				"commonly_used":    boolean(true),
				"delivery":         enum(DeliveryGuarantees, true),
				"deployment_roles": {Kind: List, Required: true, Elem: enum(DeploymentRoles, false)},
				"development":      enum(DevelopmentStages, true),
				"egress_method":    enum(EgressMethods, true),
			}},

			"features": {Kind: Object, Fields: map[string]*Field{
				"collect": {Kind: Object, Fields: map[string]*Field{
					"checkpoint": {Kind: Object, Required: true, Fields: map[string]*Field{
						"enabled": boolean(true),
					}},
					"from": {Kind: Object, Fields: map[string]*Field{
						"service": {Kind: Object, Required: true, Fields: map[string]*Field{
							"name":     str(true),
							"thing":    str(false),
							"url":      str(false),
							"versions": str(false),
						}},
					}},
					"interface": {Kind: Object, Fields: map[string]*Field{
						"socket": {Kind: Object, Required: true, Fields: map[string]*Field{
							"direction": enum(SocketDirections, true),
							"protocols": {Kind: List, Required: true, Elem: str(false)},
							"ssl":       enum(SSLPostures, false),
						}},
					}},
					"tls": {Kind: Object, TLSConsistency: true, Fields: map[string]*Field{
						"enabled":                boolean(true),
						"can_enable":             boolean(true),
						"can_verify_certificate": boolean(true),
						"can_verify_hostname":    boolean(true),
						"enabled_default":        boolean(true),
					}},
				}},
			}},

			"support": {Kind: Object, Required: true, Fields: map[string]*Field{
				"platforms":    {Kind: Map, Required: true, PlatformKeys: true, Elem: boolean(false)},
				"requirements": stringList(),
				"warnings":     stringList(),
				"notices":      stringList(),
			}},

			"configuration": {Kind: Map, Required: true, Elem: OptionSpec()},

			"output": {Kind: Object, Fields: map[string]*Field{
				"metrics": {Kind: Map, KeyEnum: MetricKinds, Elem: outputSpec()},
			}},
		},
	}
}
