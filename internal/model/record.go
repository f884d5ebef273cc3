package model

// ComponentRecord is one validated description of a pluggable component.
// Records are frozen after registration; nothing mutates them.
type ComponentRecord struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`

	Classes       Classes                `json:"classes" yaml:"classes"`
	Features      *Features              `json:"features,omitempty" yaml:"features,omitempty"`
	Support       Support                `json:"support" yaml:"support"`
	Configuration map[string]*OptionSpec `json:"configuration" yaml:"configuration"`
	Output        *Output                `json:"output,omitempty" yaml:"output,omitempty"`
}

// Classes is the fixed classification block every component carries.
type Classes struct {
	CommonlyUsed    bool     `json:"commonly_used" yaml:"commonly_used"`
	Delivery        string   `json:"delivery" yaml:"delivery"`
	DeploymentRoles []string `json:"deployment_roles" yaml:"deployment_roles"`
	Development     string   `json:"development" yaml:"development"`
	EgressMethod    string   `json:"egress_method" yaml:"egress_method"`
}

// Features describes capability blocks. Only components that pull data carry
// a collect block.
type Features struct {
	Collect *Collect `json:"collect,omitempty" yaml:"collect,omitempty"`
}

// Collect describes how a pulling component reaches its upstream.
type Collect struct {
	Checkpoint Checkpoint       `json:"checkpoint" yaml:"checkpoint"`
	From       *Upstream        `json:"from,omitempty" yaml:"from,omitempty"`
	Interface  *Interface       `json:"interface,omitempty" yaml:"interface,omitempty"`
	TLS        *TLSCapabilities `json:"tls,omitempty" yaml:"tls,omitempty"`
}

// Checkpoint records whether collection progress is checkpointed.
type Checkpoint struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// Upstream names the service a collecting component pulls from.
type Upstream struct {
	Service Service `json:"service" yaml:"service"`
}

// Service identifies an upstream service.
type Service struct {
	Name     string `json:"name" yaml:"name"`
	Thing    string `json:"thing,omitempty" yaml:"thing,omitempty"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	Versions string `json:"versions,omitempty" yaml:"versions,omitempty"`
}

// Interface describes the socket a collecting component uses.
type Interface struct {
	Socket Socket `json:"socket" yaml:"socket"`
}

// Socket is the connection posture of a collect interface.
type Socket struct {
	Direction string   `json:"direction" yaml:"direction"`
	Protocols []string `json:"protocols" yaml:"protocols"`
	SSL       string   `json:"ssl,omitempty" yaml:"ssl,omitempty"`
}

// TLSCapabilities is a capability matrix of four independent booleans plus
// the shipped default. It is not an enum: enabled and the two verify flags
// vary independently.
type TLSCapabilities struct {
	Enabled              bool `json:"enabled" yaml:"enabled"`
	CanEnable            bool `json:"can_enable" yaml:"can_enable"`
	CanVerifyCertificate bool `json:"can_verify_certificate" yaml:"can_verify_certificate"`
	CanVerifyHostname    bool `json:"can_verify_hostname" yaml:"can_verify_hostname"`
	EnabledDefault       bool `json:"enabled_default" yaml:"enabled_default"`
}

// Support records platform coverage and operator-facing notes.
type Support struct {
	Platforms    map[string]bool `json:"platforms" yaml:"platforms"`
	Requirements []string        `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	Warnings     []string        `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Notices      []string        `json:"notices,omitempty" yaml:"notices,omitempty"`
}

// OptionSpec documents one configuration option.
type OptionSpec struct {
	Description  string     `json:"description" yaml:"description"`
	Required     bool       `json:"required" yaml:"required"`
	Common       bool       `json:"common" yaml:"common"`
	Warnings     []string   `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	RelevantWhen string     `json:"relevant_when,omitempty" yaml:"relevant_when,omitempty"`
	Type         OptionType `json:"type" yaml:"type"`
}

// OptionType is the tagged variant of an option's value type. Exactly the
// fields relevant to the tag are populated.
type OptionType struct {
	Tag      string                 `json:"tag" yaml:"tag"`
	Default  any                    `json:"default,omitempty" yaml:"default,omitempty"`
	Unit     string                 `json:"unit,omitempty" yaml:"unit,omitempty"`
	Examples []any                  `json:"examples,omitempty" yaml:"examples,omitempty"`
	Items    *OptionType            `json:"items,omitempty" yaml:"items,omitempty"`
	Options  map[string]*OptionSpec `json:"options,omitempty" yaml:"options,omitempty"`
}

// Output describes what a component emits downstream.
type Output struct {
	Metrics map[string]*OutputSpec `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// OutputSpec describes one output metric. Either Fragment names a shared
// passthrough definition, or the inline fields describe a custom metric.
type OutputSpec struct {
	Fragment         string                `json:"fragment,omitempty" yaml:"fragment,omitempty"`
	Description      string                `json:"description,omitempty" yaml:"description,omitempty"`
	Type             string                `json:"type,omitempty" yaml:"type,omitempty"`
	DefaultNamespace string                `json:"default_namespace,omitempty" yaml:"default_namespace,omitempty"`
	Tags             map[string]*MetricTag `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// MetricTag documents one tag carried by an output metric.
type MetricTag struct {
	Description string   `json:"description" yaml:"description"`
	Required    bool     `json:"required" yaml:"required"`
	Examples    []string `json:"examples,omitempty" yaml:"examples,omitempty"`
}
