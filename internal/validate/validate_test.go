package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/componentry/internal/lookup"
	"github.com/vk/componentry/internal/testutil"
)

// stubFragments answers Has from a fixed name set.
type stubFragments map[string]struct{}

func (s stubFragments) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func newValidator() *Validator {
	return New(stubFragments{"_passthrough_counter": {}}, lookup.DefaultPlatforms())
}

func violationsOf(rep *Report, kind ViolationKind) []Violation {
	var out []Violation
	for _, v := range rep.Violations {
		if v.Kind == kind {
			out = append(out, v)
		}
	}
	return out
}

func TestValidate_ValidRecord(t *testing.T) {
	t.Parallel()

	rep := newValidator().Validate("prometheus", testutil.ValidRecord())
	assert.True(t, rep.Valid(), "unexpected violations:\n%s", rep)
}

func TestValidate_MissingRequiredField(t *testing.T) {
	t.Parallel()

	record := testutil.DropAttr(testutil.ValidRecord(), "configuration.endpoints.description")
	rep := newValidator().Validate("prometheus", record)

	require.False(t, rep.Valid())
	missing := violationsOf(rep, MissingRequiredField)
	require.Len(t, missing, 1)
	assert.Equal(t, "configuration.endpoints.description", missing[0].Path)
}

func TestValidate_EnumOutOfRange(t *testing.T) {
	t.Parallel()

	t.Run("Failure: delivery guarantee outside the closed set", func(t *testing.T) {
		t.Parallel()
		record := testutil.SetAttr(testutil.ValidRecord(), "classes.delivery", cty.StringVal("sometimes"))
		rep := newValidator().Validate("prometheus", record)

		outOfRange := violationsOf(rep, EnumOutOfRange)
		require.Len(t, outOfRange, 1)
		assert.Equal(t, "classes.delivery", outOfRange[0].Path)
		assert.Contains(t, outOfRange[0].Message, "sometimes")
	})

	t.Run("Failure: metric key outside the metric kinds", func(t *testing.T) {
		t.Parallel()
		record := testutil.SetAttr(testutil.ValidRecord(), "output.metrics.timer",
			cty.ObjectVal(map[string]cty.Value{"fragment": cty.StringVal("_passthrough_counter")}))
		rep := newValidator().Validate("prometheus", record)

		outOfRange := violationsOf(rep, EnumOutOfRange)
		require.Len(t, outOfRange, 1)
		assert.Equal(t, "output.metrics.timer", outOfRange[0].Path)
	})
}

func TestValidate_TlsDefaultConsistency(t *testing.T) {
	t.Parallel()

	t.Run("Success: enabled true places no constraint on the default", func(t *testing.T) {
		t.Parallel()
		record := testutil.SetAttr(testutil.ValidRecord(), "features.collect.tls.enabled_default", cty.True)
		rep := newValidator().Validate("prometheus", record)
		assert.True(t, rep.Valid(), "unexpected violations:\n%s", rep)
	})

	t.Run("Failure: disabled capability defaulting to on", func(t *testing.T) {
		t.Parallel()
		record := testutil.SetAttr(testutil.ValidRecord(), "features.collect.tls.enabled", cty.False)
		record = testutil.SetAttr(record, "features.collect.tls.enabled_default", cty.True)
		rep := newValidator().Validate("prometheus", record)

		inconsistent := violationsOf(rep, InconsistentTlsDefault)
		require.Len(t, inconsistent, 1)
		assert.Equal(t, "features.collect.tls.enabled_default", inconsistent[0].Path)
	})
}

func TestValidate_UnknownPlatformKey(t *testing.T) {
	t.Parallel()

	record := testutil.SetAttr(testutil.ValidRecord(), "support.platforms.x86_64-pc-windows-msv", cty.True)
	rep := newValidator().Validate("prometheus", record)

	unknown := violationsOf(rep, UnknownPlatformKey)
	require.Len(t, unknown, 1)
	assert.Equal(t, "support.platforms.x86_64-pc-windows-msv", unknown[0].Path)
}

func TestValidate_UnresolvedFragmentReference(t *testing.T) {
	t.Parallel()

	record := testutil.SetAttr(testutil.ValidRecord(), "output.metrics.counter.fragment",
		cty.StringVal("_passthrough_timer"))
	rep := newValidator().Validate("prometheus", record)

	unresolved := violationsOf(rep, UnresolvedFragmentReference)
	require.Len(t, unresolved, 1)
	assert.Equal(t, "output.metrics.counter.fragment", unresolved[0].Path)
	assert.Contains(t, unresolved[0].Message, "_passthrough_timer")
}

func TestValidate_EmptyDescription(t *testing.T) {
	t.Parallel()

	record := testutil.SetAttr(testutil.ValidRecord(), "description", cty.StringVal("   "))
	rep := newValidator().Validate("prometheus", record)

	empty := violationsOf(rep, EmptyDescription)
	require.Len(t, empty, 1)
	assert.Equal(t, "description", empty[0].Path)
}

func TestValidate_UndeclaredField(t *testing.T) {
	t.Parallel()

	record := testutil.SetAttr(testutil.ValidRecord(), "classes.color", cty.StringVal("green"))
	rep := newValidator().Validate("prometheus", record)

	mismatches := violationsOf(rep, TypeMismatch)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "classes.color", mismatches[0].Path)
}

func TestValidate_TypeMismatch(t *testing.T) {
	t.Parallel()

	t.Run("Failure: bool field holding a string", func(t *testing.T) {
		t.Parallel()
		record := testutil.SetAttr(testutil.ValidRecord(), "classes.commonly_used", cty.StringVal("yes"))
		rep := newValidator().Validate("prometheus", record)

		mismatches := violationsOf(rep, TypeMismatch)
		require.Len(t, mismatches, 1)
		assert.Equal(t, "classes.commonly_used", mismatches[0].Path)
	})

	t.Run("Failure: uint field holding a negative number", func(t *testing.T) {
		t.Parallel()
		record := testutil.SetAttr(testutil.ValidRecord(),
			"configuration.scrape_interval_secs.type.uint.default", cty.NumberIntVal(-1))
		rep := newValidator().Validate("prometheus", record)

		mismatches := violationsOf(rep, TypeMismatch)
		require.Len(t, mismatches, 1)
		assert.Equal(t, "configuration.scrape_interval_secs.type.uint.default", mismatches[0].Path)
	})

	t.Run("Failure: option type carrying two tags", func(t *testing.T) {
		t.Parallel()
		record := testutil.SetAttr(testutil.ValidRecord(),
			"configuration.scrape_interval_secs.type.string", cty.EmptyObjectVal)
		rep := newValidator().Validate("prometheus", record)

		mismatches := violationsOf(rep, TypeMismatch)
		require.Len(t, mismatches, 1)
		assert.Equal(t, "configuration.scrape_interval_secs.type", mismatches[0].Path)
	})
}

// Validation never stops at the first problem: one pass over a record with
// several defects reports each of them.
func TestValidate_CollectsAllViolations(t *testing.T) {
	t.Parallel()

	record := testutil.ValidRecord()
	record = testutil.DropAttr(record, "configuration.endpoints.description")
	record = testutil.SetAttr(record, "classes.delivery", cty.StringVal("sometimes"))
	record = testutil.SetAttr(record, "support.platforms.x86_64-pc-windows-msv", cty.True)
	record = testutil.SetAttr(record, "features.collect.tls.enabled", cty.False)
	record = testutil.SetAttr(record, "features.collect.tls.enabled_default", cty.True)

	rep := newValidator().Validate("prometheus", record)

	assert.Len(t, violationsOf(rep, MissingRequiredField), 1)
	assert.Len(t, violationsOf(rep, EnumOutOfRange), 1)
	assert.Len(t, violationsOf(rep, UnknownPlatformKey), 1)
	assert.Len(t, violationsOf(rep, InconsistentTlsDefault), 1)
	assert.Len(t, rep.Violations, 4)
}

func TestReport_String(t *testing.T) {
	t.Parallel()

	rep := &Report{ID: "prometheus"}
	rep.add("classes.delivery", EnumOutOfRange, "%q is not one of [a, b]", "sometimes")

	assert.Equal(t, "prometheus: classes.delivery: EnumOutOfRange: \"sometimes\" is not one of [a, b]\n", rep.String())
}
