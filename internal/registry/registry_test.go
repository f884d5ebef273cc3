package registry

import (
	"context"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/componentry/internal/config"
	"github.com/vk/componentry/internal/fragment"
	"github.com/vk/componentry/internal/lookup"
	"github.com/vk/componentry/internal/model"
	"github.com/vk/componentry/internal/testutil"
	"github.com/vk/componentry/internal/validate"
)

const authFragment = `
	auth {
		description = "Options for HTTP Basic Authentication."
		required    = false
		type "string" {
			examples = [args.username_example]
		}
	}
`

func parseBody(t *testing.T, src string) hcl.Body {
	t.Helper()
	file, diags := hclparse.NewParser().ParseHCL([]byte(src), "test.hcl")
	require.False(t, diags.HasErrors(), "parse: %s", diags)
	return file.Body
}

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	store := fragment.NewStore(&hcl.EvalContext{})
	require.NoError(t, store.Define("_passthrough_counter", parseBody(t, `type = "counter"`)))
	require.NoError(t, store.Define("_http_auth", parseBody(t, authFragment)))
	return New(store, validate.New(store, lookup.DefaultPlatforms()))
}

func validDeclaration(id string) *config.Declaration {
	return &config.Declaration{
		ID:     id,
		Source: "test.hcl",
		Base:   testutil.ValidRecord(),
	}
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	t.Run("Success: a clean declaration registers and is retrievable", func(t *testing.T) {
		t.Parallel()
		reg := newRegistry(t)

		report, err := reg.Register(context.Background(), validDeclaration("prometheus"))
		require.NoError(t, err)
		require.True(t, report.Valid(), "unexpected violations:\n%s", report)

		record, ok := reg.Get("prometheus")
		require.True(t, ok)
		assert.Equal(t, "prometheus", record.ID)
		assert.Equal(t, "Prometheus", record.Title)
		assert.Equal(t, "at_least_once", record.Classes.Delivery)
		assert.Equal(t, 1, reg.Len())
	})

	t.Run("Success: fragment references merge at their mount path", func(t *testing.T) {
		t.Parallel()
		reg := newRegistry(t)

		decl := validDeclaration("prometheus")
		decl.Uses = []config.UseRef{{
			Fragment: "_http_auth",
			At:       "configuration",
			Args:     map[string]cty.Value{"username_example": cty.StringVal("${USERNAME}")},
		}}

		report, err := reg.Register(context.Background(), decl)
		require.NoError(t, err)
		require.True(t, report.Valid(), "unexpected violations:\n%s", report)

		record, ok := reg.Get("prometheus")
		require.True(t, ok)

		// Base options survive next to the fragment-added one.
		require.Contains(t, record.Configuration, "endpoints")
		require.Contains(t, record.Configuration, "auth")
		auth := record.Configuration["auth"]
		assert.Equal(t, "Options for HTTP Basic Authentication.", auth.Description)
		assert.Equal(t, "string", auth.Type.Tag)
		assert.Equal(t, []any{"${USERNAME}"}, auth.Type.Examples)
	})

	t.Run("Success: identical resubmission is a no-op", func(t *testing.T) {
		t.Parallel()
		reg := newRegistry(t)

		_, err := reg.Register(context.Background(), validDeclaration("prometheus"))
		require.NoError(t, err)

		report, err := reg.Register(context.Background(), validDeclaration("prometheus"))
		require.NoError(t, err)
		assert.True(t, report.Valid())
		assert.Equal(t, 1, reg.Len())
	})

	t.Run("Failure: differing content for a registered id", func(t *testing.T) {
		t.Parallel()
		reg := newRegistry(t)

		_, err := reg.Register(context.Background(), validDeclaration("prometheus"))
		require.NoError(t, err)

		changed := validDeclaration("prometheus")
		changed.Base = testutil.SetAttr(changed.Base, "title", cty.StringVal("Prometheus v2"))

		_, err = reg.Register(context.Background(), changed)
		require.ErrorIs(t, err, ErrDuplicateID)

		record, _ := reg.Get("prometheus")
		assert.Equal(t, "Prometheus", record.Title, "conflicting submission must not mutate the registry")
	})

	t.Run("Failure: invalid record is rejected without mutation", func(t *testing.T) {
		t.Parallel()
		reg := newRegistry(t)

		decl := validDeclaration("prometheus")
		decl.Base = testutil.DropAttr(decl.Base, "configuration.endpoints.description")

		report, err := reg.Register(context.Background(), decl)
		require.NoError(t, err)
		require.False(t, report.Valid())

		_, ok := reg.Get("prometheus")
		assert.False(t, ok)
		assert.Equal(t, 0, reg.Len())
	})

	t.Run("Failure: unknown fragment aborts composition", func(t *testing.T) {
		t.Parallel()
		reg := newRegistry(t)

		decl := validDeclaration("prometheus")
		decl.Uses = []config.UseRef{{Fragment: "_missing", At: "configuration"}}

		report, err := reg.Register(context.Background(), decl)
		require.ErrorIs(t, err, fragment.ErrUnknownFragment)
		assert.Nil(t, report)
	})
}

func TestRegistry_Replace(t *testing.T) {
	t.Parallel()

	t.Run("Success: swaps differing content for an existing id", func(t *testing.T) {
		t.Parallel()
		reg := newRegistry(t)

		_, err := reg.Register(context.Background(), validDeclaration("prometheus"))
		require.NoError(t, err)

		changed := validDeclaration("prometheus")
		changed.Base = testutil.SetAttr(changed.Base, "title", cty.StringVal("Prometheus v2"))

		report, err := reg.Replace(context.Background(), changed)
		require.NoError(t, err)
		require.True(t, report.Valid())

		record, _ := reg.Get("prometheus")
		assert.Equal(t, "Prometheus v2", record.Title)
		assert.Equal(t, 1, reg.Len())
	})

	t.Run("Failure: invalid replacement leaves the registered record alone", func(t *testing.T) {
		t.Parallel()
		reg := newRegistry(t)

		_, err := reg.Register(context.Background(), validDeclaration("prometheus"))
		require.NoError(t, err)

		broken := validDeclaration("prometheus")
		broken.Base = testutil.SetAttr(broken.Base, "classes.delivery", cty.StringVal("sometimes"))

		report, err := reg.Replace(context.Background(), broken)
		require.NoError(t, err)
		require.False(t, report.Valid())

		record, _ := reg.Get("prometheus")
		assert.Equal(t, "Prometheus", record.Title)
	})
}

func TestRegistry_ListAndFilter(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t)
	for _, id := range []string{"statsd", "prometheus", "apache_metrics"} {
		_, err := reg.Register(context.Background(), validDeclaration(id))
		require.NoError(t, err)
	}

	var ids []string
	for _, record := range reg.List() {
		ids = append(ids, record.ID)
	}
	assert.Equal(t, []string{"apache_metrics", "prometheus", "statsd"}, ids, "listing is sorted by id")

	filtered := reg.Filter(func(r *model.ComponentRecord) bool { return r.ID == "statsd" })
	require.Len(t, filtered, 1)
	assert.Equal(t, "statsd", filtered[0].ID)

	snapshot := reg.Snapshot()
	assert.Len(t, snapshot, 3)
	assert.Contains(t, snapshot, "prometheus")
}
