package hclval

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func parseBody(t *testing.T, src string) hcl.Body {
	t.Helper()
	file, diags := hclparse.NewParser().ParseHCL([]byte(src), "test.hcl")
	require.False(t, diags.HasErrors(), "parse: %s", diags)
	return file.Body
}

func TestFromBody(t *testing.T) {
	t.Parallel()

	t.Run("Success: attributes and nested blocks become nested objects", func(t *testing.T) {
		t.Parallel()
		body := parseBody(t, `
			title = "Prometheus"
			classes {
				delivery = "at_least_once"
			}
		`)

		val, diags := FromBody(body, nil)
		require.False(t, diags.HasErrors(), "%s", diags)

		assert.Equal(t, "Prometheus", val.GetAttr("title").AsString())
		assert.Equal(t, "at_least_once", val.GetAttr("classes").GetAttr("delivery").AsString())
	})

	t.Run("Success: labeled blocks nest under their labels", func(t *testing.T) {
		t.Parallel()
		body := parseBody(t, `
			configuration "endpoints" {
				required = true
			}
			configuration "auth" {
				required = false
			}
		`)

		val, diags := FromBody(body, nil)
		require.False(t, diags.HasErrors(), "%s", diags)

		config := val.GetAttr("configuration")
		assert.True(t, config.GetAttr("endpoints").GetAttr("required").True())
		assert.False(t, config.GetAttr("auth").GetAttr("required").True())
	})

	t.Run("Success: repeated unlabeled blocks merge in document order", func(t *testing.T) {
		t.Parallel()
		body := parseBody(t, `
			support {
				warnings = ["w1"]
			}
			support {
				warnings = ["w2"]
			}
		`)

		val, diags := FromBody(body, nil)
		require.False(t, diags.HasErrors(), "%s", diags)

		want := cty.TupleVal([]cty.Value{cty.StringVal("w1"), cty.StringVal("w2")})
		assert.True(t, val.GetAttr("support").GetAttr("warnings").RawEquals(want))
	})

	t.Run("Success: expressions evaluate against the supplied context", func(t *testing.T) {
		t.Parallel()
		body := parseBody(t, `url = urls.homepage`)
		ctx := &hcl.EvalContext{
			Variables: map[string]cty.Value{
				"urls": cty.ObjectVal(map[string]cty.Value{
					"homepage": cty.StringVal("https://prometheus.io/"),
				}),
			},
		}

		val, diags := FromBody(body, ctx)
		require.False(t, diags.HasErrors(), "%s", diags)
		assert.Equal(t, "https://prometheus.io/", val.GetAttr("url").AsString())
	})

	t.Run("Failure: unresolved variable reports a diagnostic", func(t *testing.T) {
		t.Parallel()
		body := parseBody(t, `url = urls.homepage`)

		_, diags := FromBody(body, &hcl.EvalContext{})
		assert.True(t, diags.HasErrors())
	})
}

func TestRequiredArgs(t *testing.T) {
	t.Parallel()

	t.Run("Success: collects distinct args placeholders across nesting", func(t *testing.T) {
		t.Parallel()
		body := parseBody(t, `
			auth {
				type "object" {
					options "password" {
						examples = [args.password_example]
					}
					options "username" {
						examples = [args.username_example, args.password_example]
					}
				}
			}
		`)

		assert.Equal(t, []string{"password_example", "username_example"}, RequiredArgs(body))
	})

	t.Run("Success: body without placeholders yields none", func(t *testing.T) {
		t.Parallel()
		body := parseBody(t, `description = "static"`)
		assert.Empty(t, RequiredArgs(body))
	})
}
