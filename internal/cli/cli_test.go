package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const componentDoc = `
component "prometheus" {
  title       = "Prometheus"
  description = "Scrapes endpoints exposing the Prometheus text format."

  classes {
    commonly_used    = true
    delivery         = "at_least_once"
    deployment_roles = ["daemon"]
    development      = "beta"
    egress_method    = "batch"
  }

  support {
    platforms = {
      "x86_64-unknown-linux-gnu" = true
    }
  }

  configuration "endpoints" {
    description = "Endpoint URLs to scrape metrics from."
    required    = true
    type "array" {
      items {
        type "string" {
          examples = ["http://localhost:9090/metrics"]
        }
      }
    }
  }
}
`

func writeComponentsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prometheus.hcl"), []byte(componentDoc), 0o644))
	return dir
}

func TestExecute(t *testing.T) {
	t.Parallel()

	t.Run("Success: export writes JSON to stdout", func(t *testing.T) {
		t.Parallel()
		dir := writeComponentsDir(t)

		var outW, errW bytes.Buffer
		err := Execute(&outW, &errW, []string{"export", "--components", dir, "--log-level", "error"})
		require.NoError(t, err)

		var export struct {
			Components []struct {
				ID string `json:"id"`
			} `json:"components"`
		}
		require.NoError(t, json.Unmarshal(outW.Bytes(), &export))
		require.Len(t, export.Components, 1)
		assert.Equal(t, "prometheus", export.Components[0].ID)
	})

	t.Run("Success: validate leaves stdout empty", func(t *testing.T) {
		t.Parallel()
		dir := writeComponentsDir(t)

		var outW, errW bytes.Buffer
		err := Execute(&outW, &errW, []string{"validate", "--components", dir, "--log-level", "error"})
		require.NoError(t, err)
		assert.Empty(t, outW.String())
	})

	t.Run("Success: export honors the output file flag", func(t *testing.T) {
		t.Parallel()
		dir := writeComponentsDir(t)
		outPath := filepath.Join(t.TempDir(), "registry.json")

		var outW, errW bytes.Buffer
		err := Execute(&outW, &errW, []string{
			"export", "--components", dir, "--output", outPath, "--log-level", "error",
		})
		require.NoError(t, err)
		assert.Empty(t, outW.String())

		data, err := os.ReadFile(outPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"id": "prometheus"`)
	})

	t.Run("Failure: nonexistent components path", func(t *testing.T) {
		t.Parallel()

		var outW, errW bytes.Buffer
		err := Execute(&outW, &errW, []string{
			"export", "--components", filepath.Join(t.TempDir(), "missing"), "--log-level", "error",
		})
		require.Error(t, err)
		assert.Contains(t, errW.String(), "Error:")
	})

	t.Run("Failure: unsupported export format", func(t *testing.T) {
		t.Parallel()
		dir := writeComponentsDir(t)

		var outW, errW bytes.Buffer
		err := Execute(&outW, &errW, []string{
			"export", "--components", dir, "--format", "toml", "--log-level", "error",
		})
		require.Error(t, err)
		assert.ErrorContains(t, err, "toml")
	})
}
