package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lotSpec = `openapi: "3.0.0"
info:
  title: Lot API
paths:
  /lots:
    get:
      parameters:
        - name: status
          in: query
          required: true
          schema:
            type: string
    post:
      requestBody:
        content:
          application/json:
            schema:
              type: array
              items:
                type: object
                required: [item_id]
                properties:
                  item_id:
                    type: integer
                  quantity:
                    type: integer
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	c := New(logger.NewConsoleLogger(io.Discard))

	var out bytes.Buffer
	c.rootCmd.SetOut(&out)
	c.rootCmd.SetErr(io.Discard)
	c.rootCmd.SetArgs(args)

	err := c.Execute()

	return out.String(), err
}

func specDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lot.yaml"), []byte(lotSpec), 0o644))

	return dir
}

func TestConvertJSON(t *testing.T) {
	out, err := run(t, "convert", "--spec-dir", specDir(t))
	require.NoError(t, err)

	var cfg map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	require.Contains(t, cfg, "Lot")
	assert.Contains(t, cfg["Lot"], "get")
	assert.Contains(t, cfg["Lot"], "post")
}

func TestConvertToFile(t *testing.T) {
	output := filepath.Join(t.TempDir(), "lots.pdf")

	_, err := run(t, "convert", "-d", specDir(t), "-f", "pdf", "-o", output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestConvertNoResources(t *testing.T) {
	_, err := run(t, "convert", "--spec-dir", t.TempDir())
	assert.ErrorIs(t, err, ErrNoResources)
}

func TestConvertUnsupportedFormat(t *testing.T) {
	_, err := run(t, "convert", "--spec-dir", specDir(t), "--format", "html")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestRequestMock(t *testing.T) {
	out, err := run(t, "request", "Lot", "post", "--spec-dir", specDir(t),
		"--body", `[{"item_id": "4", "quantity": "2"}, {"item_id": ""}]`)
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, true, result["mock"])
	assert.Equal(t, 201.0, result["status"])

	request := result["request"].(map[string]any)
	assert.Equal(t, "/api/lots", request["url"])
	assert.Equal(t, []any{map[string]any{"item_id": 4.0, "quantity": 2.0}}, request["body"])
}

func TestRequestMissingRequired(t *testing.T) {
	_, err := run(t, "request", "Lot", "get", "--spec-dir", specDir(t))
	assert.ErrorContains(t, err, "missing required fields: status")

	out, err := run(t, "request", "Lot", "get", "--spec-dir", specDir(t), "--set", "status=open")
	require.NoError(t, err)
	assert.Contains(t, out, `"url": "/api/lots?status=open"`)
}

func TestRequestUnknownAction(t *testing.T) {
	_, err := run(t, "request", "Lot", "delete", "--spec-dir", specDir(t))
	assert.ErrorContains(t, err, "test configuration not found")
}

func TestRequestInvalidInputs(t *testing.T) {
	_, err := run(t, "request", "Lot", "get", "--spec-dir", specDir(t), "--set", "broken")
	assert.ErrorContains(t, err, "expected name=value")

	_, err = run(t, "request", "Lot", "get", "--spec-dir", specDir(t), "--body", `"text"`)
	assert.ErrorContains(t, err, "invalid --body")
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, "42", parseValue("42"))
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, []any{"a", "b"}, parseValue(`["a","b"]`))
	assert.Equal(t, "plain", parseValue("plain"))
}

func TestConfigFileAndFlags(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "playground.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("spec_dir: "+specDir(t)+"\n"), 0o644))

	out, err := run(t, "convert", "--config", configFile)
	require.NoError(t, err)
	assert.Contains(t, out, `"Lot"`)

	_, err = run(t, "convert", "--config", configFile, "--spec-dir", t.TempDir())
	assert.ErrorIs(t, err, ErrNoResources)
}
