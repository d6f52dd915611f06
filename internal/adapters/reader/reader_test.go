package reader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/GabrielNunesIT/openapi-playground/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSpec = `openapi: "3.0.0"
info:
  title: Item API
  version: "1.0.0"
paths:
  /items:
    get:
      responses:
        "200":
          description: OK
  /items/{id}:
    put:
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: integer
      responses:
        "200":
          description: OK
`

func newTestReader(opts Options) *Reader {
	return New(logger.NewConsoleLogger(io.Discard), opts)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestParseDocumentPreservesOrder(t *testing.T) {
	doc, err := ParseDocument("order.yaml", []byte(`paths:
  /zeta: {}
  /alpha: {}
  /mid: {}
`))
	require.NoError(t, err)

	root, ok := doc.Root.(*domain.Map)
	require.True(t, ok)

	pathsNode, _ := root.Get("paths")
	paths, ok := pathsNode.(*domain.Map)
	require.True(t, ok)
	assert.Equal(t, []string{"/zeta", "/alpha", "/mid"}, paths.Keys())
}

func TestParseDocumentScalarsAndAliases(t *testing.T) {
	doc, err := ParseDocument("scalars.yaml", []byte(`base: &base
  type: integer
  enum: [1, 2]
copy: *base
flag: true
ratio: 1.5
none: ~
200: ok
`))
	require.NoError(t, err)

	root := doc.Root.(*domain.Map)

	copied, _ := root.Get("copy")
	copyMap, ok := copied.(*domain.Map)
	require.True(t, ok)

	enum, _ := copyMap.Get("enum")
	assert.Equal(t, []any{1, 2}, enum)

	flag, _ := root.Get("flag")
	assert.Equal(t, true, flag)

	ratio, _ := root.Get("ratio")
	assert.Equal(t, 1.5, ratio)

	none, found := root.Get("none")
	assert.True(t, found)
	assert.Nil(t, none)

	status, found := root.Get("200")
	assert.True(t, found)
	assert.Equal(t, "ok", status)
}

func TestParseDocumentAliasExpansionLimit(t *testing.T) {
	var doc strings.Builder
	doc.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x]\n")

	for i := 1; i <= 9; i++ {
		prev := fmt.Sprintf("*l%d", i-1)
		refs := strings.TrimSuffix(strings.Repeat(prev+", ", 9), ", ")
		fmt.Fprintf(&doc, "l%d: &l%d [%s]\n", i, i, refs)
	}

	start := time.Now()
	_, err := ParseDocument("bomb.yaml", []byte(doc.String()))

	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestParseDocumentJSON(t *testing.T) {
	doc, err := ParseDocument("spec.json", []byte(`{"info": {"title": "Json API"}, "paths": {}}`))
	require.NoError(t, err)

	info, _ := doc.Root.(*domain.Map).Get("info")
	title, _ := info.(*domain.Map).Get("title")
	assert.Equal(t, "Json API", title)
}

func TestParseDocumentInvalid(t *testing.T) {
	_, err := ParseDocument("bad.yaml", []byte("paths: [unclosed"))
	assert.Error(t, err)
}

func TestReadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", validSpec)
	writeFile(t, dir, "a.yml", "info:\n  title: Lot API\n")
	writeFile(t, dir, "broken.yaml", "info: [oops")
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755))

	docs, errs, err := newTestReader(Options{}).ReadDir(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, docs, 2)
	assert.Equal(t, "a.yml", docs[0].Source)
	assert.Equal(t, "b.yaml", docs[1].Source)

	require.Len(t, errs, 1)
	assert.Equal(t, "broken.yaml", errs[0].Source)
}

func TestReadDirMissing(t *testing.T) {
	_, _, err := newTestReader(Options{}).ReadDir(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrSpecDirNotFound)
}

func TestReadFileUnsupported(t *testing.T) {
	_, err := newTestReader(Options{}).ReadFile(context.Background(), "spec.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadDirValidation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "valid.yaml", validSpec)
	writeFile(t, dir, "loose.yaml", "info:\n  title: Loose API\npaths:\n  /x:\n    get: {}\n")

	docs, errs, err := newTestReader(Options{Validate: true}).ReadDir(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "valid.yaml", docs[0].Source)

	require.Len(t, errs, 1)
	assert.Equal(t, "loose.yaml", errs[0].Source)
}

func TestReadURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/specs/items.yaml" {
			_, _ = w.Write([]byte(validSpec))
			return
		}

		http.NotFound(w, r)
	}))
	defer server.Close()

	r := newTestReader(Options{})

	doc, err := r.ReadURL(context.Background(), server.URL+"/specs/items.yaml")
	require.NoError(t, err)
	assert.Equal(t, "items.yaml", doc.Source)

	_, err = r.ReadURL(context.Background(), server.URL+"/missing.yaml")
	assert.Error(t, err)
}
