package playground

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockBackendRouting(t *testing.T) {
	mock := NewMockBackend(sampleConfig())

	tests := []struct {
		name     string
		method   string
		url      string
		body     string
		status   int
		code     string
		wantData any
	}{
		{
			name:     "exact match",
			method:   "GET",
			url:      "/api/items?kind=PART",
			status:   http.StatusOK,
			code:     CodeSuccess,
			wantData: []any{map[string]any{"kind": "PART"}},
		},
		{
			name:     "exact path wins over template",
			method:   "GET",
			url:      "/api/items/details",
			status:   http.StatusOK,
			code:     CodeSuccess,
			wantData: []any{map[string]any{}},
		},
		{
			name:     "template with braces",
			method:   "PUT",
			url:      "/api/items/42",
			body:     `{"name":"Brick"}`,
			status:   http.StatusOK,
			code:     CodeSuccess,
			wantData: []any{map[string]any{"id": "42", "name": "Brick"}},
		},
		{
			name:     "template with colon",
			method:   "DELETE",
			url:      "/api/items/42",
			status:   http.StatusOK,
			code:     CodeSuccess,
			wantData: []any{},
		},
		{
			name:   "missing required query",
			method: "GET",
			url:    "/api/items",
			status: http.StatusBadRequest,
			code:   CodeValidationError,
		},
		{
			name:   "missing required body field",
			method: "POST",
			url:    "/api/items",
			body:   `{"weight": 1}`,
			status: http.StatusBadRequest,
			code:   CodeValidationError,
		},
		{
			name:   "invalid json",
			method: "POST",
			url:    "/api/items",
			body:   `{"number":`,
			status: http.StatusBadRequest,
			code:   CodeInvalidBody,
		},
		{
			name:   "unknown route",
			method: "GET",
			url:    "/api/unknown",
			status: http.StatusNotFound,
			code:   CodeMockNotFound,
		},
		{
			name:   "unknown method",
			method: "PATCH",
			url:    "/api/items/1",
			status: http.StatusNotFound,
			code:   CodeMockNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := mock.Respond(tt.method, tt.url, []byte(tt.body))

			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.status, env.Meta.HTTPStatusCode)

			if tt.status < 300 {
				require.NotNil(t, env.Meta.Success)
				assert.True(t, env.Success)
				assert.Equal(t, tt.code, env.Meta.Success.Code)
				assert.Equal(t, tt.wantData, env.Data)

				return
			}

			require.NotNil(t, env.Meta.Error)
			assert.False(t, env.Success)
			assert.Equal(t, tt.code, env.Meta.Error.Code)
		})
	}
}

func TestMockBackendValidationMessage(t *testing.T) {
	_, env := NewMockBackend(sampleConfig()).Respond("POST", "/api/lots/bulk", []byte(`[{"quantity": 1}]`))
	assert.Equal(t, "Missing required fields: item_id", env.ErrorMessage())
}

func TestMockBackendCreate(t *testing.T) {
	mock := NewMockBackend(sampleConfig())

	status, env := mock.Respond("POST", "/api/lots/bulk", []byte(`[{"item_id": 1}, {"item_id": 2, "id": 9}]`))
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, CodeCreated, env.Meta.Success.Code)

	items, ok := env.Data.([]any)
	require.True(t, ok)
	require.Len(t, items, 2)

	first := items[0].(map[string]any)
	assert.Equal(t, int64(firstMockID+1), first["id"])
	assert.Equal(t, 1.0, first["item_id"])

	second := items[1].(map[string]any)
	assert.Equal(t, 9.0, second["id"])
}

func TestMockBackendServeHTTP(t *testing.T) {
	server := httptest.NewServer(NewMockBackend(sampleConfig()))
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/items", "application/json", strings.NewReader(`{"number":"3001"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestMockTemplate(t *testing.T) {
	assert.Equal(t, "/api/items/{id}/parts/{part_id}", mockTemplate("/items/:id/parts/{part_id}"))
	assert.Equal(t, "/api/lots", mockTemplate("/api/lots"))
}

func TestMockBackendLoadKeepsIDs(t *testing.T) {
	mock := NewMockBackend(sampleConfig())

	_, env := mock.Respond("POST", "/api/items", []byte(`{"number":"1"}`))
	assert.Equal(t, int64(firstMockID+1), env.Data.([]any)[0].(map[string]any)["id"])

	mock.Load(sampleConfig())

	_, env = mock.Respond("POST", "/api/items", []byte(`{"number":"2"}`))
	assert.Equal(t, int64(firstMockID+2), env.Data.([]any)[0].(map[string]any)["id"])

	mock.Load(nil)

	status, _ := mock.Respond("POST", "/api/items", []byte(`{"number":"3"}`))
	assert.Equal(t, http.StatusNotFound, status)
}
