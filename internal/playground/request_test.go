package playground

import (
	"testing"

	"github.com/GabrielNunesIT/openapi-playground/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConfig() domain.TestConfiguration {
	items := domain.NewResource()

	list := &domain.OperationConfig{Verb: "GET", Endpoint: "/items"}
	list.Parameters.Add(domain.LocationQuery, "kind", domain.ParameterConfig{Type: domain.TypeString, Required: true, Options: []any{"PART", "SET"}})
	list.Parameters.Add(domain.LocationQuery, "page", domain.ParameterConfig{Type: domain.TypeNumber})
	list.Parameters.Add(domain.LocationQuery, "sort", domain.ParameterConfig{Type: domain.TypeString})
	items.Actions["get"] = list

	create := &domain.OperationConfig{Verb: "POST", Endpoint: "/items"}
	create.Parameters.Body = &domain.Body{Fields: domain.ParameterSet{
		"number": {Type: domain.TypeString, Required: true},
		"weight": {Type: domain.TypeNumber},
		"colors": {Type: domain.TypeArray, Options: []any{"red", "blue"}, MultipleSelect: true},
	}}
	items.Actions["create"] = create

	update := &domain.OperationConfig{Verb: "PUT", Endpoint: "/items/{id}"}
	update.Parameters.Add(domain.LocationPath, "id", domain.ParameterConfig{Type: domain.TypeNumber, Required: true})
	update.Parameters.Body = &domain.Body{Fields: domain.ParameterSet{"name": {Type: domain.TypeString}}}
	items.Actions["put"] = update

	remove := &domain.OperationConfig{Verb: "DELETE", Endpoint: "/api/items/:id"}
	remove.Parameters.Add(domain.LocationPath, "id", domain.ParameterConfig{Type: domain.TypeNumber, Required: true})
	items.Actions["delete"] = remove

	lots := domain.NewResource()

	bulk := &domain.OperationConfig{Verb: "POST", Endpoint: "/lots/bulk"}
	bulk.Parameters.Body = &domain.Body{IsArray: true, Fields: domain.ParameterSet{
		"item_id":  {Type: domain.TypeNumber, Required: true},
		"quantity": {Type: domain.TypeNumber},
	}}
	lots.Actions["create"] = bulk

	details := &domain.OperationConfig{Verb: "GET", Endpoint: "/items/details"}
	lots.Actions["get"] = details

	return domain.TestConfiguration{"Item": items, "Lot": lots}
}

func TestLookup(t *testing.T) {
	cfg := sampleConfig()

	op, err := Lookup(cfg, "Item", "get")
	require.NoError(t, err)

	query := op.Parameters.Location(domain.LocationQuery)
	assert.Contains(t, query, "kind")
	assert.NotContains(t, query, "page")
	assert.NotContains(t, query, "sort")

	// the stored configuration is left untouched
	assert.Contains(t, cfg["Item"].Actions["get"].Parameters.Location(domain.LocationQuery), "page")

	_, err = Lookup(cfg, "Item", "patch")
	assert.ErrorIs(t, err, ErrActionNotFound)

	_, err = Lookup(cfg, "Missing", "get")
	assert.ErrorIs(t, err, ErrActionNotFound)
}

func TestCanHaveBody(t *testing.T) {
	for _, verb := range []string{"POST", "put", "PATCH"} {
		assert.True(t, CanHaveBody(verb), verb)
	}

	for _, verb := range []string{"GET", "DELETE", "HEAD"} {
		assert.False(t, CanHaveBody(verb), verb)
	}
}

func TestMissingRequired(t *testing.T) {
	cfg := sampleConfig()

	assert.Equal(t, []string{"kind"}, MissingRequired(cfg["Item"].Actions["get"], Inputs{"kind": "  "}))
	assert.Empty(t, MissingRequired(cfg["Item"].Actions["get"], Inputs{"kind": "PART"}))
	assert.Equal(t, []string{"id"}, MissingRequired(cfg["Item"].Actions["put"], Inputs{}))
	assert.Empty(t, MissingRequired(cfg["Item"].Actions["put"], Inputs{"id": float64(7)}))
}

func TestBuildRequestGet(t *testing.T) {
	op, err := Lookup(sampleConfig(), "Item", "get")
	require.NoError(t, err)

	req := BuildRequest(op, Inputs{"kind": "PART", "page": "2", "limit": float64(10), "ignored": "x"})

	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/api/items?kind=PART&limit=10&page=2", req.URL)
	assert.Nil(t, req.Body)
	assert.Equal(t, "application/json", req.Headers["Content-Type"])
}

func TestBuildRequestPathParams(t *testing.T) {
	cfg := sampleConfig()

	req := BuildRequest(cfg["Item"].Actions["put"], Inputs{"id": float64(42), "name": "Brick"})
	assert.Equal(t, "/api/items/42", req.URL)
	assert.Equal(t, map[string]any{"name": "Brick"}, req.Body)

	req = BuildRequest(cfg["Item"].Actions["delete"], Inputs{"id": "a b"})
	assert.Equal(t, "/api/items/a%20b", req.URL)
	assert.Nil(t, req.Body)
}

func TestBuildRequestOverlappingPathParams(t *testing.T) {
	op := &domain.OperationConfig{Verb: "GET", Endpoint: "/items/:id/:id_type/{id}/{id_type}/:missing"}
	op.Parameters.Add(domain.LocationPath, "id", domain.ParameterConfig{Type: domain.TypeNumber, Required: true})
	op.Parameters.Add(domain.LocationPath, "id_type", domain.ParameterConfig{Type: domain.TypeString, Required: true})

	for range 50 {
		req := BuildRequest(op, Inputs{"id": float64(7), "id_type": "x"})
		require.Equal(t, "/api/items/7/x/7/x/:missing", req.URL)
	}
}

func TestBuildRequestObjectBody(t *testing.T) {
	req := BuildRequest(sampleConfig()["Item"].Actions["create"], Inputs{
		"number": "3001",
		"weight": " 2.5 ",
		"colors": "red",
		"extra":  "dropped",
	})

	assert.Equal(t, "/api/items", req.URL)
	assert.Equal(t, map[string]any{
		"number": "3001",
		"weight": 2.5,
		"colors": []any{"red"},
	}, req.Body)

	req = BuildRequest(sampleConfig()["Item"].Actions["create"], Inputs{"number": ""})
	assert.Nil(t, req.Body)
}

func TestBuildRequestArrayBody(t *testing.T) {
	req := BuildRequest(sampleConfig()["Lot"].Actions["create"], Inputs{
		"body": []any{
			map[string]any{"item_id": "5", "quantity": float64(3)},
			map[string]any{"item_id": ""},
			"not an object",
			map[string]any{"item_id": float64(6), "unknown": true},
		},
	})

	assert.Equal(t, []any{
		map[string]any{"item_id": 5.0, "quantity": 3.0},
		map[string]any{"item_id": 6.0},
	}, req.Body)
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, 3.0, coerce(domain.TypeNumber, "3"))
	assert.Nil(t, coerce(domain.TypeNumber, "three"))
	assert.Equal(t, []any{"a", "b"}, coerce(domain.TypeArray, []string{"a", "b"}))
	assert.Equal(t, true, coerce(domain.TypeBoolean, true))
}
