package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONMapUnmarshalObject(t *testing.T) {
	var m JSONMap
	require.NoError(t, json.Unmarshal([]byte(`{"a":1}`), &m))
	assert.Equal(t, float64(1), m["a"])
}

func TestJSONMapUnmarshalJSONString(t *testing.T) {
	var m JSONMap
	require.NoError(t, json.Unmarshal([]byte(`"{\"a\":2}"`), &m))
	assert.Equal(t, float64(2), m["a"])
}

func TestCompanyKeepsUnknownFieldsOpaque(t *testing.T) {
	var c Company
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"E1","primaryName":"Acme","size":12,"tagIds":["a","b"]}`), &c))
	assert.Equal(t, "E1", c.ID)
	assert.NotContains(t, c.Fields, "_id")
	assert.Equal(t, "12", c.Field("size"))
	assert.Equal(t, "a, b", c.Field("tagIds"))
	assert.Equal(t, "", c.Field("missing"))

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"E1","primaryName":"Acme","size":12,"tagIds":["a","b"]}`, string(out))
}

func TestCompanyNameFallsBackToNamesThenID(t *testing.T) {
	withNames := Company{ID: "E1", Fields: JSONMap{"names": []any{"Acme Holdings"}}}
	assert.Equal(t, "Acme Holdings", withNames.Name())

	bare := Company{ID: "E2", Fields: JSONMap{}}
	assert.Equal(t, "E2", bare.Name())
}

func TestListParamsVariablesOmitUnset(t *testing.T) {
	vars := ListParams{PerPage: 20}.Variables()
	assert.Equal(t, map[string]any{"perPage": 20}, vars)

	full := ListParams{Page: 2, PerPage: 50, Segment: "s", Tag: "t", IDs: []string{"E1"}, SearchValue: "q"}.Variables()
	assert.Len(t, full, 6)
}

func TestCountsNormalizeFillsNilMaps(t *testing.T) {
	c := Counts{ByTag: map[string]int{"vip": 1}}.Normalize()
	assert.NotNil(t, c.ByBrand)
	assert.NotNil(t, c.ByIntegrationType)
	assert.NotNil(t, c.BySegment)
	assert.Equal(t, 1, c.ByTag["vip"])
}

func TestParseOperationRejectsAnonymous(t *testing.T) {
	_, err := parseOperation(`query { tags { _id } }`)
	assert.Error(t, err)
}

func TestParseOperationCollectsVariables(t *testing.T) {
	op, err := parseOperation(`mutation rename($id: String!, $name: String) { rename(id: $id, name: $name) }`)
	require.NoError(t, err)
	assert.Equal(t, "rename", op.name)
	assert.Equal(t, "rename", op.root)
	assert.Contains(t, op.vars, "id")
	assert.Contains(t, op.vars, "name")
}
