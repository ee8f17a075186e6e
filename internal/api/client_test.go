package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

func testServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, "tok_test")
	return srv, client
}

func decodeRequest(t *testing.T, r *http.Request) capturedRequest {
	t.Helper()
	var req capturedRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	return req
}

func jsonData(field string, value any) []byte {
	b, _ := json.Marshal(map[string]any{"data": map[string]any{field: value}})
	return b
}

func TestListCompaniesSendsListParams(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, GraphQLPath, r.URL.Path)
		assert.Equal(t, "Bearer tok_test", r.Header.Get("Authorization"))
		req := decodeRequest(t, r)
		assert.Equal(t, "companiesMain", req.OperationName)
		assert.Equal(t, float64(1), req.Variables["page"])
		assert.Equal(t, float64(20), req.Variables["perPage"])
		assert.Equal(t, "acme", req.Variables["searchValue"])
		assert.NotContains(t, req.Variables, "tag")
		w.Write(jsonData("companiesMain", map[string]any{
			"list": []map[string]any{
				{"_id": "E1", "primaryName": "Acme"},
				{"_id": "E2", "primaryName": "Acme Labs"},
			},
			"totalCount": 2,
		}))
	})

	result, err := client.ListCompanies(context.Background(), ListParams{Page: 1, PerPage: 20, SearchValue: "acme"})
	require.NoError(t, err)
	require.Len(t, result.List, 2)
	assert.Equal(t, "E1", result.List[0].ID)
	assert.Equal(t, "Acme", result.List[0].Name())
	assert.Equal(t, 2, result.TotalCount)
}

func TestListCompaniesNullListBecomesEmpty(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(jsonData("companiesMain", map[string]any{"list": nil, "totalCount": 0}))
	})

	result, err := client.ListCompanies(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.NotNil(t, result.List)
	assert.Empty(t, result.List)
}

func TestCountCompaniesDecodesBreakdown(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		assert.Equal(t, "companyCounts", req.OperationName)
		assert.Equal(t, "vip", req.Variables["tag"])
		w.Write(jsonData("companyCounts", map[string]any{
			"byTag":     map[string]any{"vip": 3},
			"bySegment": map[string]any{"seg-1": 1},
		}))
	})

	counts, err := client.CountCompanies(context.Background(), ListParams{Tag: "vip"})
	require.NoError(t, err)
	assert.Equal(t, 3, counts.ByTag["vip"])
	assert.Equal(t, 1, counts.BySegment["seg-1"])
	assert.NotNil(t, counts.ByBrand)
	assert.NotNil(t, counts.ByIntegrationType)
}

func TestCountCompaniesAcceptsStringEncodedJSON(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(jsonData("companyCounts", `{"byBrand":{"b1":4}}`))
	})

	counts, err := client.CountCompanies(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 4, counts.ByBrand["b1"])
}

func TestCreateCompanyRejectsUndeclaredFields(t *testing.T) {
	called := false
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.CreateCompany(context.Background(), map[string]any{"primaryName": "Acme", "shoeSize": 9})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown company field")
	assert.False(t, called)
}

func TestCreateCompanySurfacesGraphQLMessageVerbatim(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		assert.Equal(t, "companiesAdd", req.OperationName)
		assert.Equal(t, "Acme", req.Variables["primaryName"])
		w.Write([]byte(`{"data":{"companiesAdd":null},"errors":[{"message":"duplicate name"}]}`))
	})

	_, err := client.CreateCompany(context.Background(), map[string]any{"primaryName": "Acme"})
	require.Error(t, err)
	assert.Equal(t, "duplicate name", err.Error())
}

func TestRemoveCompaniesSendsIDs(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		assert.Equal(t, "companiesRemove", req.OperationName)
		assert.Equal(t, []any{"E1", "E2"}, req.Variables["companyIds"])
		w.Write(jsonData("companiesRemove", []string{"E1", "E2"}))
	})

	require.NoError(t, client.RemoveCompanies(context.Background(), []string{"E1", "E2"}))
}

func TestMergeCompaniesReturnsSurvivingID(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		assert.Equal(t, "companiesMerge", req.OperationName)
		assert.Equal(t, []any{"E1", "E2"}, req.Variables["companyIds"])
		assert.Equal(t, map[string]any{"primaryName": "Merged Co"}, req.Variables["companyFields"])
		w.Write(jsonData("companiesMerge", map[string]any{"_id": "E3"}))
	})

	id, err := client.MergeCompanies(context.Background(), []string{"E1", "E2"}, map[string]any{"primaryName": "Merged Co"})
	require.NoError(t, err)
	assert.Equal(t, "E3", id)
}

func TestMergeCompaniesWithoutIDErrors(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(jsonData("companiesMerge", nil))
	})

	_, err := client.MergeCompanies(context.Background(), []string{"E1", "E2"}, nil)
	assert.Error(t, err)
}

func TestCompanyDetailNotFound(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(jsonData("companyDetail", nil))
	})

	_, err := client.CompanyDetail(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "company not found")
}

func TestDefaultColumnsScopesToCompanies(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		assert.Equal(t, ContentTypeCompany, req.Variables["contentType"])
		w.Write(jsonData("fieldsDefaultColumnsConfig", []map[string]any{
			{"name": "primaryName", "label": "Primary name", "order": 0},
			{"name": "website", "label": "Website", "order": 1},
		}))
	})

	cols, err := client.DefaultColumns(context.Background())
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "website", cols[1].Name)
}

func TestLoginReturnsToken(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		assert.Equal(t, "login", req.OperationName)
		assert.Equal(t, "ops@example.com", req.Variables["email"])
		w.Write(jsonData("login", "tok_new"))
	})

	token, err := client.Login(context.Background(), "ops@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok_new", token)
}

func TestHTTPErrorWithoutGraphQLBody(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	})

	_, err := client.ListTags(context.Background(), TagTypeCompany)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
	assert.Contains(t, err.Error(), "upstream down")
}

func TestMultipleGraphQLErrorsAreJoined(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"message":"first"},{"message":"second"}]}`))
	})

	err := client.RemoveCompanies(context.Background(), []string{"E1"})
	require.Error(t, err)
	assert.Equal(t, "first; second", err.Error())
}

func TestRequestHonoursContextCancellation(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(jsonData("tags", []any{}))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.ListTags(ctx, TagTypeCompany)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestCloseIdleConnectionsKeepsClientUsable(t *testing.T) {
	calls := 0
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write(jsonData("tags", []any{}))
	})

	_, err := client.ListTags(context.Background(), TagTypeCompany)
	require.NoError(t, err)
	client.CloseIdleConnections()

	// a fresh connection is dialled for the next request
	_, err = client.ListTags(context.Background(), TagTypeCompany)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
