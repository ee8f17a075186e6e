package api

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"
)

// --- Company Methods ---

func (c *Client) ListCompanies(ctx context.Context, params ListParams) (*ListResult, error) {
	var out ListResult
	if err := c.do(ctx, opCompaniesMain, params.Variables(), &out); err != nil {
		return nil, err
	}
	if out.List == nil {
		out.List = []Company{}
	}
	return &out, nil
}

func (c *Client) CountCompanies(ctx context.Context, params ListParams) (*Counts, error) {
	var out JSONMap
	if err := c.do(ctx, opCompanyCounts, params.Variables(), &out); err != nil {
		return nil, err
	}
	counts := decodeCounts(out)
	return &counts, nil
}

func (c *Client) CompanyDetail(ctx context.Context, id string) (*Company, error) {
	var out *Company
	if err := c.do(ctx, opCompanyDetail, map[string]any{"_id": id}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, goerr.New("company not found", goerr.V("companyID", id))
	}
	return out, nil
}

// CreateCompany submits fields to companiesAdd. Fields the mutation does
// not declare are rejected before any request is made.
func (c *Client) CreateCompany(ctx context.Context, fields map[string]any) (*Company, error) {
	vars := make(map[string]any, len(fields))
	var unknown []string
	for k, v := range fields {
		if _, ok := opCompaniesAdd.vars[k]; !ok {
			unknown = append(unknown, k)
			continue
		}
		vars[k] = v
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, goerr.New("unknown company field", goerr.V("fields", unknown))
	}
	var out Company
	if err := c.do(ctx, opCompaniesAdd, vars, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveCompanies(ctx context.Context, ids []string) error {
	return c.do(ctx, opCompaniesRemove, map[string]any{"companyIds": ids}, nil)
}

// MergeCompanies merges ids into one record and returns the surviving id.
func (c *Client) MergeCompanies(ctx context.Context, ids []string, fields map[string]any) (string, error) {
	var out struct {
		ID string `json:"_id"`
	}
	vars := map[string]any{"companyIds": ids, "companyFields": fields}
	if err := c.do(ctx, opCompaniesMerge, vars, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", goerr.New("merge returned no company id")
	}
	return out.ID, nil
}

// DefaultColumns returns the server-side default list columns for companies.
func (c *Client) DefaultColumns(ctx context.Context) ([]Column, error) {
	var out []Column
	if err := c.do(ctx, opDefaultColumns, map[string]any{"contentType": ContentTypeCompany}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Column{}
	}
	return out, nil
}

func (c *Client) ListTags(ctx context.Context, tagType string) ([]Tag, error) {
	vars := map[string]any{}
	if tagType != "" {
		vars["type"] = tagType
	}
	var out []Tag
	if err := c.do(ctx, opTags, vars, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Tag{}
	}
	return out, nil
}

// Login exchanges credentials for an API token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var token string
	vars := map[string]any{"email": email, "password": password}
	if err := c.do(ctx, opLogin, vars, &token); err != nil {
		return "", err
	}
	if token == "" {
		return "", goerr.New("login returned no token")
	}
	return token, nil
}

func decodeCounts(raw JSONMap) Counts {
	counts := EmptyCounts()
	fill := func(dst map[string]int, key string) {
		values, ok := raw[key].(map[string]any)
		if !ok {
			return
		}
		for k, v := range values {
			if n, ok := v.(float64); ok {
				dst[k] = int(n)
			}
		}
	}
	fill(counts.ByBrand, "byBrand")
	fill(counts.ByIntegrationType, "byIntegrationType")
	fill(counts.BySegment, "bySegment")
	fill(counts.ByTag, "byTag")
	return counts
}
