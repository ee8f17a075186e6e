package api

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// JSONMap handles JSON scalar fields that some resolvers return as strings.
type JSONMap map[string]any

func (j *JSONMap) UnmarshalJSON(data []byte) error {
	// Try as object first
	var m map[string]any
	if err := json.Unmarshal(data, &m); err == nil {
		*j = m
		return nil
	}
	// Try as string containing JSON
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "null" {
			*j = make(map[string]any)
			return nil
		}
		return json.Unmarshal([]byte(s), (*map[string]any)(j))
	}
	*j = make(map[string]any)
	return nil
}

// --- Company ---

// Company is one registry record. Only the identifier is interpreted; the
// remaining fields are carried as an opaque map.
type Company struct {
	ID     string
	Fields JSONMap
}

func (c *Company) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, _ := raw["_id"].(string)
	delete(raw, "_id")
	if raw == nil {
		raw = map[string]any{}
	}
	c.ID = id
	c.Fields = raw
	return nil
}

func (c Company) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Fields)+1)
	for k, v := range c.Fields {
		out[k] = v
	}
	out["_id"] = c.ID
	return json.Marshal(out)
}

// Field renders one field for display; missing fields render empty.
func (c Company) Field(name string) string {
	if name == "_id" {
		return c.ID
	}
	return FormatValue(c.Fields[name])
}

// Name returns the best display name the record carries.
func (c Company) Name() string {
	if name := strings.TrimSpace(c.Field("primaryName")); name != "" {
		return name
	}
	if names, ok := c.Fields["names"].([]any); ok && len(names) > 0 {
		if first := strings.TrimSpace(FormatValue(names[0])); first != "" {
			return first
		}
	}
	return c.ID
}

// FormatValue turns a decoded JSON value into a single display line.
func FormatValue(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		if typed == float64(int64(typed)) {
			return fmt.Sprintf("%d", int64(typed))
		}
		return fmt.Sprintf("%g", typed)
	case []any:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, FormatValue(item))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for k := range typed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+FormatValue(typed[k]))
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprintf("%v", typed)
	}
}

// --- List Queries ---

// ListParams are the variables shared by the list and counts queries.
type ListParams struct {
	Page        int      `json:"page,omitempty"`
	PerPage     int      `json:"perPage,omitempty"`
	Segment     string   `json:"segment,omitempty"`
	Tag         string   `json:"tag,omitempty"`
	IDs         []string `json:"ids,omitempty"`
	SearchValue string   `json:"searchValue,omitempty"`
}

// Variables converts params into GraphQL variables, omitting unset values.
func (p ListParams) Variables() map[string]any {
	vars := map[string]any{}
	if p.Page > 0 {
		vars["page"] = p.Page
	}
	if p.PerPage > 0 {
		vars["perPage"] = p.PerPage
	}
	if p.Segment != "" {
		vars["segment"] = p.Segment
	}
	if p.Tag != "" {
		vars["tag"] = p.Tag
	}
	if len(p.IDs) > 0 {
		vars["ids"] = p.IDs
	}
	if p.SearchValue != "" {
		vars["searchValue"] = p.SearchValue
	}
	return vars
}

// ListResult is one page of companies; TotalCount reflects the filter, not the page.
type ListResult struct {
	List       []Company `json:"list"`
	TotalCount int       `json:"totalCount"`
}

// Counts is the per-dimension breakdown shown in the filter sidebar.
type Counts struct {
	ByBrand           map[string]int `json:"byBrand"`
	ByIntegrationType map[string]int `json:"byIntegrationType"`
	BySegment         map[string]int `json:"bySegment"`
	ByTag             map[string]int `json:"byTag"`
}

// EmptyCounts returns a breakdown with every dimension present and empty.
func EmptyCounts() Counts {
	return Counts{
		ByBrand:           map[string]int{},
		ByIntegrationType: map[string]int{},
		BySegment:         map[string]int{},
		ByTag:             map[string]int{},
	}
}

// Normalize replaces nil dimensions with empty maps.
func (c Counts) Normalize() Counts {
	if c.ByBrand == nil {
		c.ByBrand = map[string]int{}
	}
	if c.ByIntegrationType == nil {
		c.ByIntegrationType = map[string]int{}
	}
	if c.BySegment == nil {
		c.BySegment = map[string]int{}
	}
	if c.ByTag == nil {
		c.ByTag = map[string]int{}
	}
	return c
}

// --- Columns & Tags ---

// Column describes one visible list column.
type Column struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Order int    `json:"order,omitempty"`
}

// Tag is a label that can be attached to companies.
type Tag struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Colour      string `json:"colour,omitempty"`
	ObjectCount int    `json:"objectCount,omitempty"`
}

// TagTypeCompany scopes tag queries to company tags.
const TagTypeCompany = "company"

// ContentTypeCompany scopes field configuration queries to companies.
const ContentTypeCompany = "company"
