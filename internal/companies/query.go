package companies

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gravitrone/registry-console/internal/api"
)

// DefaultPerPage is the page size used when navigation state has none.
const DefaultPerPage = 20

// ComposeQuery derives the list/counts query parameters from the screen's
// navigational query-string state. Both queries must receive the same
// value so totals and breakdowns match the visible page.
func ComposeQuery(values url.Values) api.ListParams {
	params := api.ListParams{
		Page:        positiveInt(values.Get("page")),
		PerPage:     positiveInt(values.Get("perPage")),
		Segment:     strings.TrimSpace(values.Get("segment")),
		Tag:         strings.TrimSpace(values.Get("tag")),
		IDs:         splitIDs(values["ids"]),
		SearchValue: values.Get("searchValue"),
	}
	if params.PerPage == 0 {
		params.PerPage = DefaultPerPage
	}
	return params
}

// EncodeQuery is the inverse of ComposeQuery for navigation. The default
// page size is left implicit.
func EncodeQuery(params api.ListParams) url.Values {
	values := url.Values{}
	if params.Page > 0 {
		values.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 && params.PerPage != DefaultPerPage {
		values.Set("perPage", strconv.Itoa(params.PerPage))
	}
	if params.Segment != "" {
		values.Set("segment", params.Segment)
	}
	if params.Tag != "" {
		values.Set("tag", params.Tag)
	}
	if len(params.IDs) > 0 {
		values.Set("ids", strings.Join(params.IDs, ","))
	}
	if params.SearchValue != "" {
		values.Set("searchValue", params.SearchValue)
	}
	return values
}

func positiveInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func splitIDs(raw []string) []string {
	var ids []string
	for _, entry := range raw {
		for _, id := range strings.Split(entry, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
