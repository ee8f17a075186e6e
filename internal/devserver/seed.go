package devserver

import "github.com/gravitrone/registry-console/internal/api"

// Credentials of the seeded dev account.
const (
	SeedEmail    = "admin@registry.local"
	SeedPassword = "registry-dev"
)

// NewSeededRegistry returns a registry with a dev account, the default
// company columns, two company tags and a handful of companies.
func NewSeededRegistry() *Registry {
	r := NewRegistry()
	r.AddUser(SeedEmail, SeedPassword)
	r.SetColumns([]api.Column{
		{Name: "primaryName", Label: "Name", Order: 1},
		{Name: "industry", Label: "Industry", Order: 2},
		{Name: "plan", Label: "Plan", Order: 3},
		{Name: "email", Label: "Email", Order: 4},
		{Name: "size", Label: "Size", Order: 5},
	})
	vip := r.AddTag("VIP", api.TagTypeCompany, "#ff6b6b")
	partner := r.AddTag("Partner", api.TagTypeCompany, "#4dabf7")

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, fields := range []map[string]any{
		{"primaryName": "Acme Corp", "industry": "Manufacturing", "plan": "enterprise", "email": "hello@acme.test", "size": 1200, "segment": "enterprise", "tagIds": []any{vip}},
		{"primaryName": "Acme Labs", "industry": "Research", "plan": "growth", "email": "labs@acme.test", "size": 45, "segment": "smb", "tagIds": []any{vip, partner}},
		{"primaryName": "Globex", "industry": "Energy", "plan": "enterprise", "website": "https://globex.test", "size": 5300, "segment": "enterprise"},
		{"primaryName": "Initech", "industry": "Software", "plan": "starter", "email": "info@initech.test", "size": 80, "segment": "smb", "tagIds": []any{partner}},
		{"primaryName": "Umbrella Health", "industry": "Healthcare", "plan": "growth", "size": 900, "segment": "midmarket"},
		{"primaryName": "Stark Logistics", "industry": "Logistics", "plan": "enterprise", "size": 2100, "segment": "enterprise"},
	} {
		r.insert(fields)
	}
	return r
}
