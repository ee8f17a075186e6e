package devserver

import (
	"errors"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/gravitrone/registry-console/internal/api"
)

// DuplicateDistance is the largest edit distance between two lowercased
// primary names that still counts as the same company.
const DuplicateDistance = 1

// Registry is the in-memory company store behind the dev server.
type Registry struct {
	mu        sync.RWMutex
	companies map[string]map[string]any
	order     []string
	tags      []api.Tag
	columns   []api.Column
	users     map[string]string
	tokens    map[string]string
	validate  *validator.Validate
}

// companyInput is the validated shape of companiesAdd and merge fields.
type companyInput struct {
	PrimaryName string `validate:"required,max=200"`
	Email       string `validate:"omitempty,email"`
	Website     string `validate:"omitempty,url"`
	Size        int    `validate:"gte=0"`
	Employees   int    `validate:"gte=0"`
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		companies: map[string]map[string]any{},
		users:     map[string]string{},
		tokens:    map[string]string{},
		columns:   []api.Column{},
		tags:      []api.Tag{},
		validate:  validator.New(),
	}
}

// AddUser registers credentials accepted by Login.
func (r *Registry) AddUser(email, password string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[strings.ToLower(email)] = password
}

// SetColumns replaces the default column layout.
func (r *Registry) SetColumns(cols []api.Column) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.columns = append([]api.Column{}, cols...)
}

// AddTag registers a tag and returns its id.
func (r *Registry) AddTag(name, tagType, colour string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New().String()
	r.tags = append(r.tags, api.Tag{ID: id, Name: name, Type: tagType, Colour: colour})
	return id
}

// Login checks credentials and issues an opaque token.
func (r *Registry) Login(email, password string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want, ok := r.users[strings.ToLower(email)]
	if !ok || want != password {
		return "", goerr.New("invalid login", goerr.V("email", email))
	}
	token := uuid.New().String()
	r.tokens[token] = email
	return token, nil
}

// ValidToken reports whether token was issued by Login.
func (r *Registry) ValidToken(token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tokens[token]
	return ok
}

// Create validates fields and stores a new company.
func (r *Registry) Create(fields map[string]any) (api.Company, error) {
	if err := r.check(fields); err != nil {
		return api.Company{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	name := stringField(fields, "primaryName")
	if existing := r.findDuplicate(name); existing != "" {
		return api.Company{}, goerr.New("duplicate name", goerr.V("existing", existing), goerr.V("name", name))
	}
	return r.insert(fields), nil
}

// Detail returns one company.
func (r *Registry) Detail(id string) (api.Company, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fields, ok := r.companies[id]
	if !ok {
		return api.Company{}, false
	}
	return toCompany(id, fields), true
}

// Remove deletes ids. Unknown ids are ignored.
func (r *Registry) Remove(ids []string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for _, id := range ids {
		if _, ok := r.companies[id]; ok {
			r.delete(id)
			removed++
		}
	}
	return removed
}

// Merge replaces ids with one new company built from fields, carrying
// over the union of names and tags. It returns the surviving id.
func (r *Registry) Merge(ids []string, fields map[string]any) (string, error) {
	if len(ids) < 2 {
		return "", goerr.New("merge needs at least two companies", goerr.V("ids", ids))
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	merged := map[string]any{}
	var names, tagIDs []string
	for _, id := range ids {
		existing, ok := r.companies[id]
		if !ok {
			return "", goerr.New("company not found", goerr.V("companyID", id))
		}
		for k, v := range existing {
			if _, set := merged[k]; !set {
				merged[k] = v
			}
		}
		names = appendUnique(names, stringSlice(existing["names"])...)
		tagIDs = appendUnique(tagIDs, stringSlice(existing["tagIds"])...)
	}
	for k, v := range fields {
		merged[k] = v
	}
	if name := stringField(merged, "primaryName"); name != "" {
		names = appendUnique([]string{name}, names...)
	}
	merged["names"] = toAnySlice(names)
	merged["tagIds"] = toAnySlice(tagIDs)
	if err := r.check(merged); err != nil {
		return "", err
	}

	for _, id := range ids {
		r.delete(id)
	}
	return r.insert(merged).ID, nil
}

// List filters, orders and pages the companies.
func (r *Registry) List(params api.ListParams) api.ListResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := r.filter(params)

	page, perPage := params.Page, params.PerPage
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	// past the last page; checked before multiplying so huge values cannot overflow
	pages := len(matched) / perPage
	if len(matched)%perPage != 0 {
		pages++
	}
	if page-1 >= pages {
		return api.ListResult{List: []api.Company{}, TotalCount: len(matched)}
	}
	start := (page - 1) * perPage
	end := len(matched)
	if perPage < end-start {
		end = start + perPage
	}
	list := make([]api.Company, 0, end-start)
	for _, id := range matched[start:end] {
		list = append(list, toCompany(id, r.companies[id]))
	}
	return api.ListResult{List: list, TotalCount: len(matched)}
}

// Counts computes the sidebar breakdown for params. The tag and segment
// dimensions ignore their own filter so every option shows its size.
func (r *Registry) Counts(params api.ListParams) api.Counts {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := api.EmptyCounts()

	byTag := params
	byTag.Tag = ""
	for _, id := range r.filter(byTag) {
		for _, tag := range stringSlice(r.companies[id]["tagIds"]) {
			counts.ByTag[tag]++
		}
	}
	bySegment := params
	bySegment.Segment = ""
	for _, id := range r.filter(bySegment) {
		if seg := stringField(r.companies[id], "segment"); seg != "" {
			counts.BySegment[seg]++
		}
	}
	return counts
}

// Columns returns the default column layout.
func (r *Registry) Columns() []api.Column {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]api.Column{}, r.columns...)
}

// Tags returns tags of tagType, or all tags when tagType is empty.
func (r *Registry) Tags(tagType string) []api.Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []api.Tag{}
	for _, tag := range r.tags {
		if tagType != "" && tag.Type != tagType {
			continue
		}
		tag.ObjectCount = 0
		for _, fields := range r.companies {
			if contains(stringSlice(fields["tagIds"]), tag.ID) {
				tag.ObjectCount++
			}
		}
		out = append(out, tag)
	}
	return out
}

func (r *Registry) check(fields map[string]any) error {
	in := companyInput{
		PrimaryName: stringField(fields, "primaryName"),
		Email:       stringField(fields, "email"),
		Website:     stringField(fields, "website"),
		Size:        intField(fields, "size"),
		Employees:   intField(fields, "employees"),
	}
	if err := r.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return goerr.New("invalid company: "+first.Field()+" failed "+first.Tag(), goerr.V("fields", fields))
		}
		return goerr.Wrap(err, "invalid company")
	}
	return nil
}

func (r *Registry) findDuplicate(name string) string {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return ""
	}
	for _, id := range r.order {
		other := strings.ToLower(strings.TrimSpace(stringField(r.companies[id], "primaryName")))
		if other == "" {
			continue
		}
		if levenshtein.ComputeDistance(needle, other) <= DuplicateDistance {
			return id
		}
	}
	return ""
}

func (r *Registry) filter(params api.ListParams) []string {
	search := strings.ToLower(strings.TrimSpace(params.SearchValue))
	var ids map[string]bool
	if len(params.IDs) > 0 {
		ids = make(map[string]bool, len(params.IDs))
		for _, id := range params.IDs {
			ids[id] = true
		}
	}
	out := []string{}
	for _, id := range r.order {
		fields := r.companies[id]
		if ids != nil && !ids[id] {
			continue
		}
		if params.Tag != "" && !contains(stringSlice(fields["tagIds"]), params.Tag) {
			continue
		}
		if params.Segment != "" && stringField(fields, "segment") != params.Segment {
			continue
		}
		if search != "" && !matchesSearch(fields, search) {
			continue
		}
		out = append(out, id)
	}
	return out
}

func (r *Registry) insert(fields map[string]any) api.Company {
	id := uuid.New().String()
	stored := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		stored[k] = v
	}
	if _, ok := stored["names"]; !ok {
		if name := stringField(stored, "primaryName"); name != "" {
			stored["names"] = []any{name}
		}
	}
	r.companies[id] = stored
	r.order = append(r.order, id)
	return toCompany(id, stored)
}

func (r *Registry) delete(id string) {
	delete(r.companies, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

func matchesSearch(fields map[string]any, search string) bool {
	for _, key := range []string{"primaryName", "email", "website", "industry"} {
		if strings.Contains(strings.ToLower(stringField(fields, key)), search) {
			return true
		}
	}
	for _, name := range stringSlice(fields["names"]) {
		if strings.Contains(strings.ToLower(name), search) {
			return true
		}
	}
	return false
}

func toCompany(id string, fields map[string]any) api.Company {
	copied := make(api.JSONMap, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return api.Company{ID: id, Fields: copied}
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func intField(fields map[string]any, key string) int {
	switch n := fields[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func stringSlice(v any) []string {
	switch typed := v.(type) {
	case []string:
		return typed
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if v != "" && !contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
