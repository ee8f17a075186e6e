package api

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// operation is a parsed GraphQL document with one named operation.
type operation struct {
	name     string
	root     string
	document string
	vars     map[string]struct{}
}

// mustOperation parses doc and panics when it is not a single named operation.
func mustOperation(doc string) operation {
	op, err := parseOperation(doc)
	if err != nil {
		panic(err)
	}
	return op
}

func parseOperation(doc string) (operation, error) {
	parsed, err := parser.ParseQuery(&ast.Source{Input: doc})
	if err != nil {
		return operation{}, goerr.Wrap(err, "parse operation")
	}
	if len(parsed.Operations) != 1 {
		return operation{}, goerr.New("expected one operation", goerr.V("count", len(parsed.Operations)))
	}
	def := parsed.Operations[0]
	if def.Name == "" {
		return operation{}, goerr.New("operation must be named")
	}
	root := RootField(def.SelectionSet)
	if root == "" {
		return operation{}, goerr.New("operation has no root field", goerr.V("operation", def.Name))
	}
	vars := make(map[string]struct{}, len(def.VariableDefinitions))
	for _, v := range def.VariableDefinitions {
		vars[v.Variable] = struct{}{}
	}
	return operation{name: def.Name, root: root, document: doc, vars: vars}, nil
}

// RootField returns the response key of the first field in a selection set.
func RootField(set ast.SelectionSet) string {
	for _, sel := range set {
		field, ok := sel.(*ast.Field)
		if !ok {
			continue
		}
		if field.Alias != "" {
			return field.Alias
		}
		return field.Name
	}
	return ""
}

const companyFields = `_id primaryName names size industry plan website email phone tagIds ownerId createdAt modifiedAt`

var (
	opCompaniesMain = mustOperation(`query companiesMain($page: Int, $perPage: Int, $segment: String, $tag: String, $ids: [String], $searchValue: String) {
  companiesMain(page: $page, perPage: $perPage, segment: $segment, tag: $tag, ids: $ids, searchValue: $searchValue) {
    list { ` + companyFields + ` }
    totalCount
  }
}`)

	opCompanyCounts = mustOperation(`query companyCounts($page: Int, $perPage: Int, $segment: String, $tag: String, $ids: [String], $searchValue: String) {
  companyCounts(page: $page, perPage: $perPage, segment: $segment, tag: $tag, ids: $ids, searchValue: $searchValue)
}`)

	opCompanyDetail = mustOperation(`query companyDetail($_id: String!) {
  companyDetail(_id: $_id) { ` + companyFields + ` description employees }
}`)

	opDefaultColumns = mustOperation(`query fieldsDefaultColumnsConfig($contentType: String!) {
  fieldsDefaultColumnsConfig(contentType: $contentType) { name label order }
}`)

	opTags = mustOperation(`query tags($type: String) {
  tags(type: $type) { _id name type colour objectCount }
}`)

	opCompaniesAdd = mustOperation(`mutation companiesAdd($primaryName: String, $names: [String], $size: Int, $industry: String, $plan: String, $website: String, $email: String, $phone: String, $description: String, $employees: Int, $ownerId: String, $tagIds: [String]) {
  companiesAdd(primaryName: $primaryName, names: $names, size: $size, industry: $industry, plan: $plan, website: $website, email: $email, phone: $phone, description: $description, employees: $employees, ownerId: $ownerId, tagIds: $tagIds) { ` + companyFields + ` }
}`)

	opCompaniesRemove = mustOperation(`mutation companiesRemove($companyIds: [String]) {
  companiesRemove(companyIds: $companyIds)
}`)

	opCompaniesMerge = mustOperation(`mutation companiesMerge($companyIds: [String], $companyFields: JSON) {
  companiesMerge(companyIds: $companyIds, companyFields: $companyFields) { _id }
}`)

	opLogin = mustOperation(`mutation login($email: String!, $password: String!) {
  login(email: $email, password: $password)
}`)
)
