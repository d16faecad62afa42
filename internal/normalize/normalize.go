package normalize

import (
	"encoding/json"
	"math"
)

// ProductLinesResult is the normalized product line catalog.
type ProductLinesResult struct {
	Rows     int           `json:"rows"`
	Products []interface{} `json:"products"`
	Raw      interface{}   `json:"raw"`
}

// UserDirectoryResult is the normalized Zeus user listing.
type UserDirectoryResult struct {
	Rows  int           `json:"rows"`
	Users []interface{} `json:"users"`
	Raw   interface{}   `json:"raw"`
}

// DomainListQuery echoes the parameters sent to the children listing endpoint,
// using the upstream parameter names.
type DomainListQuery struct {
	Page         int    `json:"page"`
	Rows         int    `json:"rows"`
	ProductID    string `json:"productId"`
	ChildrenType int    `json:"childrenType"`
}

// DomainListResult is the normalized deployDomain listing.
type DomainListResult struct {
	Query   DomainListQuery `json:"query"`
	Total   int64           `json:"total"`
	Domains []interface{}   `json:"domains"`
	Raw     interface{}     `json:"raw"`
}

// DomainCreateResult pairs the submitted body with the upstream answer.
type DomainCreateResult struct {
	Request interface{} `json:"request"`
	Result  interface{} `json:"result"`
}

// ProductLines reshapes a {"data": [...]} product catalog response.
func ProductLines(raw interface{}, rows int) ProductLinesResult {
	return ProductLinesResult{
		Rows:     rows,
		Products: dataList(raw),
		Raw:      raw,
	}
}

// UserDirectory reshapes a {"data": [...]} user directory response.
func UserDirectory(raw interface{}, rows int) UserDirectoryResult {
	return UserDirectoryResult{
		Rows:  rows,
		Users: dataList(raw),
		Raw:   raw,
	}
}

// DomainList reshapes a {"data": {"cnt": n, "list": {"deployDomain": [...]}}} response.
// Total is data.cnt when it is an integer, otherwise the number of domains.
func DomainList(raw interface{}, query DomainListQuery) DomainListResult {
	data := object(object(raw)["data"])
	domains := list(object(data["list"])["deployDomain"])

	total, ok := integer(data["cnt"])
	if !ok {
		total = int64(len(domains))
	}

	return DomainListResult{
		Query:   query,
		Total:   total,
		Domains: domains,
		Raw:     raw,
	}
}

// DomainCreate pairs the exact request body with the upstream response.
func DomainCreate(request, raw interface{}) DomainCreateResult {
	return DomainCreateResult{
		Request: request,
		Result:  raw,
	}
}

// dataList returns the top-level "data" array shared by the catalog and
// directory endpoints. Anything else yields an empty list.
func dataList(raw interface{}) []interface{} {
	return list(object(raw)["data"])
}

func object(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return nil
}

func list(v interface{}) []interface{} {
	if l, ok := v.([]interface{}); ok && l != nil {
		return l
	}
	return []interface{}{}
}

func integer(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil && f == math.Trunc(f) {
			return int64(f), true
		}
	case float64:
		if n == math.Trunc(n) {
			return int64(n), true
		}
	case int:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}
