package generator

import (
	"cmp"
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/blimu-dev/openapi-gen/pkg/ir"
	"github.com/blimu-dev/openapi-gen/pkg/openapi"
	"github.com/blimu-dev/openapi-gen/pkg/utils"
)

// defaultCategory is used for operations without tags
const defaultCategory = "index"

var pathParam = regexp.MustCompile(`\{([^}]+)\}`)

// routedMethods lists the operations that become requests
var routedMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

// collectRequests flattens the paths map into requests sorted by category, then name
func collectRequests(doc *openapi.Document) ([]ir.Request, error) {
	var out []ir.Request
	seen := map[string]string{}
	for _, path := range doc.PathKeys() {
		item := doc.API.Paths.Value(path)
		if item == nil {
			continue
		}
		for _, method := range routedMethods {
			op := item.GetOperation(method)
			if op == nil {
				continue
			}
			where := method + " " + path
			if op.OperationID == "" {
				return nil, fmt.Errorf("operation %s has no operationId", where)
			}
			if prev, dup := seen[op.OperationID]; dup {
				return nil, fmt.Errorf("operationId %q is used by both %s and %s", op.OperationID, prev, where)
			}
			if utils.ExportedName(op.OperationID) == utils.ExportedName(ir.IndexRequestName) {
				return nil, fmt.Errorf("operationId %q of %s collides with the generated index route", op.OperationID, where)
			}
			seen[op.OperationID] = where

			req, err := newRequest(path, method, op)
			if err != nil {
				return nil, fmt.Errorf("operation %s: %w", where, err)
			}
			out = append(out, req)
		}
	}
	sortRequests(out)
	return out, nil
}

func newRequest(path, method string, op *openapi3.Operation) (ir.Request, error) {
	perms, err := openapi.Permissions(op.Extensions)
	if err != nil {
		return ir.Request{}, fmt.Errorf("%s: %w", openapi.ExtPermissions, err)
	}
	category := defaultCategory
	if len(op.Tags) > 0 {
		category = op.Tags[0]
	}
	return ir.Request{
		Path:        toRoutePath(path),
		Method:      method,
		Name:        op.OperationID,
		Category:    category,
		Description: op.Summary,
		Permissions: perms,
		Tags:        slices.Clone(op.Tags),
	}, nil
}

// toRoutePath rewrites {param} segments to :param
func toRoutePath(path string) string {
	return pathParam.ReplaceAllString(path, ":$1")
}

// sortRequests orders by category and then by name in one comparator
func sortRequests(reqs []ir.Request) {
	slices.SortStableFunc(reqs, func(a, b ir.Request) int {
		return cmp.Or(
			strings.Compare(a.Category, b.Category),
			strings.Compare(a.Name, b.Name),
		)
	})
}
