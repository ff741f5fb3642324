package query

import (
	"fmt"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

// DefaultMaxDepth admits every query the report schema can express
const DefaultMaxDepth = 4

// Execute runs a query against a report schema
func Execute(schema graphql.Schema, query string, variables map[string]any) *graphql.Result {
	return ExecuteWithDepthLimit(schema, query, DefaultMaxDepth, variables)
}

// ExecuteWithDepthLimit executes a GraphQL query with depth validation
func ExecuteWithDepthLimit(schema graphql.Schema, query string, maxDepth int, variables map[string]any) *graphql.Result {
	if err := ValidateQueryDepth(query, maxDepth); err != nil {
		return &graphql.Result{
			Errors: []gqlerrors.FormattedError{gqlerrors.FormatError(err)},
		}
	}

	params := graphql.Params{
		Schema:        schema,
		RequestString: query,
	}
	if variables != nil {
		params.VariableValues = variables
	}
	return graphql.Do(params)
}

// ValidateQueryDepth rejects queries nested deeper than maxDepth
func ValidateQueryDepth(query string, maxDepth int) error {
	document, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return fmt.Errorf("failed to parse query: %w", err)
	}

	fragments := make(map[string]*ast.FragmentDefinition)
	for _, def := range document.Definitions {
		if frag, ok := def.(*ast.FragmentDefinition); ok {
			fragments[frag.Name.Value] = frag
		}
	}

	depth := 0
	for _, def := range document.Definitions {
		if op, ok := def.(*ast.OperationDefinition); ok {
			depth = max(depth, selectionDepth(op.SelectionSet, 0, fragments, map[string]bool{}))
		}
	}

	if depth > maxDepth {
		return fmt.Errorf("query depth %d exceeds maximum allowed depth %d", depth, maxDepth)
	}
	return nil
}

func selectionDepth(set *ast.SelectionSet, depth int, fragments map[string]*ast.FragmentDefinition, seen map[string]bool) int {
	if set == nil {
		return depth
	}

	deepest := depth
	for _, selection := range set.Selections {
		switch sel := selection.(type) {
		case *ast.Field:
			if strings.HasPrefix(sel.Name.Value, "__") {
				continue
			}
			deepest = max(deepest, selectionDepth(sel.SelectionSet, depth+1, fragments, seen))
		case *ast.InlineFragment:
			deepest = max(deepest, selectionDepth(sel.SelectionSet, depth, fragments, seen))
		case *ast.FragmentSpread:
			name := sel.Name.Value
			frag, ok := fragments[name]
			if !ok || seen[name] {
				continue
			}
			seen[name] = true
			deepest = max(deepest, selectionDepth(frag.SelectionSet, depth, fragments, seen))
			delete(seen, name)
		}
	}
	return deepest
}
