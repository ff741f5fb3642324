// Package query exposes an analytics report through a read-only GraphQL
// schema so renderers can fetch exactly the metrics they draw.
package query

import (
	"fmt"
	"sort"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-txgraph/pkg/algorithms"
	"github.com/dd0wney/cluso-txgraph/pkg/analytics"
)

// NewSchema builds a schema whose root resolves against report. The report
// must not be mutated while queries run.
func NewSchema(report *analytics.Report) (graphql.Schema, error) {
	if report == nil {
		return graphql.Schema{}, fmt.Errorf("report cannot be nil")
	}
	clusters := report.Clusters
	if clusters == nil {
		clusters = algorithms.EmptyClusterAnalysis()
	}

	limitArg := graphql.FieldConfigArgument{
		"limit": &graphql.ArgumentConfig{Type: graphql.Int},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"runId": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return report.RunID, nil
				},
			},
			"state": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return report.State.String(), nil
				},
			},
			"complete": &graphql.Field{
				Type: graphql.Boolean,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return report.Complete, nil
				},
			},
			"failures": &graphql.Field{
				Type: graphql.NewList(failureType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					out := make([]failure, 0, len(report.Failures))
					for _, s := range report.FailedSections() {
						out = append(out, failure{Section: string(s), Message: report.Failures[s].Error()})
					}
					return out, nil
				},
			},
			"graph": &graphql.Field{
				Type: graphMetricsType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return report.Graph, nil
				},
			},
			"node": &graphql.Field{
				Type: nodeMetricsType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(string)
					if nm, ok := report.Node(id); ok {
						return nm, nil
					}
					return nil, nil
				},
			},
			"nodes": &graphql.Field{
				Type: graphql.NewList(nodeMetricsType),
				Args: graphql.FieldConfigArgument{
					"community":   &graphql.ArgumentConfig{Type: graphql.Int},
					"minPageRank": &graphql.ArgumentConfig{Type: graphql.Float},
					"minVolume":   &graphql.ArgumentConfig{Type: graphql.Float},
					"limit":       &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return filterNodes(report, p.Args), nil
				},
			},
			"topByPageRank": &graphql.Field{
				Type: graphql.NewList(rankedNodeType),
				Args: limitArg,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return limitRanked(report.Graph.TopByPageRank, p.Args), nil
				},
			},
			"topByBetweenness": &graphql.Field{
				Type: graphql.NewList(rankedNodeType),
				Args: limitArg,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return limitRanked(report.Graph.TopByBetweenness, p.Args), nil
				},
			},
			"topByVolume": &graphql.Field{
				Type: graphql.NewList(rankedNodeType),
				Args: limitArg,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return limitRanked(report.Graph.TopByVolume, p.Args), nil
				},
			},
			"clusters": &graphql.Field{
				Type: graphql.NewList(clusterType),
				Args: graphql.FieldConfigArgument{
					"minRisk": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					minRisk, _ := p.Args["minRisk"].(int)
					out := make([]*algorithms.Cluster, 0, len(clusters.Clusters))
					for _, c := range clusters.Clusters {
						if c.RiskScore >= minRisk {
							out = append(out, c)
						}
					}
					return out, nil
				},
			},
			"clusterStats": &graphql.Field{
				Type: clusterStatsType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return clusters.Stats, nil
				},
			},
			"bridges": &graphql.Field{
				Type: graphql.NewList(bridgeNodeType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return clusters.BridgeNodes, nil
				},
			},
			"isolated": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return clusters.IsolatedNodes, nil
				},
			},
			"cycles": &graphql.Field{
				Type: graphql.NewList(washCycleType),
				Args: graphql.FieldConfigArgument{
					"minRisk": &graphql.ArgumentConfig{Type: riskLevelEnum},
					"limit":   &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return filterCycles(report.Cycles, p.Args), nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}

func limitRanked(ranked []algorithms.RankedNode, args map[string]any) []algorithms.RankedNode {
	if limit, ok := args["limit"].(int); ok && limit >= 0 && limit < len(ranked) {
		return ranked[:limit]
	}
	return ranked
}

// filterNodes applies node filters and returns matches by descending
// PageRank, id ascending on ties
func filterNodes(report *analytics.Report, args map[string]any) []*analytics.NodeMetrics {
	community, hasCommunity := args["community"].(int)
	minPageRank, _ := args["minPageRank"].(float64)
	minVolume, _ := args["minVolume"].(float64)

	out := make([]*analytics.NodeMetrics, 0)
	for _, nm := range report.Nodes {
		if hasCommunity && nm.Community != community {
			continue
		}
		if nm.PageRank < minPageRank || nm.TotalVolume < minVolume {
			continue
		}
		out = append(out, nm)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].PageRank != out[j].PageRank {
			return out[i].PageRank > out[j].PageRank
		}
		return out[i].ID < out[j].ID
	})

	if limit, ok := args["limit"].(int); ok && limit >= 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// filterCycles keeps cycles at or above a risk level. Cycles are already
// sorted by severity.
func filterCycles(cycles []*algorithms.WashCycle, args map[string]any) []*algorithms.WashCycle {
	minSeverity := 0
	if level, ok := args["minRisk"].(algorithms.RiskLevel); ok {
		minSeverity = level.Severity()
	}

	out := make([]*algorithms.WashCycle, 0, len(cycles))
	for _, c := range cycles {
		if c.RiskLevel.Severity() >= minSeverity {
			out = append(out, c)
		}
	}
	if limit, ok := args["limit"].(int); ok && limit >= 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}
