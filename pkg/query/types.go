package query

import (
	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-txgraph/pkg/algorithms"
)

// Object fields rely on graphql-go's default resolver, which matches a
// field name against the struct field name case-insensitively.

var rankedNodeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "RankedNode",
	Fields: graphql.Fields{
		"nodeId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"score":  &graphql.Field{Type: graphql.Float},
	},
})

var nodeMetricsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "NodeMetrics",
	Fields: graphql.Fields{
		"id":                    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"degree":                &graphql.Field{Type: graphql.Int},
		"inDegree":              &graphql.Field{Type: graphql.Int},
		"outDegree":             &graphql.Field{Type: graphql.Int},
		"pageRank":              &graphql.Field{Type: graphql.Float},
		"betweenness":           &graphql.Field{Type: graphql.Float},
		"closeness":             &graphql.Field{Type: graphql.Float},
		"clusteringCoefficient": &graphql.Field{Type: graphql.Float},
		"totalVolume":           &graphql.Field{Type: graphql.Float},
		"avgTransactionSize":    &graphql.Field{Type: graphql.Float},
		"transactionCount":      &graphql.Field{Type: graphql.Int},
		"community":             &graphql.Field{Type: graphql.Int},
	},
})

var graphMetricsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "GraphMetrics",
	Fields: graphql.Fields{
		"nodeCount":             &graphql.Field{Type: graphql.Int},
		"edgeCount":             &graphql.Field{Type: graphql.Int},
		"transactionCount":      &graphql.Field{Type: graphql.Int},
		"density":               &graphql.Field{Type: graphql.Float},
		"averageDegree":         &graphql.Field{Type: graphql.Float},
		"clusteringCoefficient": &graphql.Field{Type: graphql.Float},
		"componentCount":        &graphql.Field{Type: graphql.Int},
		"totalVolume":           &graphql.Field{Type: graphql.Float},
		"skippedEdges":          &graphql.Field{Type: graphql.Int},
	},
})

var clusterType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Cluster",
	Fields: graphql.Fields{
		"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"members":       &graphql.Field{Type: graphql.NewList(graphql.String)},
		"size":          &graphql.Field{Type: graphql.Int},
		"internalEdges": &graphql.Field{Type: graphql.Int},
		"externalEdges": &graphql.Field{Type: graphql.Int},
		"density":       &graphql.Field{Type: graphql.Float},
		"totalVolume":   &graphql.Field{Type: graphql.Float},
		"centerNode":    &graphql.Field{Type: graphql.String},
		"riskScore":     &graphql.Field{Type: graphql.Int},
	},
})

var bridgeNodeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "BridgeNode",
	Fields: graphql.Fields{
		"nodeId":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"clusters": &graphql.Field{Type: graphql.NewList(graphql.Int)},
	},
})

var clusterStatsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ClusterStats",
	Fields: graphql.Fields{
		"clusterCount":   &graphql.Field{Type: graphql.Int},
		"isolatedCount":  &graphql.Field{Type: graphql.Int},
		"bridgeCount":    &graphql.Field{Type: graphql.Int},
		"largestCluster": &graphql.Field{Type: graphql.Int},
		"averageSize":    &graphql.Field{Type: graphql.Float},
		"modularity":     &graphql.Field{Type: graphql.Float},
	},
})

var riskLevelEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "RiskLevel",
	Values: graphql.EnumValueConfigMap{
		"LOW":      &graphql.EnumValueConfig{Value: algorithms.RiskLow},
		"MEDIUM":   &graphql.EnumValueConfig{Value: algorithms.RiskMedium},
		"HIGH":     &graphql.EnumValueConfig{Value: algorithms.RiskHigh},
		"CRITICAL": &graphql.EnumValueConfig{Value: algorithms.RiskCritical},
	},
})

var washCycleType = graphql.NewObject(graphql.ObjectConfig{
	Name: "WashCycle",
	Fields: graphql.Fields{
		"key":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"members":   &graphql.Field{Type: graphql.NewList(graphql.String)},
		"length":    &graphql.Field{Type: graphql.Int},
		"frequency": &graphql.Field{Type: graphql.Int},
		"volume":    &graphql.Field{Type: graphql.Float},
		"riskLevel": &graphql.Field{Type: riskLevelEnum},
	},
})

var failureType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SectionFailure",
	Fields: graphql.Fields{
		"section": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"message": &graphql.Field{Type: graphql.String},
	},
})

// failure is the resolver source for SectionFailure
type failure struct {
	Section string
	Message string
}
