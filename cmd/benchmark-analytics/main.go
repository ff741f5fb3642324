package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/dd0wney/cluso-txgraph/pkg/algorithms"
	"github.com/dd0wney/cluso-txgraph/pkg/analytics"
	"github.com/dd0wney/cluso-txgraph/pkg/config"
	"github.com/dd0wney/cluso-txgraph/pkg/graph"
	"github.com/dd0wney/cluso-txgraph/pkg/snapshot"
)

func main() {
	accounts := flag.Int("accounts", 1000, "Number of accounts to create")
	transfers := flag.Int("transfers", 3000, "Number of transfers to create")
	rings := flag.Int("rings", 20, "Number of planted wash-trading rings")
	seed := flag.Int64("seed", 42, "Random seed")
	workers := flag.Int("workers", 0, "Engine workers (0 = GOMAXPROCS)")
	save := flag.String("save", "", "Also write the generated snapshot here")
	flag.Parse()

	fmt.Printf("🔥 Transaction Graph Analytics Benchmark\n")
	fmt.Printf("========================================\n\n")
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Accounts:  %d\n", *accounts)
	fmt.Printf("  Transfers: %d\n", *transfers)
	fmt.Printf("  Rings:     %d\n\n", *rings)

	fmt.Printf("📝 Generating snapshot...\n")
	start := time.Now()
	snap := generate(*accounts, *transfers, *rings, *seed)
	fmt.Printf("✅ Built %d nodes and %d edges in %v\n", snap.NodeCount(), snap.EdgeCount(), time.Since(start))

	if *save != "" {
		if err := snapshot.Save(*save, snap); err != nil {
			log.Fatalf("Failed to save snapshot: %v", err)
		}
		fmt.Printf("💾 Saved snapshot to %s\n", *save)
	}

	ctx := context.Background()

	bench("PageRank", func() string {
		pr, err := algorithms.PageRank(ctx, snap, algorithms.DefaultPageRankOptions())
		if err != nil {
			log.Fatalf("PageRank failed: %v", err)
		}
		return fmt.Sprintf("%d iterations, top %s", pr.Iterations, top(pr.GetTopNodes(1)))
	})

	bench("Betweenness (sampled)", func() string {
		opts := algorithms.DefaultBetweennessOptions()
		opts.Seed = *seed
		bc, err := algorithms.BetweennessCentrality(ctx, snap, opts)
		if err != nil {
			log.Fatalf("Betweenness failed: %v", err)
		}
		return fmt.Sprintf("%d sources, top %s", bc.Sampled, top(bc.TopNodes))
	})

	bench("Closeness", func() string {
		cc, err := algorithms.ClosenessCentrality(ctx, snap)
		if err != nil {
			log.Fatalf("Closeness failed: %v", err)
		}
		return fmt.Sprintf("top %s", top(algorithms.TopN(cc, 1)))
	})

	bench("Clustering coefficient", func() string {
		coeffs, err := algorithms.ClusteringCoefficients(ctx, snap)
		if err != nil {
			log.Fatalf("Clustering failed: %v", err)
		}
		return fmt.Sprintf("average %.6f", algorithms.AverageClustering(coeffs))
	})

	bench("Label propagation", func() string {
		communities, err := algorithms.LabelPropagation(ctx, snap, algorithms.DefaultCommunityOptions())
		if err != nil {
			log.Fatalf("Label propagation failed: %v", err)
		}
		analysis, err := algorithms.AnalyzeClusters(ctx, snap, communities)
		if err != nil {
			log.Fatalf("Cluster analysis failed: %v", err)
		}
		return fmt.Sprintf("%d rounds, %d clusters, modularity %.4f",
			communities.Rounds, analysis.Stats.ClusterCount, analysis.Stats.Modularity)
	})

	bench("Wash-trading cycles", func() string {
		cycles, err := algorithms.DetectWashTrading(ctx, snap, algorithms.DefaultCycleOptions())
		if err != nil {
			log.Fatalf("Cycle detection failed: %v", err)
		}
		return fmt.Sprintf("%d cycles", len(cycles))
	})

	bench("All paths (acct0 → acct1)", func() string {
		paths, err := algorithms.AllPaths(ctx, snap, "acct0", "acct1", algorithms.DefaultPathOptions())
		if err != nil {
			log.Fatalf("All paths failed: %v", err)
		}
		return fmt.Sprintf("%d paths", len(paths))
	})

	cfg := config.DefaultEngine()
	cfg.Betweenness.Seed = *seed
	engine, err := analytics.NewEngine(cfg, analytics.WithWorkers(*workers))
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	var report *analytics.Report
	bench("Full pass", func() string {
		report = engine.Compute(ctx, snap)
		return fmt.Sprintf("state %s", report.State)
	})

	fmt.Printf("\n🎯 Summary\n")
	fmt.Printf("==========\n")
	fmt.Printf("  Density:        %.6f\n", report.Graph.Density)
	fmt.Printf("  Average degree: %.2f\n", report.Graph.AverageDegree)
	fmt.Printf("  Components:     %d\n", report.Graph.ComponentCount)
	fmt.Printf("  Clusters:       %d\n", len(report.Clusters.Clusters))
	fmt.Printf("  Cycles:         %d\n", len(report.Cycles))
	fmt.Printf("\n✅ Benchmark complete!\n")
}

func bench(name string, fn func() string) {
	fmt.Printf("\n📊 %s\n", name)
	start := time.Now()
	detail := fn()
	fmt.Printf("✅ %v  %s\n", time.Since(start), detail)
}

func top(ranked []algorithms.RankedNode) string {
	if len(ranked) == 0 {
		return "-"
	}
	return fmt.Sprintf("%s (%.6f)", ranked[0].NodeID, ranked[0].Score)
}

// generate builds a random transfer graph and plants small rings with
// repeated transfers so the cycle detector has something to find
func generate(accounts, transfers, rings int, seed int64) *graph.Snapshot {
	rng := rand.New(rand.NewSource(seed))
	b := graph.NewBuilder()

	for i := 0; i < accounts; i++ {
		if err := b.AddAccount(fmt.Sprintf("acct%d", i)); err != nil {
			log.Fatalf("Failed to add account: %v", err)
		}
	}

	edge := 0
	add := func(from, to int, amount float64) {
		if err := b.Transfer(fmt.Sprintf("t%d", edge), fmt.Sprintf("acct%d", from), fmt.Sprintf("acct%d", to), amount); err != nil {
			log.Printf("Warning: Failed to add transfer: %v", err)
		}
		edge++
	}

	for i := 0; i < transfers; i++ {
		from := rng.Intn(accounts)
		to := rng.Intn(accounts)
		if from == to {
			to = (to + 1) % accounts
		}
		add(from, to, rng.Float64()*10_000)
	}

	for r := 0; r < rings && accounts >= 3; r++ {
		size := 3 + rng.Intn(3)
		members := rng.Perm(accounts)[:min(size, accounts)]
		for round := 0; round < 2; round++ {
			for i, m := range members {
				add(m, members[(i+1)%len(members)], 50_000)
			}
		}
	}

	return b.Build()
}
