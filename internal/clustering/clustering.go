// Package clustering groups items into topic clusters by embedding
// similarity and ranks the resulting groups for digest assembly.
package clustering

import (
	"fmt"
	"math"

	"dailybrief/internal/core"
	"dailybrief/internal/logger"
)

// Config holds the density clustering parameters.
type Config struct {
	MinClusterSize      int     // Minimum number of items to form a cluster
	SimilarityThreshold float64 // Cosine similarity required for a direct connection (0-1)
}

// DefaultConfig returns the clustering defaults used for digest generation.
func DefaultConfig() Config {
	return Config{
		MinClusterSize:      2,
		SimilarityThreshold: 0.6,
	}
}

func (c Config) validate() error {
	if c.MinClusterSize < 1 {
		return fmt.Errorf("min cluster size must be >= 1, got %d", c.MinClusterSize)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be in [0,1], got %f", c.SimilarityThreshold)
	}
	return nil
}

// Internal point states during the density pass.
const (
	unvisited = -2
	noisy     = -1
)

// Cluster partitions items into topic groups using a density pass over
// cosine distance: two items are directly connected when their cosine
// similarity meets the threshold, and a group is a maximal chain of such
// connections seeded by points with at least MinClusterSize neighbors.
//
// Items without embeddings are excluded entirely. When fewer qualifying
// items remain than MinClusterSize, all of them form a single fallback
// group. When the pass finds no group at all, each qualifying item becomes
// its own singleton group so the pipeline always has something to show.
// Items matching no group are returned under core.Noise.
//
// For a fixed input order and thresholds the result is reproducible.
// It is not invariant under input permutation; that is inherent to
// density clustering and expected.
func Cluster(items []core.Item, cfg Config) (map[core.ClusterLabel][]core.Item, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log := logger.Get()

	// Only items with embeddings can participate.
	var qualifying []core.Item
	for _, item := range items {
		if item.HasEmbedding() {
			qualifying = append(qualifying, item)
		}
	}

	if len(qualifying) == 0 {
		log.Info("No items with embeddings to cluster", "candidates", len(items))
		return map[core.ClusterLabel][]core.Item{}, nil
	}

	if len(qualifying) < cfg.MinClusterSize {
		log.Info("Too few items to cluster, using single fallback group",
			"count", len(qualifying), "required", cfg.MinClusterSize)
		return map[core.ClusterLabel][]core.Item{0: qualifying}, nil
	}

	labels := densityScan(qualifying, cfg)

	groups := make(map[core.ClusterLabel][]core.Item)
	realGroups := 0
	for i, item := range qualifying {
		label := core.ClusterLabel(labels[i])
		if !label.IsNoise() && len(groups[label]) == 0 {
			realGroups++
		}
		groups[label] = append(groups[label], item)
	}

	log.Info("Clustering complete",
		"total_items", len(qualifying),
		"clusters", realGroups,
		"noise", len(groups[core.Noise]),
	)

	// Everything noise means nothing would be displayable downstream.
	// Degrade to one singleton group per item instead of discarding all
	// content.
	if realGroups == 0 {
		log.Info("No clusters formed, falling back to singleton groups")
		groups = make(map[core.ClusterLabel][]core.Item, len(qualifying))
		for i, item := range qualifying {
			groups[core.ClusterLabel(i)] = []core.Item{item}
		}
	}

	return groups, nil
}

// densityScan runs the DBSCAN pass and returns one label per item. Group
// labels are non-negative integers assigned in discovery order; noisy marks
// items that belong to no group.
func densityScan(items []core.Item, cfg Config) []int {
	// eps converts the similarity threshold into a distance bound.
	eps := 1.0 - cfg.SimilarityThreshold

	labels := make([]int, len(items))
	for i := range labels {
		labels[i] = unvisited
	}

	neighborsOf := func(idx int) []int {
		var neighbors []int
		for j := range items {
			if CosineDistance(items[idx].Embedding, items[j].Embedding) <= eps {
				neighbors = append(neighbors, j)
			}
		}
		return neighbors
	}

	next := 0
	for i := range items {
		if labels[i] != unvisited {
			continue
		}

		neighbors := neighborsOf(i)
		if len(neighbors) < cfg.MinClusterSize {
			labels[i] = noisy
			continue
		}

		cluster := next
		next++
		labels[i] = cluster

		// Expand the cluster through all density-reachable points.
		for k := 0; k < len(neighbors); k++ {
			j := neighbors[k]

			if labels[j] == noisy {
				// Border point previously seen as noise.
				labels[j] = cluster
				continue
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = cluster

			reachable := neighborsOf(j)
			if len(reachable) >= cfg.MinClusterSize {
				neighbors = append(neighbors, reachable...)
			}
		}
	}

	return labels
}

// CosineSimilarity calculates the cosine similarity between two embeddings,
// clamped to [-1, 1]. Mismatched or zero vectors yield 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	similarity := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))

	// Clamp to handle floating point errors.
	if similarity > 1.0 {
		similarity = 1.0
	} else if similarity < -1.0 {
		similarity = -1.0
	}

	return similarity
}

// CosineDistance converts cosine similarity into a distance.
// Range: [0, 2] where 0 = identical, 1 = orthogonal, 2 = opposite.
// Mismatched or zero vectors get the maximum useful distance 1.
func CosineDistance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1.0
	}
	return 1.0 - CosineSimilarity(a, b)
}
