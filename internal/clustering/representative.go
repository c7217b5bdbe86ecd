package clustering

import "dailybrief/internal/core"

// Centroid calculates the mean embedding across the given items, skipping
// members without embeddings. Returns nil when no member has one.
func Centroid(items []core.Item) []float64 {
	var centroid []float64
	count := 0

	for _, item := range items {
		if !item.HasEmbedding() {
			continue
		}
		if centroid == nil {
			centroid = make([]float64, len(item.Embedding))
		}
		if len(item.Embedding) != len(centroid) {
			continue
		}
		for i, v := range item.Embedding {
			centroid[i] += v
		}
		count++
	}

	if count == 0 {
		return nil
	}
	for i := range centroid {
		centroid[i] /= float64(count)
	}
	return centroid
}

// Representative returns the member closest to the cluster's mean
// embedding, the item that best stands in for the whole group. A
// single-member cluster returns that member without computing a centroid,
// and a cluster with no usable embeddings degrades to its first member.
// The zero Item is returned only for an empty cluster.
func Representative(items []core.Item) core.Item {
	if len(items) == 0 {
		return core.Item{}
	}
	if len(items) == 1 {
		return items[0]
	}

	centroid := Centroid(items)
	if centroid == nil {
		return items[0]
	}

	best := items[0]
	bestSimilarity := -1.0
	for _, item := range items {
		if !item.HasEmbedding() {
			continue
		}
		if similarity := CosineSimilarity(centroid, item.Embedding); similarity > bestSimilarity {
			bestSimilarity = similarity
			best = item
		}
	}

	return best
}
