package clustering

import (
	"sort"

	"dailybrief/internal/core"
)

// Rank orders topic groups by the mean of the named persona score across
// their members, highest first. Unscored members count as 0. The noise
// group is always excluded. Ties keep discovery order (ascending label),
// and an empty input yields an empty result, which callers treat as
// "nothing to report".
func Rank(groups map[core.ClusterLabel][]core.Item, field core.ScoreField) []core.RankedCluster {
	// Iterate labels in discovery order so exact ties rank
	// deterministically. Map iteration order would not.
	labels := make([]core.ClusterLabel, 0, len(groups))
	for label := range groups {
		if label.IsNoise() {
			continue
		}
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	ranked := make([]core.RankedCluster, 0, len(labels))
	for _, label := range labels {
		members := groups[label]
		if len(members) == 0 {
			continue
		}

		var total float64
		for _, item := range members {
			total += item.Score(field)
		}

		ranked = append(ranked, core.RankedCluster{
			Label:    label,
			Items:    members,
			AvgScore: total / float64(len(members)),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AvgScore > ranked[j].AvgScore
	})

	return ranked
}
