package resolve

import (
	"sort"

	"github.com/skillsenselab/speakertime/diarization"
)

// ProximityMatcher assigns raw labels to named anchors one-to-one by
// timecode proximity. For every (anchor, label group) pair it computes the
// anchor's minimum distance to the group, sorts all pairs by cost, and
// greedily commits pairs whose anchor and label are both still free.
//
// This is a greedy approximation to minimum-cost bipartite matching, not a
// globally optimal assignment. Anchors are placed by a human at a moment
// expected to fall inside the right speaker's segment (cost 0), so
// near-ties are rare in practice.
type ProximityMatcher struct{}

// Name returns the strategy name.
func (ProximityMatcher) Name() string { return StrategyProximity }

// Match maps raw labels to anchor names. The mapping is partial: raw labels
// left over when every anchor is assigned stay unmapped and display as
// themselves.
func (ProximityMatcher) Match(st State, segments []diarization.Segment) Mapping {
	mapping := make(Mapping)
	if len(st.Anchors) == 0 || len(segments) == 0 {
		return mapping
	}

	groups, labels := groupByLabel(segments)

	type candidate struct {
		cost   float64
		anchor int // index into st.Anchors
		label  int // index into labels
	}
	candidates := make([]candidate, 0, len(st.Anchors)*len(labels))
	for ai, anchor := range st.Anchors {
		for li, label := range labels {
			candidates = append(candidates, candidate{
				cost:   DistanceToGroup(anchor.Timecode, groups[label]),
				anchor: ai,
				label:  li,
			})
		}
	}

	// Ties keep input iteration order (anchor insertion, then label
	// first-encounter).
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].cost < candidates[j].cost
	})

	limit := len(st.Anchors)
	if len(labels) < limit {
		limit = len(labels)
	}

	usedAnchor := make(map[int]bool, limit)
	usedLabel := make(map[int]bool, limit)
	for _, c := range candidates {
		if usedAnchor[c.anchor] || usedLabel[c.label] {
			continue
		}
		mapping[labels[c.label]] = st.Anchors[c.anchor].Name
		usedAnchor[c.anchor] = true
		usedLabel[c.label] = true
		if len(mapping) == limit {
			break
		}
	}
	return mapping
}
