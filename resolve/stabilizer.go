package resolve

import "github.com/skillsenselab/speakertime/diarization"

// OverlapStabilizer assigns each raw label of the current run to the
// previous run's stable identity it overlaps most, minting a fresh stable
// identity when nothing overlaps. Manual naming plays no part.
//
// Unlike ProximityMatcher, commitments are made per current label in
// first-encountered order, each taking the best still-unused previous
// identity, without revisiting earlier commitments. An early label can
// claim the identity a later label overlaps even more; that occasional
// suboptimal global assignment is accepted behavior, and downstream
// consumers may depend on the exact order, so it must not be "fixed".
type OverlapStabilizer struct{}

// Name returns the strategy name.
func (OverlapStabilizer) Name() string { return StrategyOverlap }

// Match maps every raw label of the current run to a stable identity. With
// no previous history each distinct raw label gets a freshly minted
// identity in first-encountered order.
func (OverlapStabilizer) Match(st State, segments []diarization.Segment) Mapping {
	mapping := make(Mapping)
	if len(segments) == 0 {
		return mapping
	}

	curGroups, curLabels := groupByLabel(segments)
	prevGroups, prevLabels := groupByLabel(st.Previous)

	if len(prevLabels) == 0 {
		for _, label := range curLabels {
			mapping[label] = st.MintID()
		}
		return mapping
	}

	used := make(map[string]bool, len(prevLabels))
	for _, cur := range curLabels {
		var best float64
		bestID := ""
		for _, prev := range prevLabels {
			if used[prev] {
				continue
			}
			if o := TotalOverlap(curGroups[cur], prevGroups[prev]); o > best {
				best = o
				bestID = prev
			}
		}
		if bestID != "" {
			mapping[cur] = bestID
			used[bestID] = true
		} else {
			mapping[cur] = st.MintID()
		}
	}
	return mapping
}
