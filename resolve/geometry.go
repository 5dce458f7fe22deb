package resolve

import (
	"math"

	"github.com/skillsenselab/speakertime/diarization"
)

// Overlap returns the duration in seconds that two segments share.
func Overlap(a, b diarization.Segment) float64 {
	o := math.Min(a.End, b.End) - math.Max(a.Start, b.Start)
	if o < 0 {
		return 0
	}
	return o
}

// TotalOverlap sums the pairwise overlap between every segment of the two
// groups.
func TotalOverlap(a, b []diarization.Segment) float64 {
	var total float64
	for _, sa := range a {
		for _, sb := range b {
			total += Overlap(sa, sb)
		}
	}
	return total
}

// DistanceToGroup returns the minimum distance in seconds from a timecode to
// any segment in the group: 0 when the timecode falls inside a segment,
// +Inf for an empty group. Groups are small, so every segment is scanned.
func DistanceToGroup(timecode float64, group []diarization.Segment) float64 {
	minDistance := math.Inf(1)
	for _, seg := range group {
		if seg.Start <= timecode && timecode <= seg.End {
			return 0
		}
		var d float64
		if timecode < seg.Start {
			d = seg.Start - timecode
		} else {
			d = timecode - seg.End
		}
		if d < minDistance {
			minDistance = d
		}
	}
	return minDistance
}

// groupByLabel groups segments by their speaker label, preserving
// first-encountered label order.
func groupByLabel(segments []diarization.Segment) (map[string][]diarization.Segment, []string) {
	groups := make(map[string][]diarization.Segment, 4)
	order := make([]string, 0, 4)
	for _, seg := range segments {
		if _, ok := groups[seg.Speaker]; !ok {
			order = append(order, seg.Speaker)
		}
		groups[seg.Speaker] = append(groups[seg.Speaker], seg)
	}
	return groups, order
}
