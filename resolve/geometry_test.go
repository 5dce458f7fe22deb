package resolve

import (
	"math"
	"testing"

	"github.com/skillsenselab/speakertime/diarization"
)

func seg(speaker string, start, end float64) diarization.Segment {
	return diarization.Segment{Speaker: speaker, Start: start, End: end}
}

func TestOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b diarization.Segment
		want float64
	}{
		{"partial", seg("A", 0, 5), seg("B", 3, 8), 2},
		{"contained", seg("A", 0, 10), seg("B", 2, 4), 2},
		{"identical", seg("A", 1, 4), seg("B", 1, 4), 3},
		{"disjoint", seg("A", 0, 2), seg("B", 5, 7), 0},
		{"touching", seg("A", 0, 3), seg("B", 3, 6), 0},
		{"symmetric", seg("A", 3, 8), seg("B", 0, 5), 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlap(tc.a, tc.b); got != tc.want {
				t.Errorf("Overlap = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTotalOverlap(t *testing.T) {
	a := []diarization.Segment{seg("A", 0, 2), seg("A", 4, 6)}
	b := []diarization.Segment{seg("B", 1, 5)}
	// [0,2]x[1,5] = 1, [4,6]x[1,5] = 1
	if got := TotalOverlap(a, b); got != 2 {
		t.Errorf("TotalOverlap = %v, want 2", got)
	}
	if got := TotalOverlap(nil, b); got != 0 {
		t.Errorf("TotalOverlap with empty group = %v, want 0", got)
	}
}

func TestDistanceToGroup(t *testing.T) {
	group := []diarization.Segment{seg("A", 2, 5), seg("A", 10, 12)}

	tests := []struct {
		name     string
		timecode float64
		want     float64
	}{
		{"inside first", 3, 0},
		{"on boundary", 5, 0},
		{"before all", 0, 2},
		{"between segments", 7, 2},
		{"closer to second", 9, 1},
		{"after all", 15, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DistanceToGroup(tc.timecode, group); got != tc.want {
				t.Errorf("DistanceToGroup(%v) = %v, want %v", tc.timecode, got, tc.want)
			}
		})
	}
}

func TestDistanceToGroup_Empty(t *testing.T) {
	if got := DistanceToGroup(1, nil); !math.IsInf(got, 1) {
		t.Errorf("expected +Inf for empty group, got %v", got)
	}
}

func TestGroupByLabel_PreservesOrder(t *testing.T) {
	segs := []diarization.Segment{
		seg("B", 0, 1), seg("A", 1, 2), seg("B", 2, 3), seg("C", 3, 4),
	}
	groups, order := groupByLabel(segs)
	wantOrder := []string{"B", "A", "C"}
	if len(order) != len(wantOrder) {
		t.Fatalf("expected %d labels, got %d", len(wantOrder), len(order))
	}
	for i, l := range wantOrder {
		if order[i] != l {
			t.Errorf("order[%d] = %s, want %s", i, order[i], l)
		}
	}
	if len(groups["B"]) != 2 {
		t.Errorf("expected 2 segments for B, got %d", len(groups["B"]))
	}
}
