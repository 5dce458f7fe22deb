package resolve

import (
	"testing"

	"github.com/skillsenselab/speakertime/diarization"
)

func mintSeq(prefix string) (func() string, *int) {
	n := 0
	return func() string {
		id := prefix + string(rune('A'+n))
		n++
		return id
	}, &n
}

func TestOverlap_Bootstrap(t *testing.T) {
	mint, minted := mintSeq("ID_")
	segments := []diarization.Segment{
		seg("SPEAKER_01", 0, 5),
		seg("SPEAKER_00", 5, 10),
		seg("SPEAKER_01", 10, 12),
	}

	m := OverlapStabilizer{}.Match(State{MintID: mint}, segments)
	if *minted != 2 {
		t.Fatalf("expected 2 minted ids, got %d", *minted)
	}
	// First-encountered order: SPEAKER_01 mints first.
	if m["SPEAKER_01"] != "ID_A" || m["SPEAKER_00"] != "ID_B" {
		t.Errorf("bootstrap mapping = %v, want SPEAKER_01->ID_A SPEAKER_00->ID_B", m)
	}
}

func TestOverlap_SteadyState(t *testing.T) {
	prev := []diarization.Segment{
		seg("P0", 0, 5),
		seg("P1", 5, 10),
	}
	cur := []diarization.Segment{
		seg("X", 1, 4),
		seg("Y", 6, 9),
	}

	mint, minted := mintSeq("ID_")
	m := OverlapStabilizer{}.Match(State{Previous: prev, MintID: mint}, cur)
	if m["X"] != "P0" || m["Y"] != "P1" {
		t.Errorf("mapping = %v, want X->P0 Y->P1", m)
	}
	if *minted != 0 {
		t.Errorf("no new identities expected, minted %d", *minted)
	}
}

func TestOverlap_NewSpeakerMinted(t *testing.T) {
	prev := []diarization.Segment{seg("P0", 0, 5)}
	cur := []diarization.Segment{
		seg("X", 1, 4),
		seg("Z", 20, 25),
	}

	mint, _ := mintSeq("ID_")
	m := OverlapStabilizer{}.Match(State{Previous: prev, MintID: mint}, cur)
	if m["X"] != "P0" {
		t.Errorf("X should keep P0, got %v", m)
	}
	if m["Z"] != "ID_A" {
		t.Errorf("Z should mint a fresh id, got %v", m)
	}
}

func TestOverlap_ZeroOverlapMints(t *testing.T) {
	// Touching segments overlap by zero; zero is not a match.
	prev := []diarization.Segment{seg("P0", 0, 5)}
	cur := []diarization.Segment{seg("X", 5, 10)}

	mint, minted := mintSeq("ID_")
	m := OverlapStabilizer{}.Match(State{Previous: prev, MintID: mint}, cur)
	if m["X"] != "ID_A" || *minted != 1 {
		t.Errorf("zero overlap must mint, got %v (minted %d)", m, *minted)
	}
}

func TestOverlap_EarlierLabelCanSteal(t *testing.T) {
	// Both current labels overlap P0 but X is processed first and wins it,
	// even though Y overlaps P0 more. Y then mints. Locally greedy by
	// construction; the order dependence is intended.
	prev := []diarization.Segment{seg("P0", 0, 10)}
	cur := []diarization.Segment{
		seg("X", 0, 2),
		seg("Y", 2, 10),
	}

	mint, _ := mintSeq("ID_")
	m := OverlapStabilizer{}.Match(State{Previous: prev, MintID: mint}, cur)
	if m["X"] != "P0" {
		t.Errorf("X processed first should take P0, got %v", m)
	}
	if m["Y"] != "ID_A" {
		t.Errorf("Y should be forced to mint, got %v", m)
	}
}

func TestOverlap_TieBreaksToEarlierPrevious(t *testing.T) {
	prev := []diarization.Segment{
		seg("P0", 0, 4),
		seg("P1", 6, 10),
	}
	// X overlaps both by exactly 2.
	cur := []diarization.Segment{seg("X", 2, 8)}

	mint, _ := mintSeq("ID_")
	m := OverlapStabilizer{}.Match(State{Previous: prev, MintID: mint}, cur)
	if m["X"] != "P0" {
		t.Errorf("tie should break to first-encountered previous identity, got %v", m)
	}
}

func TestOverlap_InjectiveAcrossLabels(t *testing.T) {
	prev := []diarization.Segment{seg("P0", 0, 10)}
	cur := []diarization.Segment{
		seg("X", 0, 6),
		seg("Y", 4, 10),
	}

	mint, _ := mintSeq("ID_")
	m := OverlapStabilizer{}.Match(State{Previous: prev, MintID: mint}, cur)
	if m["X"] == m["Y"] {
		t.Errorf("previous identity consumed twice: %v", m)
	}
}
