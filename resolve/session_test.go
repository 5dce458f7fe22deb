package resolve

import (
	"fmt"
	"sync"
	"testing"

	"github.com/skillsenselab/speakertime/diarization"
	"github.com/skillsenselab/speakertime/errors"
)

func newProximitySession(t *testing.T) *Session {
	t.Helper()
	return NewSession(NewStrategy(StrategyProximity), nil)
}

func newOverlapSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(NewStrategy(StrategyOverlap), nil)
}

func speakerByName(snap Snapshot, name string) (Speaker, bool) {
	for _, sp := range snap.Speakers {
		if sp.Name == name {
			return sp, true
		}
	}
	return Speaker{}, false
}

func TestSession_AddAnchorValidation(t *testing.T) {
	s := newProximitySession(t)

	if _, err := s.AddAnchor("  ", 1.0); err == nil {
		t.Error("blank name must be rejected")
	}
	if _, err := s.AddAnchor("Alice", -0.5); err == nil {
		t.Error("negative timecode must be rejected")
	}
	if s.AnchorCount() != 0 {
		t.Errorf("failed adds must not mutate state, count = %d", s.AnchorCount())
	}

	a, err := s.AddAnchor("Alice", 0)
	if err != nil {
		t.Fatalf("AddAnchor: %v", err)
	}
	if a.ID != "MANUAL_00" {
		t.Errorf("first anchor id = %q, want MANUAL_00", a.ID)
	}

	b, _ := s.AddAnchor("Bob", 10)
	if b.ID != "MANUAL_01" {
		t.Errorf("second anchor id = %q, want MANUAL_01", b.ID)
	}
}

func TestSession_AddAnchorRejectedUnderOverlap(t *testing.T) {
	s := newOverlapSession(t)

	_, err := s.AddAnchor("Alice", 1.0)
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeConflict {
		t.Errorf("expected %s, got %v", errors.ErrCodeConflict, err)
	}
}

func TestSession_ProximityAggregation(t *testing.T) {
	s := newProximitySession(t)
	mustAnchor(t, s, "Alice", 2.0)
	mustAnchor(t, s, "Bob", 10.0)

	m := s.Submit([]diarization.Segment{
		seg("SPEAKER_00", 0, 5),
		seg("SPEAKER_01", 5, 12),
	})
	if m["SPEAKER_00"] != "Alice" || m["SPEAKER_01"] != "Bob" {
		t.Fatalf("mapping = %v", m)
	}

	snap := s.Speakers()
	alice, ok := speakerByName(snap, "Alice")
	if !ok || alice.Seconds != 5 {
		t.Errorf("Alice = %+v (found=%v), want 5s", alice, ok)
	}
	bob, ok := speakerByName(snap, "Bob")
	if !ok || bob.Seconds != 7 {
		t.Errorf("Bob = %+v (found=%v), want 7s", bob, ok)
	}
	if snap.TotalSeconds != 12 {
		t.Errorf("totalSeconds = %v, want 12", snap.TotalSeconds)
	}
	if len(snap.Timeline) != 2 || snap.Timeline[0].Speaker != "Alice" || snap.Timeline[1].Speaker != "Bob" {
		t.Errorf("timeline = %+v", snap.Timeline)
	}
}

func TestSession_SnapshotBeforeResult(t *testing.T) {
	s := newProximitySession(t)
	mustAnchor(t, s, "Alice", 2.0)

	snap := s.Speakers()
	if len(snap.Speakers) != 1 || snap.Speakers[0].Name != "Alice" || snap.Speakers[0].Seconds != 0 {
		t.Errorf("pre-result speakers = %+v", snap.Speakers)
	}
	if snap.TotalSeconds != 0 || len(snap.Timeline) != 0 {
		t.Errorf("pre-result snapshot = %+v", snap)
	}
}

func TestSession_ResultReplacesHistory(t *testing.T) {
	s := newProximitySession(t)
	mustAnchor(t, s, "Alice", 2.0)

	s.Submit([]diarization.Segment{seg("SPEAKER_00", 0, 5)})
	s.Submit([]diarization.Segment{seg("SPEAKER_00", 0, 3)})

	snap := s.Speakers()
	alice, _ := speakerByName(snap, "Alice")
	if alice.Seconds != 3 {
		t.Errorf("times must be recomputed, not accumulated: got %v, want 3", alice.Seconds)
	}
	if snap.TotalSeconds != 3 {
		t.Errorf("totalSeconds = %v, want 3", snap.TotalSeconds)
	}
}

func TestSession_UnmatchedAnchorListedWithZeroTime(t *testing.T) {
	s := newProximitySession(t)
	mustAnchor(t, s, "Alice", 1.0)
	mustAnchor(t, s, "Bob", 2.0)

	s.Submit([]diarization.Segment{seg("SPEAKER_00", 0, 5)})

	snap := s.Speakers()
	if len(snap.Speakers) != 2 {
		t.Fatalf("speakers = %+v", snap.Speakers)
	}
	bob, ok := speakerByName(snap, "Bob")
	if !ok || bob.Seconds != 0 {
		t.Errorf("unmatched Bob = %+v (found=%v), want 0s entry", bob, ok)
	}
	if snap.TotalSeconds != 5 {
		t.Errorf("totalSeconds = %v, want 5", snap.TotalSeconds)
	}
}

func TestSession_UnmappedLabelKeepsRawName(t *testing.T) {
	s := newProximitySession(t)
	mustAnchor(t, s, "Alice", 2.0)

	s.Submit([]diarization.Segment{
		seg("SPEAKER_00", 0, 5),
		seg("SPEAKER_01", 5, 8),
	})

	snap := s.Speakers()
	raw, ok := speakerByName(snap, "SPEAKER_01")
	if !ok || raw.Seconds != 3 {
		t.Errorf("leftover raw label = %+v (found=%v)", raw, ok)
	}
}

func TestSession_Rename(t *testing.T) {
	s := newOverlapSession(t)
	s.Submit([]diarization.Segment{seg("SPEAKER_00", 0, 5)})

	snap := s.Speakers()
	if len(snap.Speakers) != 1 {
		t.Fatalf("speakers = %+v", snap.Speakers)
	}
	id := snap.Speakers[0].ID
	if id != "SPK_00" {
		t.Errorf("stable id = %q, want SPK_00", id)
	}

	if err := s.Rename(id, ""); err == nil {
		t.Error("blank rename must be rejected")
	}
	if err := s.Rename(id, "Dana"); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	snap = s.Speakers()
	if snap.Speakers[0].Name != "Dana" {
		t.Errorf("name = %q, want Dana", snap.Speakers[0].Name)
	}
	if snap.Timeline[0].Speaker != "Dana" {
		t.Errorf("timeline speaker = %q, want Dana", snap.Timeline[0].Speaker)
	}
}

func TestSession_OverlapStableAcrossRuns(t *testing.T) {
	s := newOverlapSession(t)

	s.Submit([]diarization.Segment{
		seg("SPEAKER_00", 0, 5),
		seg("SPEAKER_01", 5, 10),
	})
	// The provider may permute labels between runs; overlap keeps ids stable.
	m := s.Submit([]diarization.Segment{
		seg("SPEAKER_01", 1, 4),
		seg("SPEAKER_00", 6, 9),
	})
	if m["SPEAKER_01"] != "SPK_00" || m["SPEAKER_00"] != "SPK_01" {
		t.Errorf("second-run mapping = %v", m)
	}
}

func TestSession_Reset(t *testing.T) {
	s := newProximitySession(t)
	mustAnchor(t, s, "Alice", 2.0)
	s.Submit([]diarization.Segment{seg("SPEAKER_00", 0, 5)})
	if err := s.Rename("Alice", "Alicia"); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	s.Reset()

	if s.AnchorCount() != 0 {
		t.Errorf("anchors survived reset: %d", s.AnchorCount())
	}
	snap := s.Speakers()
	if len(snap.Speakers) != 0 || snap.TotalSeconds != 0 || len(snap.Timeline) != 0 {
		t.Errorf("post-reset snapshot = %+v", snap)
	}

	// Counters restart from zero.
	a, err := s.AddAnchor("Carol", 1.0)
	if err != nil {
		t.Fatalf("AddAnchor: %v", err)
	}
	if a.ID != "MANUAL_00" {
		t.Errorf("anchor id after reset = %q, want MANUAL_00", a.ID)
	}

	over := newOverlapSession(t)
	over.Submit([]diarization.Segment{seg("SPEAKER_00", 0, 1)})
	over.Reset()
	m := over.Submit([]diarization.Segment{seg("SPEAKER_00", 0, 1)})
	if m["SPEAKER_00"] != "SPK_00" {
		t.Errorf("stable id counter must restart after reset, got %v", m)
	}
}

func TestSession_ConcurrentAccess(t *testing.T) {
	s := newProximitySession(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				switch j % 4 {
				case 0:
					_, _ = s.AddAnchor(fmt.Sprintf("spk-%d-%d", i, j), float64(j))
				case 1:
					s.Submit([]diarization.Segment{seg("SPEAKER_00", 0, float64(j+1))})
				case 2:
					_ = s.Speakers()
				case 3:
					_ = s.AnchorCount()
				}
			}
		}(i)
	}
	wg.Wait()
}

func mustAnchor(t *testing.T, s *Session, name string, timecode float64) {
	t.Helper()
	if _, err := s.AddAnchor(name, timecode); err != nil {
		t.Fatalf("AddAnchor(%s): %v", name, err)
	}
}
