package resolve

import (
	"fmt"
	"strings"
	"sync"

	"github.com/skillsenselab/speakertime/diarization"
	"github.com/skillsenselab/speakertime/errors"
	"github.com/skillsenselab/speakertime/logger"
)

// Speaker is one entry in a session snapshot.
type Speaker struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Seconds float64 `json:"seconds"`
}

// Snapshot is the derived view a query returns: speakers with accumulated
// speaking time, the labeled timeline, and the total of all speaker seconds.
type Snapshot struct {
	Speakers     []Speaker             `json:"speakers"`
	TotalSeconds float64               `json:"totalSeconds"`
	Timeline     []diarization.Segment `json:"timeline"`
}

// Session owns all resolution state for one recording. All mutation happens
// inside its methods under a single mutex, one acquisition per call.
type Session struct {
	mu       sync.Mutex
	strategy Strategy
	log      *logger.Logger

	anchors   []Anchor
	anchorSeq int
	stableSeq int

	hasResult bool
	mapping   Mapping
	timeline  []diarization.Segment // latest run, speakers rewritten to resolved identities
	times     map[string]float64    // resolved identity -> accumulated seconds
	names     map[string]string     // display-name overrides
}

// NewSession creates a session using the given resolution strategy.
func NewSession(strategy Strategy, log *logger.Logger) *Session {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Session{
		strategy: strategy,
		log:      log.WithComponent("session"),
		times:    make(map[string]float64),
		names:    make(map[string]string),
	}
}

// Strategy returns the active resolution strategy.
func (s *Session) Strategy() Strategy {
	return s.strategy
}

// AnchorCount returns the number of registered anchors.
func (s *Session) AnchorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.anchors)
}

// AddAnchor registers a named anchor at a timecode and returns it. The name
// must be non-empty and the timecode non-negative; nothing is mutated on a
// validation failure.
func (s *Session) AddAnchor(name string, timecode float64) (Anchor, error) {
	if strings.TrimSpace(name) == "" {
		return Anchor{}, errors.MissingField("name")
	}
	if timecode < 0 {
		return Anchor{}, errors.InvalidInput("timecode", "must be non-negative")
	}
	if s.strategy.Name() != StrategyProximity {
		return Anchor{}, errors.Conflict("anchors are only used by the proximity strategy")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	anchor := Anchor{
		ID:       fmt.Sprintf("MANUAL_%02d", s.anchorSeq),
		Name:     name,
		Timecode: timecode,
		Order:    len(s.anchors),
	}
	s.anchorSeq++
	s.anchors = append(s.anchors, anchor)

	s.log.Info("anchor added", logger.Fields(
		"anchor_id", anchor.ID,
		"name", anchor.Name,
		"timecode", anchor.Timecode,
	))
	return anchor, nil
}

// Submit records a new raw diarization result. It runs the active strategy
// to produce a fresh mapping, rewrites the segments with resolved
// identities, and recomputes the aggregated speaking time from scratch. The
// previous run's segments are fully replaced. Returns the produced mapping.
func (s *Session) Submit(segments []diarization.Segment) Mapping {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Anchors:  s.anchors,
		Previous: s.timeline,
		MintID:   s.mintStableID,
	}
	mapping := s.strategy.Match(st, segments)

	timeline := make([]diarization.Segment, len(segments))
	times := make(map[string]float64, len(mapping))
	for i, seg := range segments {
		identity := seg.Speaker
		if resolved, ok := mapping[seg.Speaker]; ok {
			identity = resolved
		}
		timeline[i] = diarization.Segment{Speaker: identity, Start: seg.Start, End: seg.End}
		times[identity] += seg.Duration()
	}

	s.mapping = mapping
	s.timeline = timeline
	s.times = times
	s.hasResult = true

	s.log.Info("diarization result recorded", logger.Fields(
		logger.FieldStrategy, s.strategy.Name(),
		"segments", len(segments),
		logger.FieldSpeakers, len(times),
	))
	return mapping
}

// mintStableID mints the next stable identity. Called by strategies from
// inside Submit, under the session lock.
func (s *Session) mintStableID() string {
	id := fmt.Sprintf("SPK_%02d", s.stableSeq)
	s.stableSeq++
	return id
}

// Rename overwrites the display-name override for a resolved identity. It
// affects presentation only, never matching.
func (s *Session) Rename(id, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return errors.MissingField("name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[id] = newName
	return nil
}

// Speakers returns the current derived view. Before any diarization result
// the anchors are listed with zero time and an empty timeline; afterwards
// every identity with spoken time plus any still-unmatched anchor appears.
func (s *Session) Speakers() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasResult {
		speakers := make([]Speaker, 0, len(s.anchors))
		for _, a := range s.anchors {
			speakers = append(speakers, Speaker{ID: a.ID, Name: s.displayName(a.ID, a.Name), Seconds: 0})
		}
		return Snapshot{Speakers: speakers, Timeline: []diarization.Segment{}}
	}

	// Identities in timeline first-seen order keeps the view stable.
	speakers := make([]Speaker, 0, len(s.times))
	seen := make(map[string]bool, len(s.times))
	var total float64
	for _, seg := range s.timeline {
		if seen[seg.Speaker] {
			continue
		}
		seen[seg.Speaker] = true
		seconds := s.times[seg.Speaker]
		speakers = append(speakers, Speaker{
			ID:      seg.Speaker,
			Name:    s.displayName(seg.Speaker, seg.Speaker),
			Seconds: seconds,
		})
		total += seconds
	}

	// Anchors whose name was not matched to any raw label wait with zero time.
	matched := make(map[string]bool, len(s.mapping))
	for _, identity := range s.mapping {
		matched[identity] = true
	}
	for _, a := range s.anchors {
		if !matched[a.Name] {
			speakers = append(speakers, Speaker{ID: a.ID, Name: s.displayName(a.ID, a.Name), Seconds: 0})
		}
	}

	timeline := make([]diarization.Segment, len(s.timeline))
	for i, seg := range s.timeline {
		timeline[i] = diarization.Segment{
			Speaker: s.displayName(seg.Speaker, seg.Speaker),
			Start:   seg.Start,
			End:     seg.End,
		}
	}

	return Snapshot{Speakers: speakers, TotalSeconds: total, Timeline: timeline}
}

// Reset wipes anchors, history, aggregated times, overrides, and counters in
// one atomic operation. The session behaves as freshly created afterwards.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.anchors = nil
	s.anchorSeq = 0
	s.stableSeq = 0
	s.hasResult = false
	s.mapping = nil
	s.timeline = nil
	s.times = make(map[string]float64)
	s.names = make(map[string]string)

	s.log.Info("session reset")
}

// displayName returns the override for id when set, otherwise fallback.
func (s *Session) displayName(id, fallback string) string {
	if name, ok := s.names[id]; ok {
		return name
	}
	return fallback
}
