package resolve

import "github.com/skillsenselab/speakertime/diarization"

// Strategy names, used for configuration and registry lookup.
const (
	StrategyProximity = "proximity"
	StrategyOverlap   = "overlap"
)

// Mapping assigns raw per-run labels to resolved identities. It is always
// injective: no two raw labels share a resolved identity. It may be partial;
// a raw label absent from the mapping resolves to itself.
type Mapping map[string]string

// Anchor is a user-asserted fact: "this name is the speaker at this
// timecode". Order is the insertion sequence, a display hint only.
type Anchor struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Timecode float64 `json:"timecode"`
	Order    int     `json:"order"`
}

// State is the session state a strategy may consult while matching. Each
// strategy reads only the fields it needs.
type State struct {
	// Anchors are the named anchors in insertion order.
	Anchors []Anchor
	// Previous is the last run's segments rewritten with stable
	// identities; empty on the first run.
	Previous []diarization.Segment
	// MintID mints a fresh stable identity owned by the session.
	MintID func() string
}

// Strategy maps the raw labels of one diarization run to resolved
// identities. Implementations never fail: any input, however degenerate,
// yields a well-defined (possibly empty) mapping.
type Strategy interface {
	Name() string
	Match(st State, segments []diarization.Segment) Mapping
}

// NewStrategy returns the strategy registered under name, or nil for an
// unknown name.
func NewStrategy(name string) Strategy {
	switch name {
	case StrategyProximity:
		return ProximityMatcher{}
	case StrategyOverlap:
		return OverlapStabilizer{}
	default:
		return nil
	}
}
