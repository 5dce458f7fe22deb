package diarization

// Request holds parameters for a diarization call.
type Request struct {
	// Audio is the complete batch of buffered audio to diarize.
	Audio []byte `json:"-"`
	// NumSpeakers is the exact number of speakers (0 = auto-detect).
	NumSpeakers int `json:"num_speakers,omitempty"`
	// WebhookURL, when set, asks the backend to push the finished job to
	// this URL instead of the caller polling for it.
	WebhookURL string `json:"webhook_url,omitempty"`
}

// Response holds the result of a diarization call.
type Response struct {
	// JobID identifies the backend job that produced this result.
	JobID string `json:"job_id,omitempty"`
	// Segments contains speaker-attributed time segments.
	Segments []Segment `json:"segments"`
	// NumSpeakers is the number of speakers detected.
	NumSpeakers int `json:"num_speakers"`
}

// Segment represents a speaker-attributed time range. Start and End are
// absolute offsets in seconds within the submitted audio, Start <= End.
type Segment struct {
	// Speaker is the label the backend assigned for this job.
	Speaker string `json:"speaker"`
	// Start is the segment start time in seconds.
	Start float64 `json:"start"`
	// End is the segment end time in seconds.
	End float64 `json:"end"`
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// DistinctSpeakers returns the number of distinct speaker labels in segs.
func DistinctSpeakers(segs []Segment) int {
	seen := make(map[string]struct{}, 4)
	for _, s := range segs {
		seen[s.Speaker] = struct{}{}
	}
	return len(seen)
}
