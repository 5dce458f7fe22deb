package diarization

import (
	"errors"
	"testing"
)

func TestParseWebhook_Succeeded(t *testing.T) {
	body := []byte(`{
		"jobId": "job-9",
		"status": "succeeded",
		"output": {"diarization": [
			{"speaker": "SPEAKER_00", "start": 0, "end": 5},
			{"speaker": "SPEAKER_01", "start": 5, "end": 12}
		]}
	}`)

	resp, err := ParseWebhook(body)
	if err != nil {
		t.Fatalf("ParseWebhook: %v", err)
	}
	if resp.JobID != "job-9" {
		t.Errorf("expected job-9, got %s", resp.JobID)
	}
	if len(resp.Segments) != 2 || resp.NumSpeakers != 2 {
		t.Errorf("unexpected result: %+v", resp)
	}
}

func TestParseWebhook_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"failed status", `{"jobId":"j","status":"failed"}`},
		{"canceled status", `{"jobId":"j","status":"canceled"}`},
		{"succeeded without output", `{"jobId":"j","status":"succeeded"}`},
		{"not json", `diarization complete`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseWebhook([]byte(tc.body)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseWebhook_MalformedBody(t *testing.T) {
	_, err := ParseWebhook([]byte(`not json`))
	var pe *PayloadError
	if !errors.As(err, &pe) {
		t.Errorf("expected *PayloadError, got %v", err)
	}

	// A well-formed payload for a failed job is not a PayloadError.
	_, err = ParseWebhook([]byte(`{"jobId":"j","status":"failed"}`))
	if errors.As(err, &pe) {
		t.Errorf("failed-job error must not be a PayloadError: %v", err)
	}
}

func TestSegmentDuration(t *testing.T) {
	s := Segment{Speaker: "SPEAKER_00", Start: 1.5, End: 4}
	if got := s.Duration(); got != 2.5 {
		t.Errorf("expected 2.5, got %v", got)
	}
}

func TestDistinctSpeakers(t *testing.T) {
	segs := []Segment{
		{Speaker: "A", Start: 0, End: 1},
		{Speaker: "B", Start: 1, End: 2},
		{Speaker: "A", Start: 2, End: 3},
	}
	if got := DistinctSpeakers(segs); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := DistinctSpeakers(nil); got != 0 {
		t.Errorf("expected 0 for empty, got %d", got)
	}
}
