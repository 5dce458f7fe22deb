package diarization

import (
	"encoding/json"
	"fmt"
)

// Job status values shared by the polling and webhook delivery paths.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusCanceled  = "canceled"
)

// WebhookPayload is the body a backend pushes when a job finishes.
type WebhookPayload struct {
	JobID  string         `json:"jobId"`
	Status string         `json:"status"`
	Output *WebhookOutput `json:"output,omitempty"`
}

// WebhookOutput carries the diarization result inside a webhook payload.
type WebhookOutput struct {
	Diarization []Segment `json:"diarization"`
}

// PayloadError reports a webhook body that could not be decoded at all, as
// opposed to a well-formed payload for a job that did not succeed.
type PayloadError struct {
	cause error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("decode webhook payload: %v", e.cause)
}

func (e *PayloadError) Unwrap() error { return e.cause }

// ParseWebhook decodes a pushed job payload and returns the result of a
// succeeded job. A non-succeeded status or a missing output is an error so
// the caller never commits a partial result; an undecodable body is a
// *PayloadError.
func ParseWebhook(body []byte) (*Response, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &PayloadError{cause: err}
	}
	if payload.Status != StatusSucceeded {
		return nil, fmt.Errorf("webhook job %s not succeeded (status %q)", payload.JobID, payload.Status)
	}
	if payload.Output == nil {
		return nil, fmt.Errorf("webhook job %s succeeded without output", payload.JobID)
	}
	return &Response{
		JobID:       payload.JobID,
		Segments:    payload.Output.Diarization,
		NumSpeakers: DistinctSpeakers(payload.Output.Diarization),
	}, nil
}
