// Package api exposes the speaker resolution service over HTTP: audio chunk
// ingestion, diarization job control, webhook delivery, and speaker queries.
// Handlers bind and validate request bodies, delegate to the resolution
// session and the diarization provider, and answer with the standard
// response envelopes.
package api
