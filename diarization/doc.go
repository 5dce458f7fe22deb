// Package diarization defines the provider interface and common types for
// interacting with speaker diarization backends.
//
// A backend accepts a complete batch of buffered audio and returns a list of
// speaker-attributed time segments. The speaker labels it assigns are scoped
// to a single job and are not stable across jobs; stabilizing them is the
// resolve package's concern.
//
// # Backends
//
//   - diarization/pyannote: the pyannote.ai cloud API (upload, job
//     submission, polling or webhook delivery)
package diarization
