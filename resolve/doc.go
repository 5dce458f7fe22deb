// Package resolve is the speaker identity resolution engine. It turns the
// anonymous per-job labels a diarization backend assigns (SPEAKER_00,
// SPEAKER_01, ...) into identities that stay meaningful to a user across
// successive diarization runs.
//
// Two strategies exist and are deliberately kept separate:
//
//   - ProximityMatcher ties a raw label to a user-supplied named anchor by
//     how close the anchor's timecode lies to that label's segments.
//   - OverlapStabilizer ties a raw label to the previous run's stable
//     identity with the greatest segment overlap, minting fresh identities
//     for new speakers. It ignores manual naming entirely.
//
// A Session owns the accumulated state for one recording: anchors or stable
// history, the latest mapping and labeled timeline, aggregated speaking
// time, and display-name overrides. Every mutating operation holds the
// session lock for its whole duration, so a result delivery never exposes a
// half-updated mapping to a concurrent query.
package resolve
