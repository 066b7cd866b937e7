// Package beatsaver is a client for the BeatSaver map sharing service.
//
// Every operation comes in a blocking form and an async form. Failures of any
// kind (network, HTTP status, malformed JSON, extraction) collapse into an
// empty result; details are written to the logger only. Downloads are
// extracted into {custom levels}/{key} ({song} - {level author}), with the
// folder name always sanitized.
package beatsaver
