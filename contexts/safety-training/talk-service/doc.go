// Package talkservice implements the safety-talk distribution core for the
// Toolbox monolith.
//
// The module owns the safety talk lifecycle (draft/distributed/archived),
// per-recipient distribution fan-out with dual-channel notification, signed
// acknowledgements, quiz definitions and results, and the compliance reports
// over outstanding signatures.
package talkservice
