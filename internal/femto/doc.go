// Package femto is the root of the femtoscopic correlation engine.
//
// Responsibilities:
//   - leveled log streams shared by the engine packages (Opsf, Diagf, Tracef)
//
// Layout:
//   - event: detector-level input (Event, Track, V0, Xi, Kink)
//   - particle: mass-hypothesis wrappers and per-event snapshots (PicoEvent)
//   - pair: reusable pair cursor with cached relative kinematics
//   - cut: event, particle and pair admission predicates plus monitors
//   - corrfctn: correlation-function accumulators
//   - mixing: bounded event buffers and the binned hideaway
//   - analysis: the per-event filter, pair, mix and dispatch driver
//   - manager: reader loop feeding independent analyses
//
// Dependency rule: subpackages may import femto for logging; femto imports none of them.
package femto
