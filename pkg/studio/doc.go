// Package studio orchestrates the AI feedback loop over the document core.
//
// # Overview
//
// The studio drives an external generative edit provider through one of
// three flows:
//
//   - Create: one structured turn turns a text description into a canvas
//     plus a flat element list, converted to add patches.
//   - Edit: one turn turns a free-text instruction (with the current render
//     as visual context) into a patch batch.
//   - Reconstruct: a build → critique → fix state machine approximates a
//     target image, using the renderer as an oracle between turns.
//
// All provider output flows through the patch engine with no special
// trust: invalid operations are rejected per patch and reported, and the
// studio always exits with the best document produced so far rather than
// aborting. Progress is emitted as an ordered stream of [Event] values to
// a caller-supplied [Sink]; the studio has no transport opinion about
// where those events go.
//
// # Phases
//
// Reconstruction runs BUILD → CRITIQUE → FIX → DONE. Critique can
// short-circuit straight to DONE when the provider approves the current
// render; FIX runs at most once — there is no open-ended loop. Any phase
// error emits a terminal error event and exits with the pre-phase
// document. The studio never retries a phase automatically.
package studio
