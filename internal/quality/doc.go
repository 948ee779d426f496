// Package quality owns rendering fidelity: the per-tier preset table, the
// sliding-window frame-rate monitor, and the hysteresis controller that
// moves between tiers as measured frame rate drifts from target.
//
// All types here are owned by the render tick and are not safe for
// concurrent use.
package quality
