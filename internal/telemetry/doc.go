// Package telemetry extracts joint-angle telemetry from an animated
// skeleton.
//
// Each tick the Extractor reads the dominant Euler component of up to six
// tracked joints, substitutes a deterministic sinusoidal simulation for
// any joint it cannot read, and smooths every channel with an independent
// exponential moving average.
package telemetry
