// Package analysis extracts periodic structure from recorded runs.
//
// A bouncing particle's height is close to periodic; its dominant frequency
// shows how quickly collisions or restitution damp the motion:
//
//	freq, _ := analysis.DominantFrequency(heights, dt)
package analysis
