// Package viz renders particle worlds in the terminal.
//
// The live view is a Bubble Tea program driven by a [sim.Loop]: each frame
// the loop copies particle and body positions into a [FrameMsg], and the
// model draws them on a Braille [Canvas] through an orbit [Camera].
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	S     - Single step while paused
//	R     - Reset to initial state
//	T     - Cycle color themes
//	X/Y   - Rotate camera
//	+/-   - Zoom
//	?     - Show help overlay
//	Q     - Quit
package viz
