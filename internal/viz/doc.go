// Package viz provides the terminal probe for gradient-index media.
//
// The probe is a Bubble Tea program that evaluates a medium at a movable
// point and redraws the result on every key press:
//
//   - the index and n·∇n at the probe, with the evaluator's error code
//   - a braille map of the transverse plane with the probe marked
//   - an asciigraph plot of the radial index profile at the probe's z
//
// # Key Bindings
//
//	arrows    - Move the probe in x/y
//	pgup/pgdn - Move the probe in z
//	[ ]       - Select a medium parameter
//	+ -       - Adjust the selected parameter
//	t         - Cycle color themes
//	r         - Reset probe and parameters
//	q         - Quit
package viz
