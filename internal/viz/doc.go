// Package viz renders jump designs in the terminal.
//
//   - [Sketch]: braille side view of the built profile and the flight path
//   - [EFHChart]: equivalent fall height along the landing surface against
//     the design target (asciigraph)
//   - [Summary]: a styled table of design outputs (lipgloss)
package viz
