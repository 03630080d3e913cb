// Package render presents a canvas.Canvas on a text terminal, two pixels per
// character cell using the lower half block glyph.
//
// Two backends share the Backend interface: ANSIBackend streams truecolor SGR
// sequences, ConsoleBackend reduces colors to console attribute bits and
// writes cells through a CellSink. Select picks one at startup.
package render
