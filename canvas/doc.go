// Package canvas holds the fixed-size pixel grid rendered by the terminal backends.
//
// Pixels are stored packed as r*1_000_000 + g*1_000 + b so two cells can be
// compared with a single integer equality during frame emission.
package canvas
