package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/go-errors/errors"
)

// ScreenSink draws cells onto a tcell Screen, attributes mapped to the
// 16-color palette
type ScreenSink struct {
	screen tcell.Screen
	styles map[Attr]tcell.Style

	// afterInit runs once the screen is engaged, for output fixups on real terminals
	afterInit func() error
}

// NewScreenSink wraps an uninitialised screen; Init initialises it
func NewScreenSink(screen tcell.Screen) *ScreenSink {
	return &ScreenSink{
		screen: screen,
		styles: make(map[Attr]tcell.Style, 256),
	}
}

func (s *ScreenSink) Init() error {
	if err := s.screen.Init(); err != nil {
		return errors.WrapPrefix(err, "tcell init", 0)
	}
	if s.afterInit != nil {
		if err := s.afterInit(); err != nil {
			s.screen.Fini()
			return errors.WrapPrefix(err, "tcell post-init", 0)
		}
	}
	s.screen.HideCursor()
	s.screen.Clear()
	return nil
}

func (s *ScreenSink) WriteCells(cells []Cell, cols, rows int) error {
	if len(cells) < cols*rows {
		return errors.Errorf("cell buffer holds %d cells, need %d", len(cells), cols*rows)
	}
	for y := 0; y < rows; y++ {
		row := cells[y*cols : (y+1)*cols]
		for x, c := range row {
			s.screen.SetContent(x, y, c.Char, nil, s.style(c.Attr))
		}
	}
	s.screen.Show()
	return nil
}

func (s *ScreenSink) Fini() error {
	s.screen.Fini()
	return nil
}

// style caches the tcell style for each of the 256 attribute words
func (s *ScreenSink) style(a Attr) tcell.Style {
	if st, ok := s.styles[a]; ok {
		return st
	}
	st := tcell.StyleDefault.
		Foreground(tcell.PaletteColor(a.Foreground().PaletteIndex())).
		Background(tcell.PaletteColor(a.Background().PaletteIndex()))
	s.styles[a] = st
	return st
}
