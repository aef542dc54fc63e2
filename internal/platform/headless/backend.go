// Package headless is an in-memory surface driven by a fixed list of
// events. It stands in for an interactive host in the CLI and in tests.
package headless

import (
	"errors"

	"richedit/internal/platform"
	"richedit/pkg/richdoc"
)

var ErrClosed = errors.New("headless: surface closed")

type Backend struct {
	events []platform.Event
}

// New returns a backend whose surfaces replay events in order.
func New(events ...platform.Event) *Backend {
	return &Backend{events: events}
}

func (b *Backend) Name() string { return "headless" }

func (b *Backend) CreateSurface(cfg platform.SurfaceConfig) (platform.Surface, error) {
	return &Surface{
		cfg:     cfg,
		pending: append([]platform.Event(nil), b.events...),
	}, nil
}

type Surface struct {
	cfg      platform.SurfaceConfig
	pending  []platform.Event
	tree     *richdoc.Node
	sel      platform.Selection
	presents int
	closed   bool
}

// PollEvents delivers at most one event per call, so an input event is
// stamped with the selection left by the edit before it.
func (s *Surface) PollEvents() []platform.Event {
	if s.closed {
		return []platform.Event{{Type: platform.EventClose}}
	}
	if len(s.pending) == 0 {
		return nil
	}
	ev := s.pending[0]
	s.pending = s.pending[1:]
	switch ev.Type {
	case platform.EventSelect:
		s.sel = platform.Selection{Anchor: ev.Anchor, Focus: ev.Focus}
	case platform.EventInput:
		ev.Anchor, ev.Focus = s.sel.Anchor, s.sel.Focus
	case platform.EventClose:
		s.closed = true
	}
	return []platform.Event{ev}
}

func (s *Surface) Present(tree *richdoc.Node) error {
	if s.closed {
		return ErrClosed
	}
	s.tree = tree
	s.presents++
	return nil
}

func (s *Surface) Tree() *richdoc.Node { return s.tree }

func (s *Surface) Selection() platform.Selection { return s.sel }

func (s *Surface) SetSelection(sel platform.Selection) { s.sel = sel }

func (s *Surface) Config() platform.SurfaceConfig { return s.cfg }

// Presents counts the trees shown so far.
func (s *Surface) Presents() int { return s.presents }

func (s *Surface) Close() { s.closed = true }
