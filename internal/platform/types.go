package platform

import "richedit/pkg/richdoc"

type SurfaceConfig struct {
	Title string
	Width int
}

type EventType int

const (
	EventUnknown EventType = iota
	EventClose
	// EventSelect moves the surface selection without editing.
	EventSelect
	// EventInput carries one host input type, such as insertText or
	// formatBold, made under the selection current when it was polled.
	EventInput
)

type Event struct {
	Type      EventType
	InputType string
	Data      string
	Anchor    int
	Focus     int
}

// Selection is a pair of projection offsets. Focus is the end that moves.
type Selection struct {
	Anchor int
	Focus  int
}

func (s Selection) Collapsed() bool {
	return s.Anchor == s.Focus
}

type Platform interface {
	Name() string
	CreateSurface(cfg SurfaceConfig) (Surface, error)
}

// Surface is the editable container a host shows the document in. It owns
// the rendered tree and the native selection; the core only replaces both.
type Surface interface {
	Config() SurfaceConfig
	PollEvents() []Event
	Present(tree *richdoc.Node) error
	Tree() *richdoc.Node
	Selection() Selection
	SetSelection(sel Selection)
	Close()
}
