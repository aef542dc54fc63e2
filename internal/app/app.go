package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"richedit/internal/editor"
	"richedit/internal/platform"
	"richedit/internal/platform/headless"
	"richedit/internal/render"
	"richedit/internal/ui"
	"richedit/pkg/richdoc"
)

// Clipboard is the system clipboard as the host sees it.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

type Options struct {
	Logger *zap.Logger
	// Clipboard defaults to the system clipboard when the config enables
	// it.
	Clipboard Clipboard
	// Stdout receives the HTML when Config.Output is empty.
	Stdout io.Writer
	// Preview receives the framed preview. Defaults to os.Stderr.
	Preview io.Writer
}

// App replays scripted input events against one editing session, the way an
// interactive host forwards input from its editable surface.
type App struct {
	cfg      Config
	log      *zap.Logger
	clip     Clipboard
	stdout   io.Writer
	previewW io.Writer

	platform platform.Platform
	surface  platform.Surface
	session  *editor.Session
	initial  [32]byte
	status   string
	applied  int
	rejected int
}

func New(cfg Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	events, err := cfg.Events()
	if err != nil {
		return nil, err
	}
	a := &App{
		cfg:      cfg,
		log:      opts.Logger,
		clip:     opts.Clipboard,
		stdout:   opts.Stdout,
		previewW: opts.Preview,
		platform: headless.New(events...),
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	if a.clip == nil && cfg.Clipboard {
		a.clip = systemClipboard{}
	}
	if a.stdout == nil {
		a.stdout = os.Stdout
	}
	if a.previewW == nil {
		a.previewW = os.Stderr
	}
	return a, nil
}

func (a *App) Run() error {
	doc, err := a.loadDocument()
	if err != nil {
		return err
	}
	a.initial = richdoc.Digest(doc)
	a.session = editor.NewSession(doc, editor.Options{
		Logger:         a.log.Named("session"),
		LineBreakToken: a.cfg.LineBreakToken,
	})

	surface, err := a.platform.CreateSurface(platform.SurfaceConfig{Title: a.cfg.Title, Width: a.cfg.Width})
	if err != nil {
		return fmt.Errorf("create %s surface: %w", a.platform.Name(), err)
	}
	a.surface = surface
	defer surface.Close()
	if err := surface.Present(a.session.Tree()); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	a.status = fmt.Sprintf("%d blocks", len(doc.Blocks))

loop:
	for {
		events := surface.PollEvents()
		if len(events) == 0 {
			break
		}
		for _, ev := range events {
			if ev.Type == platform.EventClose {
				break loop
			}
			if err := a.handleEvent(ev); err != nil {
				return err
			}
		}
	}

	if err := a.checkSurface(); err != nil {
		return err
	}
	if err := a.writeOutput(); err != nil {
		return err
	}
	if a.cfg.Preview {
		if err := a.drawPreview(); err != nil {
			return err
		}
	}
	a.log.Info("session finished",
		zap.Int("applied", a.applied),
		zap.Int("rejected", a.rejected),
		zap.Bool("modified", richdoc.Digest(a.session.Document()) != a.initial),
	)
	return nil
}

// Document is the session document. It is nil before Run.
func (a *App) Document() *richdoc.Document {
	if a.session == nil {
		return nil
	}
	return a.session.Document()
}

// Status is the last status line.
func (a *App) Status() string { return a.status }

func (a *App) loadDocument() (*richdoc.Document, error) {
	if a.cfg.Input == "" {
		return richdoc.NewDocument(), nil
	}
	f, err := os.Open(a.cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	doc, err := richdoc.ParseHTML(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", a.cfg.Input, err)
	}
	a.log.Debug("loaded document", zap.String("path", a.cfg.Input), zap.Int("blocks", len(doc.Blocks)))
	return doc, nil
}

func (a *App) handleEvent(ev platform.Event) error {
	switch ev.Type {
	case platform.EventSelect:
		a.log.Debug("selection moved", zap.Int("anchor", ev.Anchor), zap.Int("focus", ev.Focus))
		return nil
	case platform.EventInput:
	default:
		return nil
	}

	in := editor.Intent{
		Kind:   editor.ParseInputType(ev.InputType),
		Anchor: ev.Anchor,
		Focus:  ev.Focus,
		Text:   ev.Data,
	}
	switch in.Kind {
	case editor.InsertFromPaste:
		if in.Text == "" {
			paste, err := a.readClipboard()
			if err != nil {
				a.status = "Paste failed: " + err.Error()
				return nil
			}
			in.Text = paste
		}
	case editor.DeleteByCut:
		if !in.Collapsed() {
			selected, err := a.session.SelectedText(in.Anchor, in.Focus)
			if err == nil {
				err = a.writeClipboard(selected)
			}
			if err != nil {
				a.status = "Cut failed: " + err.Error()
				return nil
			}
		}
	}

	res, err := a.session.Apply(in)
	if err != nil {
		a.rejected++
		a.status = fmt.Sprintf("%s rejected: %v", in.Kind, err)
		if errors.Is(err, editor.ErrMalformedSelection) {
			// Re-derive the selection against the current document.
			a.session.Resync()
			a.surface.SetSelection(platform.Selection{Anchor: 0, Focus: 0})
		}
		return nil
	}
	a.applied++
	if err := a.surface.Present(res.Tree); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	a.surface.SetSelection(platform.Selection{Anchor: res.Anchor, Focus: res.Focus})
	if res.Changed {
		a.status = fmt.Sprintf("%s at %d", in.Kind, res.Focus)
	}
	return nil
}

func (a *App) readClipboard() (string, error) {
	if a.clip == nil {
		return "", errors.New("clipboard disabled")
	}
	return a.clip.ReadAll()
}

func (a *App) writeClipboard(text string) error {
	if a.clip == nil {
		return errors.New("clipboard disabled")
	}
	return a.clip.WriteAll(text)
}

// checkSurface parses the tree the surface holds back into a document and
// compares it with the session's, the round trip a real host performs when
// it re-reads its editable container.
func (a *App) checkSurface() error {
	doc, err := richdoc.Parse(a.surface.Tree())
	if err != nil {
		return fmt.Errorf("reparse surface: %w", err)
	}
	if richdoc.Digest(doc) != richdoc.Digest(a.session.Document()) {
		a.log.Warn("surface tree diverged from session document")
	}
	return nil
}

// writeOutput renders the whole document before touching the destination,
// so a render failure leaves no partial file behind.
func (a *App) writeOutput() error {
	var buf bytes.Buffer
	if err := richdoc.RenderHTML(&buf, a.session.Document()); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	if a.cfg.Output == "" {
		buf.WriteByte('\n')
		_, err := buf.WriteTo(a.stdout)
		return err
	}
	if dir := filepath.Dir(a.cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(a.cfg.Output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	a.log.Debug("wrote document", zap.String("path", a.cfg.Output))
	return nil
}

func (a *App) renderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(a.previewW)
	switch a.cfg.Color {
	case "never":
		r.SetColorProfile(termenv.Ascii)
	case "always":
		r.SetColorProfile(termenv.TrueColor)
	}
	return r
}

func (a *App) drawPreview() error {
	r := a.renderer()
	theme := ui.DefaultTheme(r)
	cfg := a.surface.Config()
	layout := ui.ComputeLayout(cfg.Width, theme)
	doc := a.session.Document()
	texts := render.NewPreview(r).Lines(doc, a.surface.Selection())
	lines := make([]ui.Line, len(texts))
	for i, text := range texts {
		lines[i] = ui.Line{Kind: doc.Blocks[i].Kind, Text: text}
	}
	frame := ui.DrawShell(theme, layout, cfg.Title, lines, a.status)
	if _, err := fmt.Fprintln(a.previewW, frame); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	return nil
}
