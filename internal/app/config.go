package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"richedit/internal/editor"
	"richedit/internal/platform"
)

var ErrInvalidConfig = errors.New("app: invalid config")

// Config is the host configuration, normally read from YAML.
type Config struct {
	Title string `yaml:"title"`
	// Input is an HTML fragment to start from. Empty starts from one empty
	// paragraph.
	Input string `yaml:"input"`
	// Output receives the final HTML. Empty writes to the app's stdout.
	Output         string `yaml:"output"`
	LogLevel       string `yaml:"log_level"`
	LineBreakToken string `yaml:"line_break_token"`
	Preview        bool   `yaml:"preview"`
	Width          int    `yaml:"width"`
	// Color is auto, always or never.
	Color     string `yaml:"color"`
	Clipboard bool   `yaml:"clipboard"`
	Script    []Step `yaml:"script"`
}

// Step is one scripted host event. Exactly one of Select, Input or Close is
// set.
type Step struct {
	Select []int  `yaml:"select,flow"`
	Input  string `yaml:"input"`
	Data   string `yaml:"data"`
	Close  bool   `yaml:"close"`
}

func DefaultConfig() Config {
	return Config{
		Title:          "richedit",
		LogLevel:       "info",
		LineBreakToken: editor.DefaultLineBreakToken,
		Width:          80,
		Color:          "auto",
		Clipboard:      true,
	}
}

// LoadConfig reads a YAML config over the defaults. Unknown keys are
// rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %w", ErrInvalidConfig, err)
	}
	if c.Width < 20 {
		return fmt.Errorf("%w: width %d is below 20", ErrInvalidConfig, c.Width)
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%w: color %q", ErrInvalidConfig, c.Color)
	}
	for i, s := range c.Script {
		if _, err := s.Event(); err != nil {
			return fmt.Errorf("%w: script step %d: %w", ErrInvalidConfig, i, err)
		}
	}
	return nil
}

// Event converts a step to the surface event it replays. A single select
// offset places a collapsed caret.
func (s Step) Event() (platform.Event, error) {
	set := 0
	if s.Select != nil {
		set++
	}
	if s.Input != "" {
		set++
	}
	if s.Close {
		set++
	}
	if set != 1 {
		return platform.Event{}, errors.New("need exactly one of select, input, close")
	}
	switch {
	case s.Close:
		return platform.Event{Type: platform.EventClose}, nil
	case s.Input != "":
		return platform.Event{Type: platform.EventInput, InputType: s.Input, Data: s.Data}, nil
	}
	switch len(s.Select) {
	case 1:
		return platform.Event{Type: platform.EventSelect, Anchor: s.Select[0], Focus: s.Select[0]}, nil
	case 2:
		return platform.Event{Type: platform.EventSelect, Anchor: s.Select[0], Focus: s.Select[1]}, nil
	}
	return platform.Event{}, fmt.Errorf("select takes one or two offsets, got %d", len(s.Select))
}

// Events converts the whole script.
func (c Config) Events() ([]platform.Event, error) {
	events := make([]platform.Event, 0, len(c.Script))
	for i, s := range c.Script {
		ev, err := s.Event()
		if err != nil {
			return nil, fmt.Errorf("script step %d: %w", i, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// NewLogger builds a console logger at the configured level, writing to
// stderr.
func NewLogger(c Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: log_level: %w", ErrInvalidConfig, err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = level
	zc.DisableStacktrace = true
	return zc.Build()
}
