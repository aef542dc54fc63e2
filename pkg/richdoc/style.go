package richdoc

import (
	"strconv"
	"strings"
)

type StyleTag uint8

const (
	Bold StyleTag = iota
	Italic
	Underline
	Strikethrough
	Superscript
	Subscript

	numStyleTags
)

var styleTagNames = [numStyleTags]string{
	Bold:          "b",
	Italic:        "i",
	Underline:     "u",
	Strikethrough: "s",
	Superscript:   "sup",
	Subscript:     "sub",
}

var styleTagAliases = map[string]StyleTag{
	"b":      Bold,
	"strong": Bold,
	"i":      Italic,
	"em":     Italic,
	"u":      Underline,
	"ins":    Underline,
	"s":      Strikethrough,
	"strike": Strikethrough,
	"del":    Strikethrough,
	"sup":    Superscript,
	"sub":    Subscript,
}

// AllStyleTags lists every tag in canonical nesting order.
var AllStyleTags = []StyleTag{Bold, Italic, Underline, Strikethrough, Superscript, Subscript}

// ElementName is the element a serialized run is wrapped in for this tag.
func (t StyleTag) ElementName() string {
	if t >= numStyleTags {
		return ""
	}
	return styleTagNames[t]
}

func (t StyleTag) String() string {
	switch t {
	case Bold:
		return "Bold"
	case Italic:
		return "Italic"
	case Underline:
		return "Underline"
	case Strikethrough:
		return "Strikethrough"
	case Superscript:
		return "Superscript"
	case Subscript:
		return "Subscript"
	}
	return "StyleTag(" + strconv.Itoa(int(t)) + ")"
}

func (t StyleTag) valid() bool {
	return t < numStyleTags
}

// ParseStyleTag maps an element name to its style tag. Matching ignores case.
func ParseStyleTag(name string) (StyleTag, bool) {
	t, ok := styleTagAliases[strings.ToLower(name)]
	return t, ok
}

// StyleSet is an unordered, duplicate-free set of style tags. The zero value
// is the empty set and two sets compare equal with == exactly when they hold
// the same tags.
type StyleSet uint8

func NewStyleSet(tags ...StyleTag) StyleSet {
	var s StyleSet
	for _, t := range tags {
		s = s.With(t)
	}
	return s
}

func (s StyleSet) Has(t StyleTag) bool {
	return t.valid() && s&(1<<t) != 0
}

func (s StyleSet) With(t StyleTag) StyleSet {
	if !t.valid() {
		return s
	}
	return s | 1<<t
}

func (s StyleSet) Without(t StyleTag) StyleSet {
	if !t.valid() {
		return s
	}
	return s &^ (1 << t)
}

func (s StyleSet) IsEmpty() bool {
	return s == 0
}

func (s StyleSet) Len() int {
	n := 0
	for _, t := range AllStyleTags {
		if s.Has(t) {
			n++
		}
	}
	return n
}

// Tags returns the members in canonical order.
func (s StyleSet) Tags() []StyleTag {
	out := make([]StyleTag, 0, s.Len())
	for _, t := range AllStyleTags {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s StyleSet) String() string {
	tags := s.Tags()
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.String()
	}
	return "{" + strings.Join(names, ",") + "}"
}
